package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/loan-engine/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		override string
		level    zapcore.Level
		wantErr  bool
	}{
		{name: "Defaults", level: zapcore.InfoLevel},
		{name: "Config level", cfg: config.LoggingConfig{Level: "debug", Format: "console"}, level: zapcore.DebugLevel},
		{name: "Override wins", cfg: config.LoggingConfig{Level: "debug"}, override: "error", level: zapcore.ErrorLevel},
		{name: "Warning alias", cfg: config.LoggingConfig{Level: "warning"}, level: zapcore.WarnLevel},
		{name: "Bad level", cfg: config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "Bad format", cfg: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.level) {
				t.Errorf("expected level %s to be enabled", tt.level)
			}
			if tt.level > zapcore.DebugLevel && logger.Core().Enabled(tt.level-1) {
				t.Errorf("expected level %s to be disabled", tt.level-1)
			}
		})
	}
}

func TestNewOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "loan-engine.log")
	logger, err := New(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Errorf("expected log output in %s", path)
	}
}
