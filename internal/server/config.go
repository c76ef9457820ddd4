package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/loan-engine/internal/config"
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/loans"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	Logging         config.LoggingConfig `yaml:"logging"`
	Policy          config.PolicyConfig  `yaml:"policy"`
	Tracing         TracingConfig        `yaml:"tracing"`
	uploadSizeBytes int64
}

// TracingConfig selects where request spans are exported.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint,omitempty"` // OTLP/HTTP host:port; empty disables export
	ServiceName string `yaml:"serviceName,omitempty"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overwriting variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error. LOAN_ENGINE_* environment variables
// override the file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		Logging:       config.LoggingConfig{},
		Policy: config.PolicyConfig{
			CalculationMethod:       constants.DefaultCalculationMethod,
			DailyPenaltyRatePercent: constants.DefaultDailyPenaltyRatePercent,
		},
		Tracing:         TracingConfig{ServiceName: constants.DefaultServiceName},
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LOAN_ENGINE_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	env := func(name string) (string, bool) {
		value, ok := lookup(constants.EnvPrefix + "_" + name)
		return strings.TrimSpace(value), ok && strings.TrimSpace(value) != ""
	}

	if v, ok := env("ADDRESS"); ok {
		c.Address = v
	}
	if v, ok := env("MAX_UPLOAD_SIZE"); ok {
		c.MaxUploadSize = v
	}
	if v, ok := env("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := env("LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := env("CALCULATION_METHOD"); ok {
		c.Policy.CalculationMethod = v
	}
	if v, ok := env("DAILY_PENALTY_RATE_PERCENT"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s_DAILY_PENALTY_RATE_PERCENT %q: %w", constants.EnvPrefix, v, err)
		}
		c.Policy.DailyPenaltyRatePercent = rate
	}
	if v, ok := env("TRACING_ENDPOINT"); ok {
		c.Tracing.Endpoint = v
	}
	return nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = constants.DefaultServiceName
	}
	if strings.TrimSpace(c.Policy.CalculationMethod) == "" {
		c.Policy.CalculationMethod = constants.DefaultCalculationMethod
	}

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into
// bytes. A blank value means the default upload limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	unitStart := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	switch unitStart {
	case 0:
		return 0, fmt.Errorf("invalid size: %s", value)
	case -1:
		unitStart = len(trimmed)
	}

	n, err := strconv.ParseInt(trimmed[:unitStart], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	unit := strings.TrimSpace(trimmed[unitStart:])
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}

// BuildPolicy returns the engine defaults the API applies to requests that
// leave them out.
func (c *Config) BuildPolicy() (loans.Policy, error) {
	portfolio := config.Configuration{Policy: c.Policy}
	return portfolio.BuildPolicy()
}
