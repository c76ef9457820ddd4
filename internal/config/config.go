// Package config defines the data structures related to configuration and
// includes functions for loading and converting a loan portfolio.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/iwvelando/loan-engine/pkg/loans"
	"github.com/iwvelando/loan-engine/pkg/mathutil"
	"github.com/iwvelando/loan-engine/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// Configuration holds a loan portfolio and how to report on it.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Policy  PolicyConfig  `yaml:"policy,omitempty"`
	Loans   []Loan        `yaml:"loans"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, xlsx, pdf
}

// PolicyConfig holds the defaults applied to loans that leave them unset.
type PolicyConfig struct {
	CalculationMethod       string  `yaml:"calculationMethod,omitempty"`
	DailyPenaltyRatePercent float64 `yaml:"dailyPenaltyRatePercent,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetDefault("policy.calculationMethod", constants.DefaultCalculationMethod)
	v.SetDefault("policy.dailyPenaltyRatePercent", constants.DefaultDailyPenaltyRatePercent)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
// Environment variables are not consulted.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// BuildPolicy turns the policy section into the engine's call-boundary
// defaults.
func (c *Configuration) BuildPolicy() (loans.Policy, error) {
	method := c.Policy.CalculationMethod
	if strings.TrimSpace(method) == "" {
		method = constants.DefaultCalculationMethod
	}
	policy, err := loans.NewPolicy(method, mathutil.FromFloat(c.Policy.DailyPenaltyRatePercent))
	if err != nil {
		return loans.Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Nothing reported here stops a run.
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.PortfolioValidator{
		DefaultMethod: c.Policy.CalculationMethod,
	}
	for _, loan := range c.Loans {
		info := validation.LoanInfo{
			Name:              loan.Name,
			StartDate:         loan.StartDate,
			Term:              loan.Term,
			CalculationMethod: loan.CalculationMethod,
			ReferenceDate:     loan.ReferenceDate,
		}
		for _, late := range loan.LatePayments {
			info.LatePayments = append(info.LatePayments, validation.LatePaymentInfo{
				Name:     late.Name,
				DaysLate: late.DaysLate,
			})
		}
		validator.Loans = append(validator.Loans, info)
	}
	return validator.ValidateAll()
}
