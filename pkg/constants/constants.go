// Package constants provides shared constants for the loan-engine application.
package constants

// DateLayout is the format expected in config files and API payloads and is
// also the output date format.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of billing periods in a year
	MonthsPerYear = 12

	// CurrencyPlaces is the number of decimal places money is rounded to
	CurrencyPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = "0.01"

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100

	// RateWorkingPlaces is the precision kept for intermediate rate factors
	RateWorkingPlaces = 24
)

// Policy defaults. These seed configuration loading only; engine calls always
// receive their policy explicitly.
const (
	// DefaultCalculationMethod is the method used when a loan names none
	DefaultCalculationMethod = "simple"

	// DefaultDailyPenaltyRatePercent is the default late penalty, in percent per day
	DefaultDailyPenaltyRatePercent = 0.1
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"

	// OutputFormatPDF is the printable output format
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default portfolio configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultServiceName is reported to tracing backends
	DefaultServiceName = "loan-engine"

	// EnvPrefix prefixes environment overrides for the server
	EnvPrefix = "LOAN_ENGINE"
)
