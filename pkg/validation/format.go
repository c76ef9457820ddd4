// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-engine/pkg/constants"
)

// SupportedOutputFormats lists every format the report writers produce.
var SupportedOutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
	constants.OutputFormatXLSX,
	constants.OutputFormatPDF,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, supported := range SupportedOutputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %q",
		strings.Join(SupportedOutputFormats, ", "), format)
}

// RequiresOutputFile reports whether a format is binary and so cannot be
// written to a terminal.
func RequiresOutputFile(format string) bool {
	return format == constants.OutputFormatXLSX || format == constants.OutputFormatPDF
}
