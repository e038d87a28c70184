package common

import (
	"fmt"
	"slices"
)

// ValidateOutputFormat checks format against the configured formats.
// An empty list accepts any format.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the formats offered for shell completion
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
