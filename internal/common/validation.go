package common

import (
	"fmt"
	"runtime"
	"slices"
)

// maxConcurrency caps --concurrency regardless of what is asked for
const maxConcurrency = 64

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveOutputFormat returns the requested format, or the configured default
// when none was requested, after checking it is supported
func ResolveOutputFormat(requested, configuredDefault string, supportedFormats []string) (string, error) {
	format := requested
	if format == "" {
		format = configuredDefault
	}
	if err := ValidateOutputFormat(format, supportedFormats); err != nil {
		return "", err
	}
	return format, nil
}

// ResolveConcurrency turns the --concurrency flag into a worker count. Zero
// means one worker per CPU.
func ResolveConcurrency(n int) (int, error) {
	switch {
	case n < 0:
		return 0, fmt.Errorf("concurrency must not be negative, got %d", n)
	case n == 0:
		n = runtime.NumCPU()
	}
	return min(n, maxConcurrency), nil
}
