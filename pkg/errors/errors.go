package errors

import (
	"errors"
	"fmt"
)

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")

	// Catalog errors.
	ErrListing   = fmt.Errorf("failed to list remote prefix")
	ErrNoFiles   = fmt.Errorf("no downloadable files resolved")
	ErrDateRange = fmt.Errorf("invalid date range")

	// Checksum errors.
	ErrChecksumFormat   = fmt.Errorf("unrecognized checksum format")
	ErrChecksumMismatch = fmt.Errorf("checksum mismatch")

	// Archive errors.
	ErrInsecureArchivePath = fmt.Errorf("archive entry escapes extraction directory")

	// Transfer errors.
	ErrTransferIncomplete = fmt.Errorf("transfer session completed with failures")

	// Prompt errors.
	ErrInputClosed = fmt.Errorf("input stream closed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target. Re-exported so
// packages aliasing this one do not need a second errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
