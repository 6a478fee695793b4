package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// Error kinds surfaced to the dashboard as transient notifications.
var (
	ErrFetchFailed  = errors.New("fetch-failure")
	ErrDeleteFailed = errors.New("delete-failure")
	ErrExportFailed = errors.New("export-failure")
	ErrValidation   = errors.New("validation")
)

func FetchError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, op, err)
}

func DeleteError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDeleteFailed, op, err)
}

func ExportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExportFailed, op, err)
}

func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// ErrorKind returns the notification kind of err, "internal" when it carries none.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return ErrValidation.Error()
	case errors.Is(err, ErrFetchFailed):
		return ErrFetchFailed.Error()
	case errors.Is(err, ErrDeleteFailed):
		return ErrDeleteFailed.Error()
	case errors.Is(err, ErrExportFailed):
		return ErrExportFailed.Error()
	default:
		return "internal"
	}
}
