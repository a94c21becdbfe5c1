package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrParse         = errors.New("parse error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrIntegrity     = errors.New("integrity violation")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes pass context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, pass, operation, message string, err error) error {
	detail := buildDetail(pass, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the whole invocation. Only
// configuration failures are batch-fatal; every other class is recorded and
// the batch moves to the next unit of work.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsParse reports whether an error stems from unparseable tool output.
func IsParse(err error) bool { return errors.Is(err, ErrParse) }

// IsTimeout reports whether an external collaborator exceeded its bound.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsNotFound reports whether a lookup missed.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsIntegrity reports whether a write hit an unexpected constraint failure.
func IsIntegrity(err error) bool { return errors.Is(err, ErrIntegrity) }

func buildDetail(pass, operation, message string) string {
	parts := make([]string, 0, 3)
	if pass = strings.TrimSpace(pass); pass != "" {
		parts = append(parts, pass)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
