package entities

import (
	"errors"
	"fmt"
)

// Error kind tags returned to API callers. Store and configuration failures
// are logged with full detail server-side; callers only see the tag and a
// generic message.
const (
	ErrKindValidation       = "validation_error"
	ErrKindNotFound         = "not_found"
	ErrKindStoreUnavailable = "store_unavailable"
	ErrKindAuditWrite       = "audit_write_failed"
	ErrKindConfiguration    = "configuration_error"
)

// ValidationError reports a missing or malformed field on input. Never
// retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// NotFoundError reports that neither the task id nor a supplied row resolved
// to a sheet row. Distinct from validation so callers can offer a
// create-instead path.
type NotFoundError struct {
	TaskID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found in sheet", e.TaskID)
}

// StoreUnavailableError wraps a network, auth, or timeout failure talking to
// the backing store. Reads may be retried by the caller; writes must not be.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("sheet store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// AuditWriteError wraps a failed audit append. Non-fatal: the update it
// belongs to still succeeds.
type AuditWriteError struct {
	Err error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit append failed: %v", e.Err)
}

func (e *AuditWriteError) Unwrap() error { return e.Err }

// ConfigurationError reports missing store credentials or identifiers at
// startup. Fatal; no operation is attempted.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Missing)
}

// ErrKind classifies an error into one of the kind tags above, or "" when the
// error carries no domain classification.
func ErrKind(err error) string {
	var (
		ve *ValidationError
		nf *NotFoundError
		su *StoreUnavailableError
		aw *AuditWriteError
		ce *ConfigurationError
	)
	switch {
	case errors.As(err, &ve):
		return ErrKindValidation
	case errors.As(err, &nf):
		return ErrKindNotFound
	case errors.As(err, &su):
		return ErrKindStoreUnavailable
	case errors.As(err, &aw):
		return ErrKindAuditWrite
	case errors.As(err, &ce):
		return ErrKindConfiguration
	}
	return ""
}
