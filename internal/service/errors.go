package service

// Error taxonomy for the reconciliation core. Services return these typed
// values; handlers translate them into transport status codes with errors.As.

// ValidationError means the caller's input was malformed or incomplete.
// Never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConfigurationError means processor credentials or registry entries are
// missing. Operator misconfiguration, not a caller fault.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// ProcessorError means the external payment processor rejected or could not
// service a call. The processor's message is forwarded for diagnosis.
type ProcessorError struct {
	Msg string
}

func (e *ProcessorError) Error() string { return e.Msg }

// NotFoundError means a local record expected to exist is missing. This is a
// data-consistency bug, not a user error, and is treated as fatal.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// PersistenceError means a critical local write failed.
type PersistenceError struct {
	Msg string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *PersistenceError) Unwrap() error { return e.Err }
