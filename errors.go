package capsolver

import (
	"errors"
	"fmt"
	"time"
)

// Validation sentinels, matched with errors.Is against a *ValidationError.
var (
	ErrUnsupportedKind   = errors.New("capsolver: unsupported kind")
	ErrUnsupportedModule = errors.New("capsolver: unsupported module")
	ErrScoreOutOfRange   = errors.New("capsolver: score out of range")
	ErrMissingField      = errors.New("capsolver: missing required field")
)

// ErrTimeout is matched by a *TimeoutError.
var ErrTimeout = errors.New("capsolver: task result timeout")

// ValidationError reports a task parameter rejected locally, before any
// request was sent.
type ValidationError struct {
	Task  string
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s=%v: %v", e.Task, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Task, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError wraps a network failure or an unexpected HTTP status.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is an error reported by the service with errorId != 0.
type RemoteError struct {
	Endpoint    string
	ErrorID     int
	Code        string
	Description string
}

func (e *RemoteError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s: %s", e.Endpoint, e.Code, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Code)
}

// DecodeError means a response body could not be parsed into the expected
// shape.
type DecodeError struct {
	Endpoint string
	Body     []byte
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MalformedInputError is returned by CreateTaskRaw for invalid JSON.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("capsolver: malformed task json: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// TimeoutError is returned when polling gives up before the task is ready.
type TimeoutError struct {
	TaskID   string
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("capsolver: task %s not ready after %d attempts (%s)", e.TaskID, e.Attempts, e.Elapsed.Round(time.Millisecond))
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// IsRemoteCode reports whether err is a RemoteError with the given code.
func IsRemoteCode(err error, code string) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == code
}
