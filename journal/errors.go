package journal

import (
	"errors"
	"fmt"
)

// ErrRequestFailed is the single failure class of a submission: the request
// could not be sent, or the server answered with a non-2xx status. Every
// error returned by Handler.Submit matches it with errors.Is.
var ErrRequestFailed = errors.New("entry request failed")

// ErrInvalidServerURL indicates that the server URL given to New is not an
// absolute http or https URL.
var ErrInvalidServerURL = errors.New("invalid server url")

// Request failure operations.
const (
	OpEncode = "encode"
	OpBuild  = "build"
	OpSend   = "send"
	OpStatus = "status"
)

// RequestError describes a failed submission.
type RequestError struct {
	// Op is the stage that failed: OpEncode, OpBuild, OpSend or OpStatus.
	Op string

	// StatusCode is the response status for OpStatus failures, zero otherwise.
	StatusCode int

	// Err is the underlying cause, nil for OpStatus failures.
	Err error
}

func (e *RequestError) Error() string {
	if e.Op == OpStatus {
		return fmt.Sprintf("submit entry: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("submit entry: %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports ErrRequestFailed as a match so callers need not know the
// concrete type.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
