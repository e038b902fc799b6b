package retrieval

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGenerationFailed is matched by every *GenerationFailedError.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidRequest is matched by request validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

// GenerationFailedError reports an upstream failure: a transport error, a
// non-2xx status, an undecodable body or a missing answer. Detail carries
// the upstream's own message when it sent one.
type GenerationFailedError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *GenerationFailedError) Error() string {
	var b strings.Builder
	b.WriteString("generation failed")
	if e.Op != "" {
		fmt.Fprintf(&b, " (%s)", e.Op)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// Is matches ErrGenerationFailed.
func (e *GenerationFailedError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// Details returns the most specific description of the failure.
func (e *GenerationFailedError) Details() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Err != nil:
		return e.Err.Error()
	case e.Status != 0:
		return fmt.Sprintf("upstream returned status %d", e.Status)
	default:
		return "unknown upstream failure"
	}
}

// MissingFieldsError reports required request fields that were absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// Is matches ErrInvalidRequest.
func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrInvalidRequest
}
