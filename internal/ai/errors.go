package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failed generation call.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindRateLimited       Kind = "rate_limited"
	KindContentRejected   Kind = "content_rejected"
	KindMalformedResponse Kind = "malformed_response"
)

// Error is a typed generation failure. Each instance is scoped to a single
// request and never aborts the surrounding run.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain, defaulting to
// malformed_response for unclassified errors.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindMalformedResponse
}

// Transient reports whether a failed call is worth a single retry.
// Only timeouts and transport-level errors qualify; rate limiting and
// content-policy rejections are final for the request.
func Transient(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
