package recommend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorKind classifies a failed recommendation call.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_preferences"
	KindStatus       ErrorKind = "upstream_status"
	KindNetwork      ErrorKind = "network"
	KindTimeout      ErrorKind = "timeout"
	KindMalformed    ErrorKind = "malformed_response"
)

// Error is the only error type Gateway.Recommend returns.
type Error struct {
	Kind       ErrorKind
	Reason     string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether asking again later could succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindStatus:
		return e.StatusCode >= 500 || e.StatusCode == 429
	}
	return false
}

// classify maps transport errors onto an *Error. ctx is the deadline-bound
// context of the call so an expired deadline is reported as a timeout even
// when the transport wraps it.
func classify(ctx context.Context, err error) *Error {
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return &Error{
			Kind:       KindStatus,
			StatusCode: statusErr.StatusCode,
			Reason:     fmt.Sprintf("API responded with status: %d", statusErr.StatusCode),
			Err:        err,
		}
	}
	if errors.Is(err, ErrMalformedResponse) {
		return &Error{Kind: KindMalformed, Reason: "recommendation service returned an unreadable response", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Reason: "recommendation service did not answer in time", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Reason: "recommendation service did not answer in time", Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Reason: "recommendation service is unreachable", Err: err}
	}
	return &Error{Kind: KindNetwork, Reason: err.Error(), Err: err}
}
