package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a failed call.
type Kind int

const (
	// Unavailable covers network failures and 5xx answers.
	Unavailable Kind = iota
	// RateLimited is a 429; RetryAfter may say when to come back.
	RateLimited
	// Malformed means the reply was not JSON matching the schema.
	Malformed
	// Truncated means the model ran out of output tokens.
	Truncated
	// Rejected is any other 4xx: bad key, unknown model, bad request.
	Rejected
)

func (k Kind) String() string {
	switch k {
	case RateLimited:
		return "rate limited"
	case Malformed:
		return "malformed reply"
	case Truncated:
		return "truncated reply"
	case Rejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// Error is returned by every Client in this package.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration
	Raw        json.RawMessage // the offending reply, for Malformed and Truncated
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err when it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// classify maps an HTTP status from one of the SDKs to an *Error.
func classify(status int, header http.Header, err error) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: RateLimited, RetryAfter: retryAfter(header), Err: err}
	case status >= 400 && status < 500:
		return &Error{Kind: Rejected, Err: err}
	default:
		return &Error{Kind: Unavailable, Err: err}
	}
}

func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
