package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network failures and 5xx responses.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindInvalidOutput is a reply that is not JSON or breaks the schema.
	KindInvalidOutput
	// KindTruncated is a structured reply cut off at MaxTokens.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalidOutput:
		return "invalid output"
	case KindTruncated:
		return "truncated"
	default:
		return "unavailable"
	}
}

// Error is returned by every Provider.
type Error struct {
	Kind   Kind
	Vendor string

	// RetryAfter is the server's requested wait on KindRateLimited.
	RetryAfter time.Duration

	// Content is the rejected reply on KindInvalidOutput and KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := "llm"
	if e.Vendor != "" {
		msg += " " + e.Vendor
	}
	msg += ": " + e.Kind.String()
	if e.Kind == KindRateLimited && e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// fromStatus maps a vendor HTTP status onto a Kind. Anything but 429 is
// reported as unavailable.
func fromStatus(vendor string, status int, header http.Header, err error) *Error {
	e := &Error{Kind: KindUnavailable, Vendor: vendor, Err: err}
	if status == http.StatusTooManyRequests {
		e.Kind = KindRateLimited
		e.RetryAfter = retryAfter(header)
	}
	return e
}

func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	if secs, err := strconv.Atoi(h.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func withVendor(err error, vendor string) error {
	var e *Error
	if errors.As(err, &e) && e.Vendor == "" {
		e.Vendor = vendor
	}
	return err
}
