package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Reason classifies a failed generation call.
type Reason string

const (
	ReasonAuth        Reason = "auth"
	ReasonRateLimited Reason = "rate_limited"
	ReasonUnavailable Reason = "unavailable"
	ReasonRejected    Reason = "rejected"
	ReasonNetwork     Reason = "network"
	ReasonTimeout     Reason = "timeout"
	ReasonCanceled    Reason = "canceled"
	ReasonEmptyReply  Reason = "empty_reply"
	ReasonBadReply    Reason = "bad_reply"
	ReasonUnknown     Reason = "unknown"
)

// AdapterError is a failed call to a generation provider. An empty Reason
// is derived from Status.
type AdapterError struct {
	Provider string
	Status   int
	Reason   Reason
	Err      error
}

func newError(provider string, status int, reason Reason, err error) *AdapterError {
	return &AdapterError{Provider: provider, Status: status, Reason: reason, Err: err}
}

func (e *AdapterError) Error() string {
	if e == nil {
		return "generation failed"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Provider == "" {
		return fmt.Sprintf("generation failed: %s (status=%d)", ReasonOf(e), e.Status)
	}
	return fmt.Sprintf("%s generation failed: %s (status=%d)", e.Provider, ReasonOf(e), e.Status)
}

func (e *AdapterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReasonOf classifies err. Errors from outside an adapter are classified
// by their context or network cause.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) && adapterErr != nil {
		if adapterErr.Reason != "" {
			return adapterErr.Reason
		}
		if r := reasonForStatus(adapterErr.Status); r != "" {
			return r
		}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonNetwork
	}
	return ReasonUnknown
}

func reasonForStatus(status int) Reason {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ReasonAuth
	case status == http.StatusTooManyRequests:
		return ReasonRateLimited
	case status >= 500 && status <= 599:
		return ReasonUnavailable
	case status >= 400 && status <= 499:
		return ReasonRejected
	}
	return ""
}

// requestFailure classifies an error from sending a request, where any
// unrecognized cause is a network failure.
func requestFailure(err error) Reason {
	if r := ReasonOf(err); r != ReasonUnknown {
		return r
	}
	return ReasonNetwork
}

// IsTransient reports whether the same request may succeed later.
func IsTransient(err error) bool {
	switch ReasonOf(err) {
	case ReasonRateLimited, ReasonUnavailable, ReasonNetwork, ReasonTimeout:
		return true
	}
	return false
}

// ProviderOf returns the provider named by err, or "".
func ProviderOf(err error) string {
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) && adapterErr != nil {
		return adapterErr.Provider
	}
	return ""
}
