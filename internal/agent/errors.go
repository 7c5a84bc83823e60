package agent

import (
	"errors"
	"fmt"
)

const unknownAPIError = "Unknown API error."

// NetworkError covers transport failures and bodies that are not valid JSON.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx status or an error payload embedded in the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return unknownAPIError
	}
	return e.Message
}

// MalformedResponseError means the call succeeded but carried no reply text.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Reason == "" {
		return "Invalid response structure."
	}
	return fmt.Sprintf("Invalid response structure: %s", e.Reason)
}

type ErrorKind string

const (
	KindNone      ErrorKind = ""
	KindNetwork   ErrorKind = "network"
	KindAPI       ErrorKind = "api"
	KindMalformed ErrorKind = "malformed"
)

// Classify maps err onto the failure taxonomy. Untyped errors count as
// network failures since they come from below the protocol layer.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindAPI
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return KindMalformed
	}
	return KindNetwork
}
