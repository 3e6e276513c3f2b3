package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Configuration errors. They are returned synchronously by Call, before any
// network activity.
var (
	ErrMissingModule       = errors.New("module is a required parameter")
	ErrMissingMethod       = errors.New("method is a required parameter")
	ErrServerNotSet        = errors.New("server should be set")
	ErrMissingAccount      = errors.New("account should be set")
	ErrMissingIdentityMode = errors.New("password, hash, apikey or anonymous should be set")
	ErrMissingRights       = errors.New("user or subuser should be set")
)

// FailureCode is a literal rejection code delivered through an Outcome.
type FailureCode string

const (
	// CodeTimeout rejects a call whose transport timed out.
	CodeTimeout FailureCode = "timeout"
	// CodeNotImplemented rejects a call answered with HTTP 501.
	CodeNotImplemented FailureCode = "501"
)

func (c FailureCode) Error() string { return string(c) }

// EnvelopeError rejects a call whose backend envelope reported success=false.
// The envelope is passed through untouched.
type EnvelopeError struct {
	Raw      json.RawMessage
	Envelope map[string]any
}

func (e *EnvelopeError) Error() string {
	if msg, ok := e.Envelope["error"].(string); ok && msg != "" {
		return "backend rejected call: " + msg
	}
	if msg, ok := e.Envelope["message"].(string); ok && msg != "" {
		return "backend rejected call: " + msg
	}
	return "backend rejected call"
}

// ErrorKind classifies a transport failure.
type ErrorKind string

const (
	KindTimeout ErrorKind = "timeout"
	KindStatus  ErrorKind = "status"
	KindNetwork ErrorKind = "network"
	KindParse   ErrorKind = "parse"
)

// TransportError describes a failed request. Status is the HTTP status when
// a response was received, 0 otherwise.
type TransportError struct {
	Kind   ErrorKind
	Status int
	Body   []byte
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("transport %s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("transport %s: HTTP %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("transport %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("transport %s", e.Kind)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code returns the literal failure code for err, or "" when err carries none.
func Code(err error) FailureCode {
	var code FailureCode
	if errors.As(err, &code) {
		return code
	}
	return ""
}
