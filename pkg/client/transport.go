package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single call unless overridden per call.
const DefaultTimeout = 15 * time.Second

const (
	formContentType = "application/x-www-form-urlencoded; charset=UTF-8"
	maxResponseSize = 8 << 20
)

// TransportOptions tune one request. Zero fields fall back to the defaults
// (POST, 15s timeout, form content type, no extra headers).
type TransportOptions struct {
	Method      string
	Timeout     time.Duration
	ContentType string
	Headers     map[string]string
}

// DefaultTransportOptions returns the options every call starts from.
func DefaultTransportOptions() TransportOptions {
	return TransportOptions{
		Method:      http.MethodPost,
		Timeout:     DefaultTimeout,
		ContentType: formContentType,
	}
}

// Merge returns o with every non-zero field of override applied on top.
// The merge is shallow: a non-nil override.Headers replaces o.Headers.
func (o TransportOptions) Merge(override *TransportOptions) TransportOptions {
	if override == nil {
		return o
	}
	if override.Method != "" {
		o.Method = override.Method
	}
	if override.Timeout > 0 {
		o.Timeout = override.Timeout
	}
	if override.ContentType != "" {
		o.ContentType = override.ContentType
	}
	if override.Headers != nil {
		o.Headers = override.Headers
	}
	return o
}

// TransportRequest is a fully built request handed to a Transport.
type TransportRequest struct {
	Method      string
	URL         string
	Body        string
	ContentType string
	Headers     map[string]string
	Timeout     time.Duration
}

// TransportResponse is a successful response with a JSON body.
type TransportResponse struct {
	Status int
	Body   json.RawMessage
}

// Transport performs a single request attempt. Failures are reported as
// *TransportError so the dispatcher can tell timeouts from other failures.
type Transport interface {
	Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

// Do calls f.
func (f TransportFunc) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// HTTPTransport sends requests with a net/http client.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport using hc, or a fresh client when hc is nil.
// Per-request timeouts come from TransportRequest.Timeout.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPTransport{Client: hc}
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, treq *TransportRequest) (*TransportResponse, error) {
	if treq.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, treq.Timeout)
		defer cancel()
	}

	var body io.Reader
	if treq.Body != "" {
		body = strings.NewReader(treq.Body)
	}
	req, err := http.NewRequestWithContext(ctx, treq.Method, treq.URL, body)
	if err != nil {
		return nil, &TransportError{Kind: KindNetwork, Err: fmt.Errorf("build request: %w", err)}
	}
	if body != nil && treq.ContentType != "" {
		req.Header.Set("Content-Type", treq.ContentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range treq.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		te := classify(err)
		te.Status = resp.StatusCode
		return nil, te
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Kind: KindStatus, Status: resp.StatusCode, Body: raw}
	}
	if !json.Valid(raw) {
		return nil, &TransportError{
			Kind:   KindParse,
			Status: resp.StatusCode,
			Body:   raw,
			Err:    errors.New("response body is not valid JSON"),
		}
	}
	return &TransportResponse{Status: resp.StatusCode, Body: raw}, nil
}

// classify maps a net/http error to a TransportError.
func classify(err error) *TransportError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	return &TransportError{Kind: KindNetwork, Err: err}
}
