package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/upxsys/upx-go/pkg/uri"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-call correlation ID.
const RequestIDHeader = "X-Request-ID"

// Client is the UPX SDK entry point. One Client owns one set of Credentials.
//
// Credentials are read when a call is dispatched, not when it is prepared:
// changing them between Prepare and invoking the prepared call makes the
// call use the newer state.
type Client struct {
	creds     *Credentials
	transport Transport
	defaults  TransportOptions
	logger    *zap.Logger
	metrics   *callMetrics
	limiter   *rate.Limiter
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithServer sets the backend base URL.
func WithServer(server string) Option {
	return func(c *Client) error {
		c.creds.SetServer(server)
		return nil
	}
}

// WithCredentials makes the client use creds instead of a fresh set.
func WithCredentials(creds *Credentials) Option {
	return func(c *Client) error {
		if creds == nil {
			return errors.New("credentials must not be nil")
		}
		c.creds = creds
		return nil
	}
}

// WithTransport replaces the HTTP transport, e.g. with a test double.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPClient sends requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.transport = NewHTTPTransport(hc)
		return nil
	}
}

// WithLogger sets the logger. Calls are logged at debug level only.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithMetrics registers call counters and latency histograms on reg.
// Several clients may share one registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) error {
		if reg == nil {
			return errors.New("metrics registerer must not be nil")
		}
		m, err := newCallMetrics(reg)
		if err != nil {
			return err
		}
		c.metrics = m
		return nil
	}
}

// WithRateLimit throttles dispatch to rps calls per second with the given
// burst. Time spent waiting for the limiter counts against the call timeout.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rate limit must be positive, got rps=%v burst=%d", rps, burst)
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithDefaultOptions merges opts onto the built-in transport defaults for
// every call made by the client.
func WithDefaultOptions(opts TransportOptions) Option {
	return func(c *Client) error {
		c.defaults = c.defaults.Merge(&opts)
		return nil
	}
}

// New creates a Client.
//
//	c, err := client.New(
//	    client.WithServer("https://api.example.com"),
//	    client.WithLogger(logger),
//	)
//	c.SetAccount("acme")
//	c.SetUser("alice")
//	c.SetAPIKey(key)
func New(opts ...Option) (*Client, error) {
	c := &Client{
		creds:     NewCredentials(),
		transport: NewHTTPTransport(nil),
		defaults:  DefaultTransportOptions(),
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on error. Useful in tests and program init.
func MustNew(opts ...Option) *Client {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Credentials returns the credentials the client authenticates with.
func (c *Client) Credentials() *Credentials { return c.creds }

// SetServer sets the backend base URL.
func (c *Client) SetServer(server string) { c.creds.SetServer(server) }

// SetXDebug starts the named debug session on every call; empty disables it.
func (c *Client) SetXDebug(session string) { c.creds.SetXDebug(session) }

// SetAccount sets the main account.
func (c *Client) SetAccount(account string) { c.creds.SetAccount(account) }

// SetUser sets the user and switches to user rights.
func (c *Client) SetUser(user string) { c.creds.SetUser(user) }

// SetSubaccount sets the subaccount and switches to subuser rights.
func (c *Client) SetSubaccount(subaccount string) { c.creds.SetSubaccount(subaccount) }

// SetAnonymous switches to anonymous access.
func (c *Client) SetAnonymous() { c.creds.SetAnonymous() }

// SetPassword authenticates with a password.
func (c *Client) SetPassword(password string) { c.creds.SetPassword(password) }

// SetHash authenticates with a password hash.
func (c *Client) SetHash(hash string) { c.creds.SetHash(hash) }

// SetAPIKey authenticates with an API key.
func (c *Client) SetAPIKey(apikey string) { c.creds.SetAPIKey(apikey) }

// Call invokes function in module with params and returns its pending Outcome.
//
// Missing arguments or credentials are reported synchronously and nothing is
// sent. Otherwise exactly one request is made and the Outcome:
//   - resolves with the envelope's "response" field when "success" is true;
//   - rejects with *EnvelopeError when "success" is false;
//   - rejects with CodeTimeout when the request times out;
//   - rejects with CodeNotImplemented on HTTP 501;
//   - rejects with *TransportError on any other failure.
//
// params may be nil. opts, when non-nil, is merged over the client defaults.
// ctx contributes values only: the call is not cancelled with it and is
// bounded by its timeout alone.
func (c *Client) Call(ctx context.Context, module, function string, params Value, opts *TransportOptions) (*Outcome[json.RawMessage], error) {
	if module == "" {
		return nil, ErrMissingModule
	}
	if function == "" {
		return nil, ErrMissingMethod
	}

	snap := c.creds.Snapshot()
	if snap.Server == "" {
		return nil, ErrServerNotSet
	}
	auth, err := BuildAuth(snap)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = NewNode()
	}

	o := c.defaults.Merge(opts)
	reqID := uuid.NewString()
	headers := make(map[string]string, len(o.Headers)+1)
	for k, v := range o.Headers {
		headers[k] = v
	}
	if _, ok := headers[RequestIDHeader]; !ok {
		headers[RequestIDHeader] = reqID
	}

	req := &TransportRequest{
		Method:      o.Method,
		URL:         uri.Build(snap.Server, module, function, snap.XDebug),
		Body:        Serialize(NewNode(Entry{"params", params}, Entry{"auth", auth}), ""),
		ContentType: o.ContentType,
		Headers:     headers,
		Timeout:     o.Timeout,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	outcome := newOutcome[json.RawMessage]()
	go c.dispatch(context.WithoutCancel(ctx), module, function, reqID, req, outcome)
	return outcome, nil
}

// dispatch performs the request and settles outcome.
func (c *Client) dispatch(ctx context.Context, module, function, reqID string, req *TransportRequest, outcome *Outcome[json.RawMessage]) {
	start := time.Now()
	log := c.logger.With(
		zap.String("module", module),
		zap.String("function", function),
		zap.String("request_id", reqID),
	)
	log.Debug("dispatching call", zap.Duration("timeout", req.Timeout))

	var (
		result  json.RawMessage
		failure error
	)
	if err := c.wait(ctx, req); err != nil {
		failure = err
	} else if resp, err := c.transport.Do(ctx, req); err != nil {
		failure = normalizeFailure(err)
	} else {
		result, failure = unwrapEnvelope(resp.Body)
	}

	elapsed := time.Since(start)
	c.metrics.observe(module, function, failure, elapsed)
	log.Debug("call settled",
		zap.String("result", resultLabel(failure)),
		zap.Duration("duration", elapsed),
	)

	if failure != nil {
		outcome.reject(failure)
		return
	}
	outcome.resolve(result)
}

// wait blocks on the rate limiter and shortens req.Timeout by the time spent.
func (c *Client) wait(ctx context.Context, req *TransportRequest) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	wctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()
	if err := c.limiter.Wait(wctx); err != nil {
		return CodeTimeout
	}
	req.Timeout -= time.Since(start)
	if req.Timeout <= 0 {
		return CodeTimeout
	}
	return nil
}

// normalizeFailure maps a transport error onto the rejection values callers
// match on.
func normalizeFailure(err error) error {
	var code FailureCode
	if errors.As(err, &code) {
		return code
	}
	var te *TransportError
	if errors.As(err, &te) {
		switch {
		case te.Kind == KindTimeout:
			return CodeTimeout
		case te.Status == http.StatusNotImplemented:
			return CodeNotImplemented
		}
		return te
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	return &TransportError{Kind: KindNetwork, Err: err}
}

// unwrapEnvelope extracts the response of a successful envelope.
func unwrapEnvelope(body json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		if err == nil {
			err = errors.New("envelope is not a JSON object")
		}
		return nil, &TransportError{Kind: KindParse, Body: body, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	var success bool
	if raw, ok := fields["success"]; ok {
		_ = json.Unmarshal(raw, &success)
	}
	if !success {
		var envelope map[string]any
		_ = json.Unmarshal(body, &envelope)
		return nil, &EnvelopeError{Raw: body, Envelope: envelope}
	}

	response, ok := fields["response"]
	if !ok {
		return json.RawMessage("null"), nil
	}
	return response, nil
}
