package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/upxsys/upx-go/internal/upxtest"
	"github.com/upxsys/upx-go/pkg/client"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ── Helpers ──────────────────────────────────────────────────────────────

// newTestClient returns a client authenticated as user U of account A with
// API key K, talking to a.example through tr.
func newTestClient(t *testing.T, tr client.Transport, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append([]client.Option{
		client.WithServer("https://a.example"),
		client.WithTransport(tr),
	}, opts...)
	c, err := client.New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	c.SetAccount("A")
	c.SetUser("U")
	c.SetAPIKey("K")
	return c
}

// newServerClient returns a fake backend and a client pointed at it.
func newServerClient(t *testing.T, opts ...client.Option) (*upxtest.Server, *client.Client) {
	t.Helper()
	srv := upxtest.NewServer(t)
	opts = append([]client.Option{client.WithServer(srv.URL)}, opts...)
	c, err := client.New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	c.SetAccount("A")
	c.SetUser("U")
	c.SetAPIKey("K")
	return srv, c
}

// recordingTransport captures requests and answers with a fixed envelope.
type recordingTransport struct {
	mu       sync.Mutex
	requests []*client.TransportRequest
	body     string
}

func (r *recordingTransport) Do(_ context.Context, req *client.TransportRequest) (*client.TransportResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	body := r.body
	if body == "" {
		body = `{"success":true,"response":1}`
	}
	return &client.TransportResponse{Status: http.StatusOK, Body: json.RawMessage(body)}, nil
}

func (r *recordingTransport) last(t *testing.T) *client.TransportRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		t.Fatal("no request was sent")
	}
	return r.requests[len(r.requests)-1]
}

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func wait(t *testing.T, o *client.Outcome[json.RawMessage]) (json.RawMessage, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := o.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) && !o.Settled() {
		t.Fatal("outcome did not settle")
	}
	return v, err
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// ── Request construction ─────────────────────────────────────────────────

func TestCall_requestShape(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)
	c.SetServer("https://h")

	o, err := c.Call(context.Background(), "mod", "fn", client.MustFrom(map[string]any{"x": 1}), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if _, err := wait(t, o); err != nil {
		t.Fatalf("outcome: %v", err)
	}

	req := tr.last(t)
	if want := "https://h/?action=request&api=json&module=mod&instance=0&function=fn"; req.URL != want {
		t.Errorf("URL:\n got  %s\n want %s", req.URL, want)
	}
	got := pairs(t, req.Body)
	for _, want := range []string{
		"params[x]=1",
		"auth[account]=A",
		"auth[rights]=user",
		"auth[user]=U",
		"auth[apikey]=K",
		"auth[mode]=apikey",
	} {
		if !contains(got, want) {
			t.Errorf("body missing %s; got %v", want, got)
		}
	}
	if req.Method != http.MethodPost {
		t.Errorf("Method: got %s, want POST", req.Method)
	}
	if req.Timeout != client.DefaultTimeout {
		t.Errorf("Timeout: got %v, want %v", req.Timeout, client.DefaultTimeout)
	}
	if !strings.HasPrefix(req.ContentType, "application/x-www-form-urlencoded") {
		t.Errorf("ContentType: got %q", req.ContentType)
	}
	if req.Headers[client.RequestIDHeader] == "" {
		t.Error("missing request ID header")
	}
}

func TestCall_paramsBeforeAuth(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)

	o, err := c.Call(context.Background(), "m", "f", client.NewNode().SetString("k", "v"), nil)
	if err != nil {
		t.Fatal(err)
	}
	wait(t, o) //nolint:errcheck

	body := tr.last(t).Body
	if !strings.HasPrefix(body, "params%5Bk%5D=v&auth%5Baccount%5D=A") {
		t.Errorf("unexpected body order: %s", body)
	}
}

func TestCall_nilParams(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)

	o, err := c.Call(context.Background(), "m", "f", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	wait(t, o) //nolint:errcheck

	for _, p := range pairs(t, tr.last(t).Body) {
		if strings.HasPrefix(p, "params") {
			t.Errorf("nil params should contribute nothing, got %s", p)
		}
	}
}

func TestCall_xdebug(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)
	c.SetXDebug("PHPSTORM")

	o, _ := c.Call(context.Background(), "m", "f", nil, nil)
	wait(t, o) //nolint:errcheck

	if !strings.HasSuffix(tr.last(t).URL, "&XDEBUG_SESSION_START=PHPSTORM") {
		t.Errorf("URL missing xdebug session: %s", tr.last(t).URL)
	}

	c.SetXDebug("")
	o, _ = c.Call(context.Background(), "m", "f", nil, nil)
	wait(t, o) //nolint:errcheck
	if strings.Contains(tr.last(t).URL, "XDEBUG") {
		t.Errorf("xdebug should be off: %s", tr.last(t).URL)
	}
}

func TestCall_optionsMergeCallerWins(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr, client.WithDefaultOptions(client.TransportOptions{
		Headers: map[string]string{"X-Default": "d"},
	}))

	o, _ := c.Call(context.Background(), "m", "f", nil, nil)
	wait(t, o) //nolint:errcheck
	if tr.last(t).Headers["X-Default"] != "d" {
		t.Error("client default header missing")
	}

	o, _ = c.Call(context.Background(), "m", "f", nil, &client.TransportOptions{
		Method:  http.MethodPut,
		Timeout: time.Second,
		Headers: map[string]string{"X-Trace": "t", client.RequestIDHeader: "fixed"},
	})
	wait(t, o) //nolint:errcheck

	req := tr.last(t)
	if req.Method != http.MethodPut {
		t.Errorf("Method: got %s, want PUT", req.Method)
	}
	if req.Timeout != time.Second {
		t.Errorf("Timeout: got %v, want 1s", req.Timeout)
	}
	if req.Headers["X-Trace"] != "t" {
		t.Error("caller header missing")
	}
	if _, ok := req.Headers["X-Default"]; ok {
		t.Error("caller headers should replace the defaults wholesale")
	}
	if req.Headers[client.RequestIDHeader] != "fixed" {
		t.Errorf("caller request ID overridden: %q", req.Headers[client.RequestIDHeader])
	}
	if !strings.HasPrefix(req.ContentType, "application/x-www-form-urlencoded") {
		t.Errorf("unset ContentType should keep default, got %q", req.ContentType)
	}
}

// ── Preconditions ────────────────────────────────────────────────────────

func TestCall_preconditions(t *testing.T) {
	cases := []struct {
		name     string
		module   string
		function string
		setup    func(c *client.Client)
		want     error
	}{
		{name: "missing module", function: "f", want: client.ErrMissingModule},
		{name: "missing method", module: "m", want: client.ErrMissingMethod},
		{
			name: "server not set", module: "m", function: "f",
			setup: func(c *client.Client) { c.SetServer("") },
			want:  client.ErrServerNotSet,
		},
		{
			name: "missing account", module: "m", function: "f",
			setup: func(c *client.Client) { c.SetAccount("") },
			want:  client.ErrMissingAccount,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tr := &recordingTransport{}
			c := newTestClient(t, tr)
			if tc.setup != nil {
				tc.setup(c)
			}
			o, err := c.Call(context.Background(), tc.module, tc.function, nil, nil)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
			if o != nil {
				t.Error("no outcome expected on a configuration error")
			}
			if tr.count() != 0 {
				t.Error("nothing should be sent on a configuration error")
			}
		})
	}
}

func TestCall_missingIdentityMode(t *testing.T) {
	tr := &recordingTransport{}
	c, err := client.New(client.WithServer("https://h"), client.WithTransport(tr))
	if err != nil {
		t.Fatal(err)
	}
	c.SetAccount("A")
	c.SetUser("U")

	if _, err := c.Call(context.Background(), "m", "f", nil, nil); !errors.Is(err, client.ErrMissingIdentityMode) {
		t.Errorf("got %v, want ErrMissingIdentityMode", err)
	}
}

func TestCall_missingRights(t *testing.T) {
	creds := &client.Credentials{}
	creds.SetServer("https://h")
	creds.SetAccount("A")
	creds.SetAPIKey("K")

	c, err := client.New(client.WithCredentials(creds), client.WithTransport(&recordingTransport{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Call(context.Background(), "m", "f", nil, nil); !errors.Is(err, client.ErrMissingRights) {
		t.Errorf("got %v, want ErrMissingRights", err)
	}
}

// ── Outcome normalization (against the fake backend) ─────────────────────

func TestCall_success(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Reply("mod", "fn", upxtest.Success(map[string]any{"ok": true}))

	o, err := c.Call(context.Background(), "mod", "fn", client.MustFrom(map[string]any{"x": 1}), nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := wait(t, o)
	if err != nil {
		t.Fatalf("outcome rejected: %v", err)
	}
	if string(v) != `{"ok":true}` {
		t.Errorf("got %s, want {\"ok\":true}", v)
	}

	calls := srv.Calls()
	if len(calls) != 1 {
		t.Fatalf("backend saw %d calls, want 1", len(calls))
	}
	call := calls[0]
	if call.Param("x") != "1" {
		t.Errorf("params[x]: got %q", call.Param("x"))
	}
	for key, want := range map[string]string{"account": "A", "rights": "user", "user": "U", "apikey": "K", "mode": "apikey"} {
		if got := call.Auth(key); got != want {
			t.Errorf("auth[%s]: got %q, want %q", key, got, want)
		}
	}
	if call.RequestID == "" {
		t.Error("backend did not receive a request ID")
	}
}

func TestCall_successWithoutResponseField(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Reply("m", "f", upxtest.Reply{Raw: `{"success":true}`})

	o, _ := c.Call(context.Background(), "m", "f", nil, nil)
	v, err := wait(t, o)
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "null" {
		t.Errorf("got %s, want null", v)
	}
}

func TestCall_envelopeFailure(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Reply("m", "f", upxtest.Reply{Raw: `{"success":false,"error":"nope","code":12}`})

	o, _ := c.Call(context.Background(), "m", "f", nil, nil)
	_, err := wait(t, o)

	var envErr *client.EnvelopeError
	if !errors.As(err, &envErr) {
		t.Fatalf("got %v, want *EnvelopeError", err)
	}
	if string(envErr.Raw) != `{"success":false,"error":"nope","code":12}` {
		t.Errorf("Raw: got %s", envErr.Raw)
	}
	if envErr.Envelope["error"] != "nope" || envErr.Envelope["code"] != float64(12) {
		t.Errorf("Envelope: got %v", envErr.Envelope)
	}
	if !strings.Contains(envErr.Error(), "nope") {
		t.Errorf("Error: got %q", envErr.Error())
	}
	if client.Code(err) != "" {
		t.Errorf("envelope failure should carry no code, got %q", client.Code(err))
	}
}

func TestCall_bareFailureEnvelope(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Reply("m", "f", upxtest.Reply{Raw: `{"success":false}`})

	o, _ := c.Call(context.Background(), "m", "f", nil, nil)
	_, err := wait(t, o)

	var envErr *client.EnvelopeError
	if !errors.As(err, &envErr) {
		t.Fatalf("got %v, want *EnvelopeError", err)
	}
	if len(envErr.Envelope) != 1 || envErr.Envelope["success"] != false {
		t.Errorf("Envelope: got %v", envErr.Envelope)
	}
}

func TestCall_timeout(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Reply("m", "f", upxtest.Reply{Delay: 2 * time.Second, Body: map[string]any{"success": true}})

	o, _ := c.Call(context.Background(), "m", "f", nil, &client.TransportOptions{Timeout: 50 * time.Millisecond})
	_, err := wait(t, o)

	if !errors.Is(err, client.CodeTimeout) {
		t.Fatalf("got %v, want timeout", err)
	}
	if err.Error() != "timeout" {
		t.Errorf("Error: got %q, want %q", err.Error(), "timeout")
	}
}

func TestCall_notImplemented(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Reply("m", "f", upxtest.Status(http.StatusNotImplemented))

	o, _ := c.Call(context.Background(), "m", "f", nil, nil)
	_, err := wait(t, o)

	if !errors.Is(err, client.CodeNotImplemented) {
		t.Fatalf("got %v, want 501", err)
	}
	if err.Error() != "501" {
		t.Errorf("Error: got %q, want %q", err.Error(), "501")
	}
}

func TestCall_otherStatusRejectsWithTransportError(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Reply("m", "f", upxtest.Reply{Status: http.StatusInternalServerError, Raw: `{"success":false}`})

	o, _ := c.Call(context.Background(), "m", "f", nil, nil)
	_, err := wait(t, o)

	var te *client.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want *TransportError", err)
	}
	if te.Kind != client.KindStatus || te.Status != http.StatusInternalServerError {
		t.Errorf("got kind=%s status=%d", te.Kind, te.Status)
	}
}

func TestCall_malformedBody(t *testing.T) {
	cases := map[string]string{
		"html":  "<html>oops</html>",
		"array": "[1,2]",
		"null":  "null",
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			srv, c := newServerClient(t)
			srv.Reply("m", "f", upxtest.Reply{Raw: body})

			o, _ := c.Call(context.Background(), "m", "f", nil, nil)
			_, err := wait(t, o)

			var te *client.TransportError
			if !errors.As(err, &te) || te.Kind != client.KindParse {
				t.Errorf("got %v, want parse TransportError", err)
			}
		})
	}
}

func TestCall_networkFailureSettles(t *testing.T) {
	srv, c := newServerClient(t)
	srv.Close()

	o, err := c.Call(context.Background(), "m", "f", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = wait(t, o)

	var te *client.TransportError
	if !errors.As(err, &te) || te.Kind != client.KindNetwork {
		t.Errorf("got %v, want network TransportError", err)
	}
}

func TestCall_customTransportErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: func(err error) bool { return errors.Is(err, client.CodeTimeout) },
		},
		{
			name: "timeout kind",
			err:  &client.TransportError{Kind: client.KindTimeout},
			want: func(err error) bool { return errors.Is(err, client.CodeTimeout) },
		},
		{
			name: "status 501",
			err:  &client.TransportError{Kind: client.KindStatus, Status: 501},
			want: func(err error) bool { return errors.Is(err, client.CodeNotImplemented) },
		},
		{
			name: "plain error",
			err:  errors.New("wire cut"),
			want: func(err error) bool {
				var te *client.TransportError
				return errors.As(err, &te) && te.Kind == client.KindNetwork && strings.Contains(te.Error(), "wire cut")
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, client.TransportFunc(func(context.Context, *client.TransportRequest) (*client.TransportResponse, error) {
				return nil, tc.err
			}))
			o, _ := c.Call(context.Background(), "m", "f", nil, nil)
			if _, err := wait(t, o); !tc.want(err) {
				t.Errorf("unexpected rejection: %v", err)
			}
		})
	}
}

func TestCall_notCancelledByContext(t *testing.T) {
	c := newTestClient(t, client.TransportFunc(func(ctx context.Context, _ *client.TransportRequest) (*client.TransportResponse, error) {
		time.Sleep(10 * time.Millisecond)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &client.TransportResponse{Status: 200, Body: json.RawMessage(`{"success":true,"response":"done"}`)}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	o, err := c.Call(ctx, "m", "f", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	v, err := wait(t, o)
	if err != nil || string(v) != `"done"` {
		t.Errorf("got %s %v, want \"done\" nil", v, err)
	}
}

// ── Options ──────────────────────────────────────────────────────────────

func TestNew_invalidOptions(t *testing.T) {
	cases := map[string]client.Option{
		"nil transport":   client.WithTransport(nil),
		"nil credentials": client.WithCredentials(nil),
		"nil registerer":  client.WithMetrics(nil),
		"zero rate":       client.WithRateLimit(0, 1),
		"zero burst":      client.WithRateLimit(1, 0),
	}
	for name, opt := range cases {
		if _, err := client.New(opt); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestMustNew_panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	client.MustNew(client.WithTransport(nil))
}

func TestCall_rateLimitRejectsWithTimeout(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr, client.WithRateLimit(0.001, 1))
	opts := &client.TransportOptions{Timeout: 50 * time.Millisecond}

	first, _ := c.Call(context.Background(), "m", "f", nil, opts)
	if _, err := wait(t, first); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}

	second, _ := c.Call(context.Background(), "m", "f", nil, opts)
	if _, err := wait(t, second); !errors.Is(err, client.CodeTimeout) {
		t.Errorf("second call: got %v, want timeout", err)
	}
	if tr.count() != 1 {
		t.Errorf("transport saw %d requests, want 1", tr.count())
	}
}

func TestCall_metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, c := newServerClient(t, client.WithMetrics(reg))
	srv.Reply("mod", "ok", upxtest.Success(1))
	srv.Reply("mod", "bad", upxtest.Failure("no"))

	for _, fn := range []string{"ok", "bad"} {
		o, err := c.Call(context.Background(), "mod", fn, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		wait(t, o) //nolint:errcheck
	}

	expected := `
# HELP upx_calls_total Total backend calls by module, function, and result.
# TYPE upx_calls_total counter
upx_calls_total{function="bad",module="mod",result="rejected"} 1
upx_calls_total{function="ok",module="mod",result="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "upx_calls_total"); err != nil {
		t.Error(err)
	}
	if n, err := testutil.GatherAndCount(reg, "upx_call_duration_seconds"); err != nil || n != 2 {
		t.Errorf("duration series: got %d %v, want 2", n, err)
	}
}

func TestWithMetrics_sharedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr := &recordingTransport{}
	first := newTestClient(t, tr, client.WithMetrics(reg))
	second, err := client.New(client.WithServer("https://a.example"), client.WithTransport(tr), client.WithMetrics(reg))
	if err != nil {
		t.Fatalf("second client on the same registerer: %v", err)
	}
	second.SetAccount("A")
	second.SetUser("U")
	second.SetAPIKey("K")

	for _, c := range []*client.Client{first, second} {
		o, err := c.Call(context.Background(), "mod", "fn", nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		wait(t, o) //nolint:errcheck
	}

	expected := `
# HELP upx_calls_total Total backend calls by module, function, and result.
# TYPE upx_calls_total counter
upx_calls_total{function="fn",module="mod",result="success"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "upx_calls_total"); err != nil {
		t.Error(err)
	}
}

func TestWithMetrics_conflictingRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "upx_calls_total",
		Help: "Total backend calls by module, function, and result.",
	}))

	if _, err := client.New(client.WithMetrics(reg)); err == nil {
		t.Error("expected an error for a conflicting collector")
	}
}

func TestCall_logsAtDebugWithoutSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := &recordingTransport{}
	c := newTestClient(t, tr, client.WithLogger(zap.New(core)))
	c.SetPassword("hunter2")

	o, _ := c.Call(context.Background(), "mod", "fn", nil, nil)
	wait(t, o) //nolint:errcheck

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Level != zapcore.DebugLevel {
			t.Errorf("entry %q logged at %s", e.Message, e.Level)
		}
		fields := e.ContextMap()
		if fields["module"] != "mod" || fields["function"] != "fn" {
			t.Errorf("entry %q missing call fields: %v", e.Message, fields)
		}
		for _, v := range fields {
			if s, ok := v.(string); ok && strings.Contains(s, "hunter2") {
				t.Errorf("entry %q leaked the secret", e.Message)
			}
		}
	}
	if entries[1].ContextMap()["result"] != "success" {
		t.Errorf("settle entry result: %v", entries[1].ContextMap()["result"])
	}
}

func TestClient_settersDelegateToCredentials(t *testing.T) {
	c := client.MustNew()
	c.SetServer("https://h")
	c.SetAccount("A")
	c.SetUser("U")
	c.SetSubaccount("S")
	c.SetHash("H")
	c.SetXDebug("X")

	snap := c.Credentials().Snapshot()
	if snap.Server != "https://h" || snap.Account != "A" || snap.User != "U" || snap.Subaccount != "S" ||
		snap.Rights != client.RightsSubuser || snap.Mode != client.ModeHash || snap.Secret != "H" || snap.XDebug != "X" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	c.SetAnonymous()
	if c.Credentials().Mode() != client.ModeNone {
		t.Error("SetAnonymous did not reach the credentials")
	}
	c.SetPassword("P")
	if _, ok := c.Credentials().Password(); !ok {
		t.Error("SetPassword did not reach the credentials")
	}
}
