// Package upxtest provides a fake UPX backend for tests.
//
// The fake speaks the backend's wire protocol: it accepts form-encoded POSTs
// on "/?action=request&api=json&module=...&instance=0&function=..." and
// answers with a JSON envelope produced by a per-function handler.
package upxtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/upxsys/upx-go/pkg/uri"
)

// Call is a request received by the fake backend.
type Call struct {
	Target    *uri.Target
	Form      url.Values
	RequestID string
}

// Param returns the decoded value of params[key...].
func (c *Call) Param(path ...string) string {
	return c.Form.Get(bracketKey("params", path))
}

// Auth returns the decoded value of auth[key].
func (c *Call) Auth(key string) string {
	return c.Form.Get(bracketKey("auth", []string{key}))
}

func bracketKey(root string, path []string) string {
	key := root
	for _, p := range path {
		key += "[" + p + "]"
	}
	return key
}

// Reply is what the fake backend answers with.
type Reply struct {
	Status int           // defaults to 200
	Body   any           // JSON-encoded unless Raw is set
	Raw    string        // sent verbatim when non-empty
	Delay  time.Duration // held before answering; aborted if the client goes away
}

// Success wraps v in a successful envelope.
func Success(v any) Reply {
	return Reply{Body: gin.H{"success": true, "response": v}}
}

// Failure returns an unsuccessful envelope carrying msg.
func Failure(msg string) Reply {
	return Reply{Body: gin.H{"success": false, "error": msg}}
}

// Status answers with an empty body and the given HTTP status.
func Status(code int) Reply {
	return Reply{Status: code, Raw: " "}
}

// HandlerFunc answers one backend call.
type HandlerFunc func(call *Call) Reply

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []*Call
}

// NewServer starts a fake backend that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{handlers: make(map[string]HandlerFunc)}
	r := gin.New()
	r.POST("/", s.handle)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for function in module.
func (s *Server) Handle(module, function string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[module+"."+function] = h
}

// Reply registers a handler that always answers with r.
func (s *Server) Reply(module, function string, r Reply) {
	s.Handle(module, function, func(*Call) Reply { return r })
}

// Calls returns the calls received so far, in arrival order.
func (s *Server) Calls() []*Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Call(nil), s.calls...)
}

func (s *Server) handle(c *gin.Context) {
	target, err := uri.Parse("http://" + c.Request.Host + c.Request.URL.RequestURI())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed body: " + err.Error()})
		return
	}

	call := &Call{Target: target, Form: form, RequestID: c.GetHeader("X-Request-ID")}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	h, ok := s.handlers[target.Module+"."+target.Function]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "unknown function " + target.Module + "." + target.Function})
		return
	}

	reply := h(call)
	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if reply.Raw != "" {
		c.Data(status, "application/json", []byte(reply.Raw))
		return
	}
	b, err := json.Marshal(reply.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.Data(status, "application/json", b)
}
