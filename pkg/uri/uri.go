// Package uri builds and parses the request URLs understood by a UPX backend.
//
// URL format:
//
//	{server}/?action=request&api=json&module={module}&instance=0&function={function}[&XDEBUG_SESSION_START={session}]
//
// Examples:
//
//	https://api.example.com/?action=request&api=json&module=Relation&instance=0&function=getInfo
//	https://api.example.com/?action=request&api=json&module=Relation&instance=0&function=getInfo&XDEBUG_SESSION_START=PHPSTORM
//
// The query parameters are emitted in this fixed order; some backends and
// proxies in front of them match on the literal URL.
package uri

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	actionRequest = "request"
	apiJSON       = "json"
	instance      = "0"

	// XDebugParam is the query parameter that starts a remote debug session.
	XDebugParam = "XDEBUG_SESSION_START"
)

// Target represents a single remote procedure addressed on a backend.
type Target struct {
	Server   string // base URL without trailing slash, e.g. "https://api.example.com"
	Module   string // e.g. "Relation"
	Function string // e.g. "getInfo"
	XDebug   string // debug session name; empty when no session is requested
}

// Build returns the request URL for function in module on server.
// A trailing slash on server is dropped so the path is always "/".
func Build(server, module, function, xdebug string) string {
	return Target{Server: server, Module: module, Function: function, XDebug: xdebug}.String()
}

// String returns the canonical request URL for t.
func (t Target) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(t.Server, "/"))
	b.WriteString("/?action=")
	b.WriteString(actionRequest)
	b.WriteString("&api=")
	b.WriteString(apiJSON)
	b.WriteString("&module=")
	b.WriteString(url.QueryEscape(t.Module))
	b.WriteString("&instance=")
	b.WriteString(instance)
	b.WriteString("&function=")
	b.WriteString(url.QueryEscape(t.Function))
	if t.XDebug != "" {
		b.WriteString("&" + XDebugParam + "=")
		b.WriteString(url.QueryEscape(t.XDebug))
	}
	return b.String()
}

// Parse parses a request URL produced by Build.
func Parse(raw string) (*Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("request URL %q must be absolute", raw)
	}
	if u.Path != "" && u.Path != "/" {
		return nil, fmt.Errorf("request URL %q must target the root path, got %q", raw, u.Path)
	}

	q := u.Query()
	if err := expect(q, "action", actionRequest); err != nil {
		return nil, err
	}
	if err := expect(q, "api", apiJSON); err != nil {
		return nil, err
	}
	if err := expect(q, "instance", instance); err != nil {
		return nil, err
	}

	t := &Target{
		Server:   u.Scheme + "://" + u.Host,
		Module:   q.Get("module"),
		Function: q.Get("function"),
		XDebug:   q.Get(XDebugParam),
	}
	if err := validateSegment("module", t.Module); err != nil {
		return nil, err
	}
	if err := validateSegment("function", t.Function); err != nil {
		return nil, err
	}
	return t, nil
}

// MustParse parses a request URL and panics on error. Useful in tests.
func MustParse(raw string) *Target {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func expect(q url.Values, key, want string) error {
	if got := q.Get(key); got != want {
		return fmt.Errorf("query parameter %s: got %q, want %q", key, got, want)
	}
	return nil
}

// validateSegment checks that a module or function name is usable.
func validateSegment(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	if strings.ContainsAny(value, " \\?#&") {
		return fmt.Errorf("%s %q contains invalid characters", name, value)
	}
	return nil
}
