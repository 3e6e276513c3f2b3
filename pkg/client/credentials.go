package client

import (
	"fmt"
	"sync"
)

// IdentityMode selects which secret authenticates a call.
type IdentityMode int

const (
	ModeUnset IdentityMode = iota
	ModeNone
	ModePassword
	ModeHash
	ModeAPIKey
)

func (m IdentityMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModePassword:
		return "password"
	case ModeHash:
		return "hash"
	case ModeAPIKey:
		return "apikey"
	}
	return ""
}

// RightsLevel is the authorization tier a call is made under.
type RightsLevel int

const (
	RightsUnset RightsLevel = iota
	RightsAnonymous
	RightsUser
	RightsSubuser
)

func (r RightsLevel) String() string {
	switch r {
	case RightsAnonymous:
		return "anonymous"
	case RightsUser:
		return "user"
	case RightsSubuser:
		return "subuser"
	}
	return ""
}

// AnonymousUser is the user name sent for anonymous calls.
const AnonymousUser = "anonymous"

// Credentials holds the authentication configuration of one client.
//
// Every setter replaces one facet and clears whatever would conflict with it,
// so only one secret is ever held. Setters never fail; missing fields are
// reported by BuildAuth when a call is made.
//
// SetUser and SetSubaccount are order sensitive: SetUser after SetSubaccount
// drops the subaccount and reverts to user rights, while SetSubaccount after
// SetUser keeps the user and switches to subuser rights.
type Credentials struct {
	mu         sync.RWMutex
	server     string
	xdebug     string
	account    string
	user       string
	subaccount string
	rights     RightsLevel
	mode       IdentityMode
	secret     string
}

// NewCredentials returns credentials with user rights and nothing else set.
func NewCredentials() *Credentials {
	return &Credentials{rights: RightsUser}
}

// SetServer sets the backend base URL.
func (c *Credentials) SetServer(server string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.server = server
}

// SetXDebug sets the debug session started on every call. Empty disables it.
func (c *Credentials) SetXDebug(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.xdebug = session
}

// SetAccount sets the main account.
func (c *Credentials) SetAccount(account string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = account
}

// SetUser sets the user name, clears the subaccount and switches to user rights.
func (c *Credentials) SetUser(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = user
	c.subaccount = ""
	c.rights = RightsUser
}

// SetSubaccount sets the subaccount and switches to subuser rights.
// The user name is left as is.
func (c *Credentials) SetSubaccount(subaccount string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subaccount = subaccount
	c.rights = RightsSubuser
}

// SetAnonymous switches to anonymous access and drops every secret.
func (c *Credentials) SetAnonymous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = AnonymousUser
	c.rights = RightsAnonymous
	c.subaccount = ""
	c.secret = ""
	c.mode = ModeNone
}

// SetPassword authenticates with a password.
func (c *Credentials) SetPassword(password string) {
	c.setSecret(ModePassword, password)
}

// SetHash authenticates with a password hash.
func (c *Credentials) SetHash(hash string) {
	c.setSecret(ModeHash, hash)
}

// SetAPIKey authenticates with an API key.
func (c *Credentials) SetAPIKey(apikey string) {
	c.setSecret(ModeAPIKey, apikey)
}

func (c *Credentials) setSecret(mode IdentityMode, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.secret = secret
}

// Server returns the backend base URL.
func (c *Credentials) Server() string { return c.Snapshot().Server }

// XDebug returns the debug session name.
func (c *Credentials) XDebug() string { return c.Snapshot().XDebug }

// Account returns the main account.
func (c *Credentials) Account() string { return c.Snapshot().Account }

// User returns the user name.
func (c *Credentials) User() string { return c.Snapshot().User }

// Subaccount returns the subaccount.
func (c *Credentials) Subaccount() string { return c.Snapshot().Subaccount }

// Mode returns the identity mode.
func (c *Credentials) Mode() IdentityMode { return c.Snapshot().Mode }

// Rights returns the rights level.
func (c *Credentials) Rights() RightsLevel { return c.Snapshot().Rights }

// Password returns the password and whether it is the active secret.
func (c *Credentials) Password() (string, bool) { return c.Snapshot().secretFor(ModePassword) }

// Hash returns the hash and whether it is the active secret.
func (c *Credentials) Hash() (string, bool) { return c.Snapshot().secretFor(ModeHash) }

// APIKey returns the API key and whether it is the active secret.
func (c *Credentials) APIKey() (string, bool) { return c.Snapshot().secretFor(ModeAPIKey) }

// Snapshot returns a consistent copy of the current state.
func (c *Credentials) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Server:     c.server,
		XDebug:     c.xdebug,
		Account:    c.account,
		User:       c.user,
		Subaccount: c.subaccount,
		Rights:     c.rights,
		Mode:       c.mode,
		Secret:     c.secret,
	}
}

// String describes the credentials without revealing the secret.
func (c *Credentials) String() string {
	return c.Snapshot().String()
}

// Snapshot is an immutable copy of Credentials taken at one point in time.
type Snapshot struct {
	Server     string
	XDebug     string
	Account    string
	User       string
	Subaccount string
	Rights     RightsLevel
	Mode       IdentityMode
	Secret     string // belongs to Mode; empty for ModeNone and ModeUnset
}

func (s Snapshot) secretFor(mode IdentityMode) (string, bool) {
	if s.Mode != mode {
		return "", false
	}
	return s.Secret, true
}

// String describes the snapshot without revealing the secret.
func (s Snapshot) String() string {
	return fmt.Sprintf("server=%q account=%q user=%q subaccount=%q rights=%s mode=%s",
		s.Server, s.Account, s.User, s.Subaccount, s.Rights, s.Mode)
}
