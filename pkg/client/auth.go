package client

// BuildAuth derives the auth payload sent with every call.
//
// The payload always carries account, mode, rights and user; subaccount is
// added for subuser rights, and the secret matching the identity mode is
// added under its own name (password, hash or apikey). Anonymous calls carry
// no secret.
func BuildAuth(s Snapshot) (*Node, error) {
	if s.Account == "" {
		return nil, ErrMissingAccount
	}
	if s.Mode == ModeUnset {
		return nil, ErrMissingIdentityMode
	}
	if s.Rights == RightsUnset {
		return nil, ErrMissingRights
	}

	auth := NewNode().
		SetString("account", s.Account).
		SetString("mode", s.Mode.String()).
		SetString("rights", s.Rights.String())
	if s.Rights == RightsSubuser {
		auth.SetString("subaccount", s.Subaccount)
	}
	auth.SetString("user", s.User)

	switch s.Mode {
	case ModePassword, ModeHash, ModeAPIKey:
		auth.SetString(s.Mode.String(), s.Secret)
	}
	return auth, nil
}

// Auth builds the auth payload from the current state of c.
func (c *Credentials) Auth() (*Node, error) {
	return BuildAuth(c.Snapshot())
}
