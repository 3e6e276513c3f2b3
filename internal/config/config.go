// Package config loads UPX connection settings from a config file, the
// environment and command-line flags, and applies them to a client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/upxsys/upx-go/pkg/client"
)

// Keys recognised in the config file. Each is also read from UPX_<KEY>.
const (
	KeyServer     = "server"
	KeyXDebug     = "xdebug"
	KeyAccount    = "account"
	KeyUser       = "user"
	KeySubaccount = "subaccount"
	KeyPassword   = "password"
	KeyHash       = "hash"
	KeyAPIKey     = "apikey"
	KeyAnonymous  = "anonymous"
	KeyTimeout    = "timeout"
	KeyRateLimit  = "rate_limit_rps"
	KeyRateBurst  = "rate_burst"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "UPX"

// ErrConflictingSecrets is returned by Apply when more than one of password,
// hash, apikey and anonymous is configured.
var ErrConflictingSecrets = errors.New("only one of password, hash, apikey or anonymous may be set")

// Config holds the settings needed to reach and authenticate against a backend.
type Config struct {
	Server     string
	XDebug     string
	Account    string
	User       string
	Subaccount string
	Password   string
	Hash       string
	APIKey     string
	Anonymous  bool
	Timeout    time.Duration
	RateLimit  float64
	RateBurst  int
}

// New returns a viper instance with the defaults and environment binding
// Load expects. Callers may bind flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyServer, "")
	v.SetDefault(KeyXDebug, "")
	v.SetDefault(KeyAccount, "")
	v.SetDefault(KeyUser, "")
	v.SetDefault(KeySubaccount, "")
	v.SetDefault(KeyPassword, "")
	v.SetDefault(KeyHash, "")
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyAnonymous, false)
	v.SetDefault(KeyTimeout, client.DefaultTimeout.String())
	v.SetDefault(KeyRateLimit, 0)
	v.SetDefault(KeyRateBurst, 1)
	return v
}

// DefaultPath returns ~/.upx/config.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".upx", "config.yaml")
}

// Load reads cfgFile, or ~/.upx/config.yaml when cfgFile is empty, into v and
// returns the merged settings. A missing default file is not an error; a
// missing explicit file is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Server:     v.GetString(KeyServer),
		XDebug:     v.GetString(KeyXDebug),
		Account:    v.GetString(KeyAccount),
		User:       v.GetString(KeyUser),
		Subaccount: v.GetString(KeySubaccount),
		Password:   v.GetString(KeyPassword),
		Hash:       v.GetString(KeyHash),
		APIKey:     v.GetString(KeyAPIKey),
		Anonymous:  v.GetBool(KeyAnonymous),
		Timeout:    v.GetDuration(KeyTimeout),
		RateLimit:  v.GetFloat64(KeyRateLimit),
		RateBurst:  v.GetInt(KeyRateBurst),
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	return cfg, nil
}

// Options returns the client options implied by cfg.
func (cfg *Config) Options() []client.Option {
	opts := []client.Option{
		client.WithDefaultOptions(client.TransportOptions{Timeout: cfg.Timeout}),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, client.WithRateLimit(cfg.RateLimit, burst))
	}
	return opts
}

// Apply sets c's credentials from cfg. Setters run in a fixed order (server,
// xdebug, account, user, subaccount, then the secret or anonymous) so that a
// configured subaccount yields subuser rights. Empty values are skipped.
func Apply(cfg *Config, c *client.Client) error {
	secrets := 0
	for _, set := range []bool{cfg.Password != "", cfg.Hash != "", cfg.APIKey != "", cfg.Anonymous} {
		if set {
			secrets++
		}
	}
	if secrets > 1 {
		return ErrConflictingSecrets
	}

	if cfg.Server != "" {
		c.SetServer(cfg.Server)
	}
	if cfg.XDebug != "" {
		c.SetXDebug(cfg.XDebug)
	}
	if cfg.Account != "" {
		c.SetAccount(cfg.Account)
	}
	if cfg.User != "" {
		c.SetUser(cfg.User)
	}
	if cfg.Subaccount != "" {
		c.SetSubaccount(cfg.Subaccount)
	}

	switch {
	case cfg.Anonymous:
		c.SetAnonymous()
	case cfg.Password != "":
		c.SetPassword(cfg.Password)
	case cfg.Hash != "":
		c.SetHash(cfg.Hash)
	case cfg.APIKey != "":
		c.SetAPIKey(cfg.APIKey)
	}
	return nil
}
