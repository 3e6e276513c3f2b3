package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/upxsys/upx-go/internal/config"
	"github.com/upxsys/upx-go/pkg/client"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden via -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	verbose bool

	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "upx",
	Short: "Call functions on a UPX backend",
	Long: `upx is the command-line interface for UPX backends.

Connection settings are read from ~/.upx/config.yaml (or --config), then from
UPX_* environment variables, then from flags:

  server: https://api.example.com
  account: acme
  user: alice
  apikey: 0123456789abcdef`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		v = config.New()
		for _, key := range []string{
			config.KeyServer, config.KeyXDebug, config.KeyAccount, config.KeyUser, config.KeySubaccount,
			config.KeyPassword, config.KeyHash, config.KeyAPIKey, config.KeyAnonymous, config.KeyTimeout,
		} {
			if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(key)); err != nil {
				return fmt.Errorf("bind flag %q: %w", key, err)
			}
		}

		var err error
		if cfg, err = config.Load(v, cfgFile); err != nil {
			return err
		}
		logger, err = newLogger(verbose)
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.upx/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every call at debug level")
	flags.String(config.KeyServer, "", "Backend base URL")
	flags.String(config.KeyXDebug, "", "Start the named debug session on every call")
	flags.String(config.KeyAccount, "", "Main account")
	flags.String(config.KeyUser, "", "User name")
	flags.String(config.KeySubaccount, "", "Subaccount; authenticates as a subuser")
	flags.String(config.KeyPassword, "", "Password")
	flags.String(config.KeyHash, "", "Password hash")
	flags.String(config.KeyAPIKey, "", "API key")
	flags.Bool(config.KeyAnonymous, false, "Call anonymously")
	flags.Duration(config.KeyTimeout, client.DefaultTimeout, "Per-call timeout")

	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the production logger, lowered to debug level when
// verbose is set so the client's call logs are shown.
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

// newClient builds a client from the loaded configuration.
func newClient() (*client.Client, error) {
	opts := append(cfg.Options(), client.WithLogger(logger))
	c, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := config.Apply(cfg, c); err != nil {
		return nil, err
	}
	return c, nil
}

// waitTimeout bounds how long a command waits for outcomes: the call
// timeout plus slack for the rate limiter and scheduling.
func waitTimeout() time.Duration {
	if cfg == nil || cfg.Timeout <= 0 {
		return client.DefaultTimeout + 5*time.Second
	}
	return cfg.Timeout + 5*time.Second
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the upx CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("upx %s\n", version)
	},
}
