/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/costars/game"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	format         string
	input          string
	labelA         string
	labelB         string
	maxBodySize    int64
	metrics        bool
	noWinner       string
	port           int
	prefix         string
	profile        bool
	replayDelay    time.Duration
	sessionTimeout time.Duration
	strict         bool
	tlsCert        string
	tlsKey         string
	trace          bool
	verbose        bool
	version        bool

	inputFormat game.Format
}

func (c *Config) validate() error {
	f, err := game.ParseFormat(c.format)
	if err != nil {
		return err
	}
	c.inputFormat = f

	if c.labelA == "" || c.labelB == "" {
		return errors.New("--label-a and --label-b must not be empty")
	}
	if c.labelA == c.labelB {
		return fmt.Errorf("--label-a and --label-b must differ (both %q)", c.labelA)
	}

	return nil
}

func (c *Config) validateServe() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxBodySize < 1 {
		return fmt.Errorf("invalid max body size (must be positive): %d", c.maxBodySize)
	}
	if c.replayDelay < 0 {
		return fmt.Errorf("invalid replay delay (must not be negative): %s", c.replayDelay)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) labels() game.Labels {
	return game.Labels{
		A:    c.labelA,
		B:    c.labelB,
		None: c.noWinner,
	}
}

// bindEnv lets every flag in fs be set from COSTARS_<FLAG_NAME> when it was
// not given on the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newServeCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Play games submitted over HTTP and replay them in the browser.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if err := cfg.validateServe(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: COSTARS_BIND)")
	fs.Int64Var(&cfg.maxBodySize, "max-body-size", 1<<20, "largest accepted game upload, in bytes (env: COSTARS_MAX_BODY_SIZE)")
	fs.BoolVar(&cfg.metrics, "metrics", false, "expose prometheus metrics at /metrics (env: COSTARS_METRICS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: COSTARS_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: COSTARS_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: COSTARS_PROFILE)")
	fs.DurationVar(&cfg.replayDelay, "replay-delay", 750*time.Millisecond, "pause between moves when replaying a game (env: COSTARS_REPLAY_DELAY)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle games are forgotten (env: COSTARS_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: COSTARS_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: COSTARS_TLS_KEY)")

	bindEnv(v, fs)

	return cmd
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("COSTARS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "costars [file]",
		Short:         "Decide who wins a game of costars: name an actor who shared a movie with the last name played.",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runPlay(cmd, cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()

	pfs.StringVarP(&cfg.format, "format", "f", "auto", "input format: text, yaml or auto (env: COSTARS_FORMAT)")
	pfs.StringVar(&cfg.labelA, "label-a", game.DefaultLabels.A, "name printed when the actress side wins (env: COSTARS_LABEL_A)")
	pfs.StringVar(&cfg.labelB, "label-b", game.DefaultLabels.B, "name printed when the actor side wins (env: COSTARS_LABEL_B)")
	pfs.StringVar(&cfg.noWinner, "no-winner", game.DefaultLabels.None, "text printed when no winner can be determined (env: COSTARS_NO_WINNER)")
	pfs.BoolVar(&cfg.strict, "strict", false, "reject duplicate names and names listed on both sides (env: COSTARS_STRICT)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: COSTARS_VERBOSE)")

	fs := cmd.Flags()

	fs.StringVarP(&cfg.input, "input", "i", "", "file to read the game from, instead of the argument or stdin (env: COSTARS_INPUT)")
	fs.BoolVarP(&cfg.trace, "trace", "t", false, "print every move before the winner (env: COSTARS_TRACE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: COSTARS_VERSION)")

	bindEnv(v, pfs)
	bindEnv(v, fs)

	cmd.AddCommand(newServeCmd(cfg, v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("costars v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
