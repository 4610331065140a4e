package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vantahire/pkg/client"
)

type options struct {
	server   string
	username string
	password string
	timeout  time.Duration
	verbose  bool
}

// app is the per-invocation client state. Cookies live in the API jar, so a
// command that needs a session signs in first.
type app struct {
	opts    *options
	api     *client.API
	cache   *client.MemoryCache
	session *client.Session
	jobs    *client.JobsClient
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()

	opts := &options{}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "vantahire",
		Short:         "Command line client for the VantaHire job board",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				log.Logger = log.Logger.Level(zerolog.DebugLevel)
			}
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", getEnv("VANTAHIRE_SERVER", "http://localhost:8080"), "API base URL")
	flags.StringVar(&opts.username, "username", getEnv("VANTAHIRE_USERNAME", ""), "account username")
	flags.StringVar(&opts.password, "password", getEnv("VANTAHIRE_PASSWORD", ""), "account password")
	flags.DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newJobsCmd(a),
		newApplyCmd(a),
		newLoginCmd(a),
		newWhoamiCmd(a),
		newGuardCmd(a),
	)
	return root
}

func (a *app) init() error {
	api, err := client.NewAPI(a.opts.server, client.WithTimeout(a.opts.timeout))
	if err != nil {
		return err
	}
	a.api = api
	a.cache = client.NewMemoryCache()
	a.session = client.NewSession(api, a.cache)
	a.jobs = client.NewJobsClient(api, a.cache)
	return nil
}

// signIn logs in with the configured credentials, or resolves the session
// anonymously when none are set.
func (a *app) signIn(ctx context.Context) error {
	if a.opts.username == "" {
		return a.session.Init(ctx)
	}
	p, err := a.session.Login(ctx, a.opts.username, a.opts.password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	log.Debug().Int64("user_id", p.ID).Str("role", string(p.Role)).Msg("signed in")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
