package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/jobbook/internal/config"
	"github.com/mmynk/jobbook/pkg/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobbook",
		Short:         "Job schedule and client book for a small business",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("data-dir", "", "directory holding jobs.json, settings.json and clients.db (env "+config.EnvDataDir+")")
	flags.String("log-level", "", "debug, info, warn or error (env "+config.EnvLogLevel+")")
	flags.String("log-format", "", "text or json (env "+config.EnvLogFormat+")")

	serve := newServeCmd()
	root.AddCommand(serve, newSetCredentialsCmd(), newVersionCmd())

	// Running the bare binary starts the server.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jobbook version %s\n", version)
		},
	}
}

// loadConfig resolves defaults, environment and command-line flags, in
// increasing priority, and installs the logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	stringFlag := func(name string, dst *string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	stringFlag("data-dir", &cfg.Storage.DataDir)
	stringFlag("log-level", &cfg.Log.Level)
	stringFlag("log-format", &cfg.Log.Format)
	stringFlag("addr", &cfg.Server.Addr)
	stringFlag("metrics-addr", &cfg.Server.MetricsAddr)
	stringFlag("db-path", &cfg.Storage.DBPath)
	if flags.Lookup("session-ttl") != nil && flags.Changed("session-ttl") {
		cfg.Session.TTL, _ = flags.GetDuration("session-ttl")
	}
	if flags.Lookup("secure-cookie") != nil && flags.Changed("secure-cookie") {
		cfg.Session.SecureCookie, _ = flags.GetBool("secure-cookie")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	logging.Configure(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
