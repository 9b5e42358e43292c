package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oshokin/formula-updater/internal/api/github"
	"github.com/oshokin/formula-updater/internal/logger"
	"github.com/oshokin/formula-updater/internal/service/updater"
	"github.com/oshokin/formula-updater/internal/version"
)

const envPrefix = "FORMULA_UPDATER"

// Flag and setting keys.
const (
	keyRoot     = "root"
	keyAPIURL   = "api-url"
	keyTimeout  = "timeout"
	keyLogLevel = "log-level"
	keyDryRun   = "dry-run"
	keyToken    = "token"
)

var errUnknownLogLevel = errors.New("unknown log level")

// NewRootCommand builds the formula-updater command with its own settings store.
func NewRootCommand() *cobra.Command {
	settings := viper.New()

	rootCmd := &cobra.Command{
		Use:   "formula-updater <name>",
		Short: "Update a Homebrew formula from the latest GitHub release",
		Long: "Reads configurations/<name>.yaml, fetches the latest GitHub release of the configured " +
			"repository, resolves the configured assets and their SHA-256 digests, and renders the " +
			"formula template into the configured output file.",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(settings.GetString(keyLogLevel))
			if !ok {
				return fmt.Errorf("%w: %s", errUnknownLogLevel, settings.GetString(keyLogLevel))
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid from here on; runtime failures need no usage text.
			cmd.SilenceUsage = true

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &updater.Options{
				Name:       args[0],
				RootDir:    settings.GetString(keyRoot),
				APIBaseURL: settings.GetString(keyAPIURL),
				Token:      settings.GetString(keyToken),
				Timeout:    settings.GetDuration(keyTimeout),
				DryRun:     settings.GetBool(keyDryRun),
				Stdout:     cmd.OutOrStdout(),
			}

			return updater.Run(ctx, options)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP(keyRoot, "r", ".", "repository root holding configurations/, templates and formulas")
	flags.String(keyAPIURL, github.DefaultBaseURL, "GitHub API base URL")
	flags.Duration(keyTimeout, github.DefaultTimeout, "release API request timeout")
	flags.String(keyLogLevel, "info", "log level: debug, info, warn or error")
	flags.Bool(keyDryRun, false, "print the rendered formula instead of writing it")

	_ = settings.BindPFlags(flags)

	settings.SetEnvPrefix(envPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindEnv(keyToken, envPrefix+"_TOKEN", "GITHUB_TOKEN", "GH_TOKEN")

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// Execute runs the formula-updater CLI and exits with non-zero status on error.
func Execute() {
	rootCmd := NewRootCommand()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
