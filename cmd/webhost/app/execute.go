package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "webhost",
		Short:   "Run the webhost sample API",
		Version: a.version,
		Long: `webhost serves a sample todo API assembled with the webhost builder:
CORS, compression, injected logger, mediator and repository, OpenAPI
documentation with Swagger UI, metrics, rate limiting and tracing.

Settings come from WEBHOST_* environment variables, .env and .env.local
files and an optional webhost.yaml. Log verbosity is read from WEBHOST_LOG.`,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.options.ConfigFile, "config", "", "config file (default is ./webhost.yaml)")
	root.SetVersionTemplate(`{{printf "webhost %s\n" .Version}}`)

	root.AddCommand(
		a.newServeCommand(),
		a.newOpenAPICommand(),
		a.newVersionCommand(),
	)
	return root
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version needs no settings.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "webhost %s (commit %s, built %s)\n", a.version, a.commit, a.date)
			return err
		},
	}
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
