package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	serveOpts := &serveOptions{}
	serve := newServeCommand(opts, serveOpts)

	root := &cobra.Command{
		Use:   "committeehub",
		Short: "committeehub - real-time committee directory",
		Long: `committeehub serves the committee directory over a websocket event channel.

Clients send named events (get_committees, get_committee, create_committee,
edit_committee, login) and receive replies on the same connection. Successful
mutations are broadcast to every connected client as a refreshed list.

Without a subcommand it runs serve, and accepts serve's --port and --migrate flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Run the serve command by default if no subcommand is specified
		RunE: serve.RunE,
	}
	bindServeFlags(root, serveOpts)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL or info)")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newUserCommand(opts))
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
