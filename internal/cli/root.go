// Package cli provides the Cobra command tree and output wiring for edl.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbckr/edl/internal/config"
	"github.com/tbckr/edl/internal/version"
)

// newRootCmd builds the top-level Cobra command for edl.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// Cobra only executes the innermost PersistentPreRunE in the command
	// chain, so subcommands must not define their own without calling
	// buildDeps (completion is the one exception).
	var d deps

	cmd := &cobra.Command{
		Use:   "edl",
		Short: "Build external dynamic lists from vendor-published IP addresses",
		Long: `edl resolves the IPv4 addresses and ranges published by SaaS and cloud
vendors (Microsoft 365, Okta, Zscaler, Polycom, AWS, Google Cloud) into plain
lists, one address per line, for firewalls that consume external dynamic lists.

Vendor feeds are cached on disk so repeated requests do not hit the vendors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	config.RegisterFlagCompletions(cmd)

	cmd.Version = version.Version
	cmd.SetVersionTemplate("edl version {{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: "lists", Title: "Address Lists:"},
		&cobra.Group{ID: "utility", Title: "Utility Commands:"},
	)

	cmd.AddCommand(
		newServeCmd(&d),
		newLookupCmd(&d),
		newVendorsCmd(&d),
		newWarmCmd(&d),
		newConfigCmd(&d),
		newCompletionCmd(),
		newVersionCmd(&d),
	)

	return cmd
}

// Execute builds the root command and runs it with args (without the program
// name). ctx is cancelled on SIGINT/SIGTERM by the caller.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}
