package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "completion <bash|zsh|fish|powershell>",
		Short:   "Generate shell completion scripts",
		GroupID: "utility",
		Long: `Generate the completion script for the given shell.

  bash:        source <(edl completion bash)
  zsh:         edl completion zsh > "${fpath[1]}/_edl"
  fish:        edl completion fish > ~/.config/fish/completions/edl.fish
  powershell:  edl completion powershell | Out-String | Invoke-Expression

Start a new shell for the setup to take effect.`,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		DisableFlagsInUseLine: true,
		// buildDeps creates the config dir and file, which must not happen
		// during tab-completion. This is the only subcommand that overrides
		// PersistentPreRunE without calling buildDeps.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
