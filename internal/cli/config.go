package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/tbckr/edl/internal/config"
	"github.com/tbckr/edl/internal/output"
)

func newConfigCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Read and write edl config file values",
		GroupID: "utility",
	}
	cmd.AddCommand(
		newConfigPathCmd(d),
		newConfigShowCmd(d),
		newConfigGetCmd(d),
		newConfigSetCmd(d),
		newConfigEditCmd(d),
	)
	return cmd
}

func newConfigPathCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.cfg.ConfigFile)
			return err
		},
	}
}

// settings is the effective configuration as sorted key/value pairs. It
// reflects defaults, env vars and flags, not just the file contents.
type settings [][2]string

func effectiveSettings(cfg *config.Config) settings {
	keys := config.ValidKeys()
	s := make(settings, 0, len(keys))
	for _, k := range keys {
		s = append(s, [2]string{k, cfg.Value(k)})
	}
	return s
}

// MarshalJSON renders the settings as a flat key/value object.
func (s settings) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(s))
	for _, kv := range s {
		m[kv[0]] = kv[1]
	}
	return json.Marshal(m)
}

// WritePlain writes one key=value line per setting.
func (s settings) WritePlain(w io.Writer) error {
	for _, kv := range s {
		if _, err := fmt.Fprintf(w, "%s=%s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable writes the settings as a key/value table.
func (s settings) WriteTable(w io.Writer) error {
	tbl := output.NewWrappingTable(w, 20, 6)
	tbl.Header([]string{"Key", "Value"})
	rows := make([][]string, len(s))
	for i, kv := range s {
		rows[i] = []string{kv[0], kv[1]}
	}
	if err := tbl.Bulk(rows); err != nil {
		return err
	}
	return tbl.Render()
}

func newConfigShowCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"cat"},
		Short:   "Display all effective config settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd.OutOrStdout(), d, effectiveSettings(d.cfg))
		},
	}
}

func newConfigGetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a config key",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateKey(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.cfg.Value(args[0]))
			return err
		},
	}
}

func newConfigSetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value and persist it to the config file",
		Long: `Set a config value and persist it to the config file. Only the given key
is written; every other key in the file is left untouched. Flag spellings
such as cache-ttl are accepted for cache.ttl.`,
		Example: `  edl config set cache.ttl 6h
  edl config set zscloud zscalertwo.net
  edl config set rate-rps 2`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
			case 1:
				return config.KeyCompletions(args[0]), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			if err := config.ValidateKey(args[0]); err != nil {
				return err
			}
			value, err := config.ParseValue(args[0], args[1])
			if err != nil {
				return err
			}
			// d.cfg holds defaults and overrides; only the one key goes to the file.
			return config.SetInFile(d.cfg.ConfigFile, config.NormalizeKey(args[0]), value)
		},
	}
}

func newConfigEditCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = os.Getenv("VISUAL")
			}
			if editor == "" {
				editor = "vi"
			}
			c := exec.CommandContext(cmd.Context(), editor, d.cfg.ConfigFile) //nolint:gosec // editor comes from the user's $EDITOR/$VISUAL
			c.Stdin = cmd.InOrStdin()
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			return c.Run()
		},
	}
}
