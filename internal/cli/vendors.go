package cli

import (
	"github.com/spf13/cobra"

	"github.com/tbckr/edl/internal/config"
	"github.com/tbckr/edl/internal/endpoints"
)

func newVendorsCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "vendors",
		Short:   "List supported vendors and their services",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd.OutOrStdout(), d, newRegistry(d.cfg, endpoints.Default(), nil, nil, d.logger).Vendors())
		},
	}
}

// completeVendorArgs returns vendor names for the first argument and the
// known services of that vendor for the second.
func completeVendorArgs(args []string) []string {
	reg := newRegistry(&config.Config{}, endpoints.Default(), nil, nil, nil)
	switch len(args) {
	case 0:
		var names []string
		for _, v := range reg.Vendors() {
			names = append(names, v.Name)
		}
		return names
	case 1:
		for _, v := range reg.Vendors() {
			if v.Name == args[0] {
				return v.Services
			}
		}
	}
	return nil
}
