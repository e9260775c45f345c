package cli

import (
	"github.com/spf13/cobra"

	"github.com/tbckr/edl/internal/services"
)

func newLookupCmd(d *deps) *cobra.Command {
	var region, scope, zscloud string

	cmd := &cobra.Command{
		Use:     "lookup <vendor> [service]",
		Short:   "Print the address list for a vendor",
		GroupID: "lists",
		Long: `Print the address list for a vendor and optional service.

Services for microsoft, okta, aws and gcp are case-insensitive regular
expressions matched against the vendor's service names, so "share" selects
SharePoint and "exchange|skype" selects both. A pattern that does not compile
is rejected as a bad request (HTTP 400 from edl serve) rather than matching
nothing. zscaler requires one of pac, cenr or hub.`,
		Example: `  edl lookup polycom teams
  edl lookup microsoft share
  edl lookup aws ec2 --region '^eu-'
  edl lookup gcp --scope europe-west1 -o table
  edl lookup zscaler hub --zscloud zscalertwo.net`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completeVendorArgs(args), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var service string
			if len(args) > 1 {
				service = args[1]
			}
			q := services.NewQuery(args[0], service, map[string]string{
				services.ParamRegion:  region,
				services.ParamScope:   scope,
				services.ParamZscloud: zscloud,
			})

			disp, err := d.newDispatcher()
			if err != nil {
				return err
			}
			res, err := disp.Resolve(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), d, res)
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "aws: regular expression matched against the region")
	cmd.Flags().StringVar(&scope, "scope", "", "gcp: regular expression matched against the scope")
	cmd.Flags().StringVar(&zscloud, "zscloud", "", "zscaler: cloud to query (default from config, zscloud.net)")
	return cmd
}
