package cli

import (
	"github.com/spf13/cobra"

	"github.com/tbckr/edl/internal/server"
)

func newServeCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve address lists over HTTP",
		GroupID: "lists",
		Long: `Serve address lists over HTTP for firewalls that poll external dynamic lists.

  GET /?vendor=<vendor>&service=<service>[&region=..][&scope=..][&zscloud=..]
  GET /edl?...      same as /
  GET /health       returns "ok"

Responses are text/plain, one address per line. Unknown vendors or services
return 400; vendor feed or DNS failures and empty lists return 503.`,
		Example: `  edl serve --listen :8080
  curl 'http://localhost:8080/?vendor=zscaler&service=pac'
  curl 'http://localhost:8080/?vendor=aws&service=ec2&region=eu-west-1'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			disp, err := d.newDispatcher()
			if err != nil {
				return err
			}
			return server.New(disp, d.logger).Run(cmd.Context(), d.cfg.Listen)
		},
	}
	cmd.Flags().String("listen", ":8080", "address to listen on")
	return cmd
}
