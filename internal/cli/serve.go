package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joacominatel/askdb/internal/web"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the question form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			if err := rt.requireTarget(); err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				rt.cfg.Server.Port = port
			}

			srv, err := web.NewServer(web.Config{
				Service:       rt.service,
				Port:          rt.cfg.Server.Port,
				SessionSecret: rt.cfg.Server.SessionSecret,
				Logger:        rt.log,
			})
			if err != nil {
				return err
			}
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 7860, "Port to listen on (overrides SERVER_PORT)")
	return cmd
}
