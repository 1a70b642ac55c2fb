package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mnemosyne-ai/mnemo/server"
)

func newServeCmd(cfgPath *string) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chat sessions over a websocket endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := wireApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer app.close()

			if addr == "" {
				addr = app.cfg.Server.Addr
			}

			srv := server.New(server.Config{
				Engine:         app.engine,
				Persona:        app.cfg.Persona,
				BufferCapacity: app.cfg.Buffer.Capacity,
			})
			return srv.Run(addr)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return serveCmd
}
