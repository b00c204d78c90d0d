package main

import (
	"github.com/spf13/cobra"

	"github.com/yurifrl/tally/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger as a JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return server.New(app.config, app.logger, app.session).Start()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:3000)")
}
