package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/typeorder/lsp"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without --config the server looks for a config file in the
			// workspace root announced by the client.
			var server *lsp.Server
			if opts.configPath != "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				server = lsp.NewServer(version, cfg)
			} else {
				server = lsp.NewServer(version, nil)
			}
			return server.RunStdio()
		},
	}
}
