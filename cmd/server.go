package cmd

import (
	"github.com/spf13/cobra"

	"github.com/123ibadullah/MusicWebApplication/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
