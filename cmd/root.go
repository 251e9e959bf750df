package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/123ibadullah/MusicWebApplication/server"
)

var rootCmd = &cobra.Command{
	Use:   "musicapp",
	Short: "Music streaming web application backend",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
