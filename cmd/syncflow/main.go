// @title                       SyncFlow API
// @version                     1.0
// @description                 Project, client and invoice management with role-based access and real-time notifications.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:           "syncflow",
	Short:         "SyncFlow API server",
	Long:          `SyncFlow serves the project, client, team and invoice API with real-time notifications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("syncflow %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
