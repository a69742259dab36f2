// Command connaissance-client serves the customer knowledge API and its
// terminal client.
//
//	@title			Connaissance Client API
//	@version		1.0
//	@description	Customer knowledge records: identity, postal address and family situation.
//	@BasePath		/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL     string
	apiTimeout = defaultAPITimeout

	rootCmd = &cobra.Command{
		Use:          "connaissance-client",
		Short:        "Customer knowledge records API and terminal client",
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (configured from the environment)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	uiCmd = &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal client against a running API",
		Args:  cobra.NoArgs,
		RunE:  runUI,
	}
)

func init() {
	uiCmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Base URL of the connaissance-client API")
	uiCmd.Flags().DurationVar(&apiTimeout, "timeout", defaultAPITimeout, "Per-request timeout")

	rootCmd.AddCommand(serveCmd, uiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
