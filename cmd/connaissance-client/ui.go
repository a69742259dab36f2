package main

import (
	"github.com/spf13/cobra"

	"github.com/sqli-workshop/connaissance-client/internal/apiclient"
	"github.com/sqli-workshop/connaissance-client/internal/tui"
)

const defaultAPITimeout = apiclient.DefaultTimeout

func runUI(cmd *cobra.Command, _ []string) error {
	client := apiclient.New(apiURL, apiclient.WithTimeout(apiTimeout))
	return tui.Run(cmd.Context(), client)
}
