package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "extension-gateway",
		Short: "Extension function gateway",
		Long:  "Dispatch installer, setting and hook functions to DIY servers and connectors",
	}

	rootCmd.AddCommand(serveCmd(), checkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
