package main

import (
	"github.com/joeydtaylor/steeze-extension/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func serveCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []serverfx.Option
			if manifestPath != "" {
				opts = append(opts, serverfx.WithManifest(manifestPath))
			}
			app := fx.New(serverfx.Module(opts...), fx.NopLogger)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest path (default: $EXTENSION_MANIFEST)")
	return cmd
}
