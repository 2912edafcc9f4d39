package main

import (
	"fmt"

	"github.com/joeydtaylor/steeze-extension/pkg/core"
	"github.com/joeydtaylor/steeze-extension/pkg/extension"
	"github.com/joeydtaylor/steeze-extension/pkg/manifest"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := core.LoadConfig(manifestPath)
			if err != nil {
				return err
			}
			if err := checkModules(cfg, extension.Default); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "manifest %s ok\n", manifestPath)
			fmt.Fprintf(out, "  diy: %v\n", cfg.DIY.Enabled)
			fmt.Fprintf(out, "  connectors: %d\n", len(cfg.Connectors))
			fmt.Fprintf(out, "  registry: %s\n", cfg.Registry.Backend)
			fmt.Fprintf(out, "  timeout_ms: %d\n", cfg.Policy.TimeoutMS)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "manifest.toml", "Manifest path")
	return cmd
}

// checkModules reports in-process handlers that name an unregistered module.
func checkModules(cfg manifest.Config, mods *extension.Modules) error {
	if cfg.DIY.Enabled && cfg.DIY.Handler.Type == manifest.HandlerInproc && !mods.Has(cfg.DIY.Handler.Name) {
		return fmt.Errorf("diy: module %q not registered", cfg.DIY.Handler.Name)
	}
	for _, c := range cfg.Connectors {
		if c.Disabled || c.Handler.Type != manifest.HandlerInproc {
			continue
		}
		if !mods.Has(c.Handler.Name) {
			return fmt.Errorf("connector %s: module %q not registered", c.ID, c.Handler.Name)
		}
	}
	return nil
}
