// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/config"
	"modelbridge/cli/internal/logging"
	"modelbridge/cli/internal/modelclient"
	"modelbridge/cli/internal/protocol"
	"modelbridge/cli/internal/render"
)

// statusCmd pings both remotes and shows the effective configuration.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the plugin and the render server",
	Long: `The status command shows the effective configuration (with secrets masked),
sends a ping command to the modeling plugin over TCP and queries the render
server's version endpoint. It never changes any state.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Configuration")).
			WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).
			Printfln("plugin      %s (timeout %s)\nrender_url  %s\nretry       %d attempts, %s delay",
				pluginConfig(cfg).Addr(), cfg.Plugin.Timeout(),
				logging.Mask(cfg.RenderURL),
				cfg.Retry.Attempts, cfg.Retry.Delay())
		pterm.Println()

		if _, err := modelclient.Call(pluginConfig(cfg), protocol.CmdPing, nil); err != nil {
			pterm.Println("❌ " + logging.PresentError("modeling plugin unreachable", err))
		} else {
			pterm.Println("✅ modeling plugin responded to ping")
		}

		version, err := render.New(cfg.RenderURL, "").GetVersion(cmd.Context())
		if err != nil {
			pterm.Println("❌ " + logging.PresentError("render server unreachable", err))
		} else {
			pterm.Println("✅ render server version " + version)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
