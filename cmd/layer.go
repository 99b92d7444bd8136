// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelbridge/cli/internal/protocol"
)

var (
	layerColor []int
)

// layerCmd groups the layer-management wrappers.
var layerCmd = &cobra.Command{
	Use:   "layer",
	Short: "Manage layers in the modeling tool",
}

var layerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{"name": args[0]}
		if len(layerColor) > 0 {
			if len(layerColor) != 3 {
				return fmt.Errorf("--color expects r,g,b, got %d values", len(layerColor))
			}
			params["color"] = map[string]any{"r": layerColor[0], "g": layerColor[1], "b": layerColor[2]}
		}
		return runPluginCommand(protocol.CmdLayerAdd, params)
	},
}

var layerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all layers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdLayerList, nil)
	},
}

var layerDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdLayerDelete, map[string]any{"name": args[0]})
	},
}

var layerCurrentCmd = &cobra.Command{
	Use:   "current <name>",
	Short: "Make a layer the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdLayerSetCurrent, map[string]any{"name": args[0]})
	},
}

func init() {
	layerAddCmd.Flags().IntSliceVar(&layerColor, "color", nil, "Layer color as r,g,b (0-255)")

	layerCmd.AddCommand(layerAddCmd)
	layerCmd.AddCommand(layerListCmd)
	layerCmd.AddCommand(layerDeleteCmd)
	layerCmd.AddCommand(layerCurrentCmd)
	rootCmd.AddCommand(layerCmd)
}
