// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/protocol"
)

var (
	objectListLayer string
)

// objectCmd groups generic object inspection and deletion wrappers.
var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Inspect and delete objects in the modeling tool",
}

var objectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List objects, optionally restricted to a layer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{}
		if objectListLayer != "" {
			params["layer"] = objectListLayer
		}
		return runPluginCommand(protocol.CmdObjectList, params)
	},
}

var objectDeleteCmd = &cobra.Command{
	Use:   "delete <object-id>...",
	Short: "Delete objects",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdObjectDelete, map[string]any{"object_ids": args})
	},
}

var objectInfoCmd = &cobra.Command{
	Use:   "info <object-id>",
	Short: "Show details for one object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdObjectInfo, map[string]any{"object_id": args[0]})
	},
}

func init() {
	objectListCmd.Flags().StringVar(&objectListLayer, "layer", "", "Only list objects on this layer")

	objectCmd.AddCommand(objectListCmd)
	objectCmd.AddCommand(objectDeleteCmd)
	objectCmd.AddCommand(objectInfoCmd)
	rootCmd.AddCommand(objectCmd)
}
