// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelbridge/cli/internal/protocol"
)

var (
	materialColor []int
)

// materialCmd groups the material wrappers.
var materialCmd = &cobra.Command{
	Use:   "material",
	Short: "Manage and assign materials in the modeling tool",
}

var materialAssignCmd = &cobra.Command{
	Use:   "assign <material-name> <object-id>...",
	Short: "Assign a material to objects",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{
			"name":       args[0],
			"object_ids": args[1:],
		}
		if len(materialColor) > 0 {
			if len(materialColor) != 3 {
				return fmt.Errorf("--color expects r,g,b, got %d values", len(materialColor))
			}
			params["color"] = map[string]any{"r": materialColor[0], "g": materialColor[1], "b": materialColor[2]}
		}
		return runPluginCommand(protocol.CmdMaterialAssign, params)
	},
}

var materialListCmd = &cobra.Command{
	Use:   "list",
	Short: "List materials known to the document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdMaterialList, nil)
	},
}

func init() {
	materialAssignCmd.Flags().IntSliceVar(&materialColor, "color", nil, "Diffuse color as r,g,b (0-255)")

	materialCmd.AddCommand(materialAssignCmd)
	materialCmd.AddCommand(materialListCmd)
	rootCmd.AddCommand(materialCmd)
}
