// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/protocol"
)

var (
	booleanDeleteInput bool
)

// booleanCmd groups the boolean-operation wrappers.
var booleanCmd = &cobra.Command{
	Use:   "boolean",
	Short: "Run boolean operations on objects in the modeling tool",
	Long: `The boolean command forwards solid boolean operations (union, difference,
intersection) to the running modeling plugin. Object ids are passed through as-is;
the plugin's JSON response is printed verbatim.`,
}

var booleanUnionCmd = &cobra.Command{
	Use:   "union <object-id> <object-id>...",
	Short: "Union two or more objects",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdBooleanUnion, map[string]any{
			"object_ids":   args,
			"delete_input": booleanDeleteInput,
		})
	},
}

var booleanDifferenceCmd = &cobra.Command{
	Use:   "difference <target-id> <cutter-id>...",
	Short: "Subtract cutter objects from a target object",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdBooleanDifference, map[string]any{
			"target_id":    args[0],
			"cutter_ids":   args[1:],
			"delete_input": booleanDeleteInput,
		})
	},
}

var booleanIntersectionCmd = &cobra.Command{
	Use:   "intersection <object-id> <object-id>...",
	Short: "Intersect two or more objects",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdBooleanIntersect, map[string]any{
			"object_ids":   args,
			"delete_input": booleanDeleteInput,
		})
	},
}

func init() {
	booleanCmd.PersistentFlags().BoolVar(&booleanDeleteInput, "delete-input", true, "Delete the input objects after the operation")
	booleanCmd.AddCommand(booleanUnionCmd)
	booleanCmd.AddCommand(booleanDifferenceCmd)
	booleanCmd.AddCommand(booleanIntersectionCmd)
	rootCmd.AddCommand(booleanCmd)
}
