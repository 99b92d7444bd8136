// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/protocol"
)

// groupCmd groups the object-grouping wrappers.
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group and ungroup objects in the modeling tool",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name> <object-id>...",
	Short: "Create a named group from objects",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdGroupCreate, map[string]any{
			"name":       args[0],
			"object_ids": args[1:],
		})
	},
}

var groupDissolveCmd = &cobra.Command{
	Use:   "dissolve <name>",
	Short: "Dissolve a group, keeping its objects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdGroupDissolve, map[string]any{"name": args[0]})
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups in the document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginCommand(protocol.CmdGroupList, nil)
	},
}

func init() {
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupDissolveCmd)
	groupCmd.AddCommand(groupListCmd)
	rootCmd.AddCommand(groupCmd)
}
