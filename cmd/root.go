// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the modelbridge CLI application.
// It implements subcommands wrapping the modeling-tool plugin's TCP commands and the
// image-generation server's HTTP endpoints using the Cobra CLI framework. Every
// wrapper packs its flags into a parameter mapping, performs exactly one remote
// call and prints the returned JSON verbatim.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modelbridge/cli/internal/config"
	"modelbridge/cli/internal/render"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the modelbridge CLI application.
var rootCmd = &cobra.Command{
	Use:           "modelbridge",
	Short:         "CLI glue for a 3D-modeling plugin and an image-generation server",
	Long:          `Modelbridge is a command-line tool that forwards modeling commands to a running 3D-modeling plugin over TCP and drives an image-generation server over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			serverVersion, err := render.New(cfg.RenderURL, "").GetVersion(ctx)
			if err != nil {
				serverVersion = "unknown"
			}

			fmt.Printf("modelbridge %s\nrender server %s\n", Version, serverVersion)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and render server version information")
}
