// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"atomicgo.dev/cursor"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/activity"
	"modelbridge/cli/internal/config"
	"modelbridge/cli/internal/pipeline"
	"modelbridge/cli/internal/quality"
	"modelbridge/cli/internal/render"
)

var (
	pipelineRoster    string
	pipelineThreshold float64
	pipelineModel     string
)

// pipelineCmd drives the multi-subject generation harness.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the multi-subject image pipeline",
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and gate one image per roster subject",
	Long: `The run command reads a roster file (a JSON array of subjects with name,
prompt and optional style/seed), generates one image per subject and runs each
through the quality gate. Failing subjects are retried with the configured
bounded delay. Every attempt is recorded in the activity log under a fresh
run id.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		subjects, err := pipeline.LoadRoster(pipelineRoster)
		if err != nil {
			return err
		}
		logger, err := activity.NewLogger(cfg.ActivityLog)
		if err != nil {
			return err
		}

		runner := &pipeline.Runner{
			API:      render.New(cfg.RenderURL, renderAPIKey()),
			Gate:     quality.Gate{Threshold: pipelineThreshold, Model: pipelineModel},
			Log:      logger,
			Attempts: cfg.Retry.Attempts,
			Delay:    cfg.Retry.Delay(),
			Clock:    clock.WallClock,
		}

		runID := uuid.NewString()
		pterm.Printf("Starting pipeline run %s (%d subjects)\n\n", runID, len(subjects))

		cursor.Hide()
		defer cursor.Show()

		results, err := runner.Run(cmd.Context(), subjects, runID)
		if err != nil {
			return err
		}

		printPipelineSummary(results)
		return nil
	},
}

// printPipelineSummary renders the per-subject outcome table and totals.
func printPipelineSummary(results []pipeline.Result) {
	rows := pterm.TableData{{"Subject", "Image", "Score", "Attempts", "Result"}}
	passed := 0
	for _, r := range results {
		outcome := "PASS"
		if !r.Passed {
			outcome = "FAIL"
		} else {
			passed++
		}
		rows = append(rows, []string{
			r.Subject,
			r.Image,
			fmt.Sprintf("%.3f", r.Score),
			fmt.Sprintf("%d", r.Attempts),
			outcome,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	pterm.Println()
	pterm.Printf("%d/%d subjects passed the gate\n", passed, len(results))
}

func init() {
	pipelineRunCmd.Flags().StringVar(&pipelineRoster, "roster", "", "Path to the roster JSON file (required)")
	pipelineRunCmd.Flags().Float64Var(&pipelineThreshold, "threshold", quality.DefaultThreshold, "Minimum acceptable score (inclusive)")
	pipelineRunCmd.Flags().StringVar(&pipelineModel, "model", "", "Third-party scoring model to use on the server")
	_ = pipelineRunCmd.MarkFlagRequired("roster")

	pipelineCmd.AddCommand(pipelineRunCmd)
	rootCmd.AddCommand(pipelineCmd)
}
