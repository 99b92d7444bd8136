// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/activity"
	"modelbridge/cli/internal/config"
	"modelbridge/cli/internal/httperrors"
	"modelbridge/cli/internal/quality"
	"modelbridge/cli/internal/render"
)

var (
	generatePrompt string
	generateStyle  string
	generateSeed   int64
	generateWidth  int
	generateHeight int

	checkThreshold float64
	checkModel     string
)

// renderCmd groups the image-generation server wrappers.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Drive the image-generation server",
	Long: `The render command talks to the configured image-generation server over HTTP.
'generate' submits one generation request (with a bounded retry around the whole
call); 'check' runs generated images through the quality gate. Responses are
printed verbatim as JSON.`,
}

var renderGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one image from a prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		api := render.New(cfg.RenderURL, renderAPIKey())

		stopSpinner := startInlineSpinner(os.Stderr, "generating image",
			[]string{"-", "\\", "|", "/"}, 100*time.Millisecond)

		// Retry here is caller policy around the whole request; the HTTP
		// client itself never retries.
		var resp map[string]any
		start := time.Now()
		err = retry.Call(retry.CallArgs{
			Func: func() error {
				var callErr error
				resp, callErr = api.Generate(cmd.Context(), render.GenerateRequest{
					Prompt: generatePrompt,
					Style:  generateStyle,
					Seed:   generateSeed,
					Width:  generateWidth,
					Height: generateHeight,
				})
				return callErr
			},
			Attempts: cfg.Retry.Attempts,
			Delay:    cfg.Retry.Delay(),
			Clock:    clock.WallClock,
			Stop:     cmd.Context().Done(),
		})
		stopSpinner()

		logGenerateEvent(cfg, time.Since(start), err)
		if err != nil {
			return httperrors.FormatNetworkError(err, "generating image")
		}
		return printJSON(resp)
	},
}

var renderCheckCmd = &cobra.Command{
	Use:   "check <image-path>...",
	Short: "Run images through the quality gate",
	Long: `The check command scores each image via the generation server's scoring
endpoint and compares the score against the threshold. The gate's verdict is
printed as JSON; a failing gate does not change the exit code, since the remote
verdict is data, not a local failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		api := render.New(cfg.RenderURL, renderAPIKey())

		gate := quality.Gate{Threshold: checkThreshold, Model: checkModel}
		report := gate.Check(cmd.Context(), api, args)
		logGateEvents(cfg, report)
		return printJSON(report)
	},
}

// logGenerateEvent records one generate call in the activity log.
func logGenerateEvent(cfg config.Config, elapsed time.Duration, callErr error) {
	logger, err := activity.NewLogger(cfg.ActivityLog)
	if err != nil {
		return
	}
	fields := map[string]any{
		"duration_ms": float64(elapsed.Milliseconds()),
		"ok":          callErr == nil,
	}
	if callErr != nil {
		fields["error"] = callErr.Error()
	}
	_ = logger.Append(activity.Event{
		Kind:    activity.KindGenerate,
		Subject: generatePrompt,
		Fields:  fields,
	})
}

// logGateEvents records one gate event per scored image.
func logGateEvents(cfg config.Config, report quality.Report) {
	logger, err := activity.NewLogger(cfg.ActivityLog)
	if err != nil {
		return
	}
	for _, v := range report.Verdicts {
		fields := map[string]any{
			"score":     v.Score,
			"passed":    v.Passed,
			"threshold": report.Threshold,
		}
		if v.Error != "" {
			fields["error"] = v.Error
		}
		_ = logger.Append(activity.Event{
			Kind:    activity.KindGate,
			Subject: v.ImagePath,
			Fields:  fields,
		})
	}
}

func init() {
	renderGenerateCmd.Flags().StringVar(&generatePrompt, "prompt", "", "Generation prompt (required)")
	renderGenerateCmd.Flags().StringVar(&generateStyle, "style", "", "Named style preset on the server")
	renderGenerateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed (0 lets the server pick)")
	renderGenerateCmd.Flags().IntVar(&generateWidth, "width", 0, "Image width in pixels (server default when 0)")
	renderGenerateCmd.Flags().IntVar(&generateHeight, "height", 0, "Image height in pixels (server default when 0)")
	_ = renderGenerateCmd.MarkFlagRequired("prompt")

	renderCheckCmd.Flags().Float64Var(&checkThreshold, "threshold", quality.DefaultThreshold, "Minimum acceptable score (inclusive)")
	renderCheckCmd.Flags().StringVar(&checkModel, "model", "", "Third-party scoring model to use on the server")

	renderCmd.AddCommand(renderGenerateCmd)
	renderCmd.AddCommand(renderCheckCmd)
	rootCmd.AddCommand(renderCmd)
}
