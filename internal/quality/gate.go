// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package quality implements the quality gate over generated images.
// Each image is scored by the generation server (optionally with a specific
// third-party model) and compared against a threshold. The gate reports its
// verdict; it never deletes or modifies images.
package quality

import (
	"context"

	"modelbridge/cli/internal/render"
)

// DefaultThreshold is used when no threshold flag is given.
const DefaultThreshold = 0.5

// Gate holds the pass criteria for a batch of images.
type Gate struct {
	// Threshold is the minimum acceptable score, inclusive.
	Threshold float64
	// Model optionally selects a third-party scoring model on the server.
	Model string
}

// Verdict is the outcome for one image.
type Verdict struct {
	ImagePath string         `json:"image_path"`
	Score     float64        `json:"score"`
	Passed    bool           `json:"passed"`
	Error     string         `json:"error,omitempty"`
	Raw       map[string]any `json:"raw,omitempty"`
}

// Report is the outcome for the whole batch.
type Report struct {
	Threshold float64   `json:"threshold"`
	Model     string    `json:"model,omitempty"`
	Verdicts  []Verdict `json:"verdicts"`
	Passed    bool      `json:"passed"`
}

// Check scores every image and builds the batch report. A scoring failure
// fails that image's verdict (and therefore the gate) but does not abort the
// remaining images.
func (g Gate) Check(ctx context.Context, api render.API, imagePaths []string) Report {
	report := Report{
		Threshold: g.Threshold,
		Model:     g.Model,
		Passed:    len(imagePaths) > 0,
	}
	for _, path := range imagePaths {
		v := Verdict{ImagePath: path}
		res, err := api.Score(ctx, render.ScoreRequest{ImagePath: path, Model: g.Model})
		if err != nil {
			v.Error = err.Error()
		} else {
			v.Score = res.Score
			v.Raw = res.Raw
			v.Passed = res.Score >= g.Threshold
		}
		if !v.Passed {
			report.Passed = false
		}
		report.Verdicts = append(report.Verdicts, v)
	}
	return report
}
