// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pipeline drives the multi-subject image pipeline: for every subject
// in a roster it generates an image, runs it through the quality gate and
// records one activity event per attempt. Failed subjects are retried with a
// bounded delay; this is deliberately caller-level policy, the transport
// clients themselves never retry.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"modelbridge/cli/internal/activity"
	"modelbridge/cli/internal/quality"
	"modelbridge/cli/internal/render"
)

// Subject is one roster entry.
type Subject struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
}

// LoadRoster reads a JSON array of subjects from path.
func LoadRoster(path string) ([]Subject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var subjects []Subject
	if err := json.Unmarshal(data, &subjects); err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	for i, s := range subjects {
		if s.Name == "" || s.Prompt == "" {
			return nil, fmt.Errorf("roster %s: entry %d needs both name and prompt", path, i+1)
		}
	}
	return subjects, nil
}

// Result is the final outcome for one subject.
type Result struct {
	Subject  string  `json:"subject"`
	Image    string  `json:"image,omitempty"`
	Score    float64 `json:"score"`
	Passed   bool    `json:"passed"`
	Attempts int     `json:"attempts"`
	Error    string  `json:"error,omitempty"`
}

// Runner executes the pipeline for a roster of subjects.
type Runner struct {
	API  render.API
	Gate quality.Gate
	Log  *activity.Logger

	// Attempts and Delay bound the per-subject retry.
	Attempts int
	Delay    time.Duration
	Clock    clock.Clock
}

// Run processes every subject in order. Subjects are independent: one
// subject exhausting its retries does not stop the rest. The returned error
// is non-nil only for local failures (e.g. the activity log being
// unwritable).
func (r *Runner) Run(ctx context.Context, subjects []Subject, runID string) ([]Result, error) {
	results := make([]Result, 0, len(subjects))
	for _, subject := range subjects {
		res := r.runSubject(ctx, subject, runID)
		results = append(results, res)
		if err := r.logResult(subject, runID, res); err != nil {
			return results, err
		}
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}
	return results, nil
}

// runSubject performs generate-then-gate for one subject with bounded retry.
func (r *Runner) runSubject(ctx context.Context, subject Subject, runID string) Result {
	res := Result{Subject: subject.Name}

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			res.Attempts++
			return r.attempt(ctx, subject, runID, &res)
		},
		Attempts: r.Attempts,
		Delay:    r.Delay,
		Clock:    r.Clock,
		Stop:     ctx.Done(),
	})
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// attempt is one generate-then-gate pass. Any failure, including a gate
// verdict below threshold, is retryable.
func (r *Runner) attempt(ctx context.Context, subject Subject, runID string, res *Result) error {
	raw, err := r.API.Generate(ctx, render.GenerateRequest{
		Prompt: subject.Prompt,
		Style:  subject.Style,
		Seed:   subject.Seed,
	})
	if err != nil {
		r.logAttempt(subject, runID, res.Attempts, 0, false, err)
		return err
	}
	image, _ := raw["image"].(string)
	if image == "" {
		err := fmt.Errorf("generation response for %q carries no image path", subject.Name)
		r.logAttempt(subject, runID, res.Attempts, 0, false, err)
		return err
	}

	report := r.Gate.Check(ctx, r.API, []string{image})
	verdict := report.Verdicts[0]
	res.Image = image
	res.Score = verdict.Score
	res.Passed = verdict.Passed
	res.Error = ""

	var gateErr error
	if verdict.Error != "" {
		gateErr = fmt.Errorf("scoring %s: %s", image, verdict.Error)
	} else if !verdict.Passed {
		gateErr = fmt.Errorf("image %s scored %.3f, below threshold %.3f", image, verdict.Score, r.Gate.Threshold)
	}
	r.logAttempt(subject, runID, res.Attempts, verdict.Score, verdict.Passed, gateErr)
	return gateErr
}

// logAttempt records one pipeline attempt; logging failures here are
// swallowed so a read-only state dir cannot abort a run midway.
func (r *Runner) logAttempt(subject Subject, runID string, attempt int, score float64, passed bool, cause error) {
	if r.Log == nil {
		return
	}
	fields := map[string]any{
		"attempt": float64(attempt),
		"score":   score,
		"passed":  passed,
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	_ = r.Log.Append(activity.Event{
		Kind:    activity.KindPipeline,
		Subject: subject.Name,
		RunID:   runID,
		Fields:  fields,
	})
}

// logResult records the subject's final outcome.
func (r *Runner) logResult(subject Subject, runID string, res Result) error {
	if r.Log == nil {
		return nil
	}
	fields := map[string]any{
		"attempts": float64(res.Attempts),
		"score":    res.Score,
		"passed":   res.Passed,
		"final":    true,
	}
	if res.Error != "" {
		fields["error"] = res.Error
	}
	return r.Log.Append(activity.Event{
		Kind:    activity.KindPipeline,
		Subject: subject.Name,
		RunID:   runID,
		Fields:  fields,
	})
}
