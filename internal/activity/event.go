// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package activity implements the JSONL activity log and its naive aggregation.
// Every CLI invocation may append one line per noteworthy occurrence; `activity
// stats` folds the file into counts, sums and averages for quick observability
// without any external service.
package activity

import "time"

// Event kinds written by the CLI itself. Callers may log arbitrary kinds.
const (
	KindCommand  = "command"
	KindGenerate = "generate"
	KindGate     = "gate"
	KindPipeline = "pipeline"
)

// Event is one JSONL record. Fields carries free-form per-event data;
// numeric fields participate in sum/average aggregation.
type Event struct {
	Time    time.Time      `json:"ts"`
	Kind    string         `json:"kind"`
	Subject string         `json:"subject,omitempty"`
	RunID   string         `json:"run_id,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}
