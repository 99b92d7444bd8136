// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package activity

import (
	"bufio"
	"encoding/json"
	"os"
	"time"
)

// NumericAgg accumulates one numeric field across events.
type NumericAgg struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
}

// Avg returns the arithmetic mean, or 0 when no samples were seen.
func (n NumericAgg) Avg() float64 {
	if n.Count == 0 {
		return 0
	}
	return n.Sum / float64(n.Count)
}

// Stats is the naive aggregation over an activity log: counts per kind,
// sums and averages of numeric fields, and the covered time range.
type Stats struct {
	Total   int                   `json:"total"`
	ByKind  map[string]int        `json:"by_kind"`
	Numeric map[string]NumericAgg `json:"numeric"`
	First   time.Time             `json:"first,omitzero"`
	Last    time.Time             `json:"last,omitzero"`
	Skipped int                   `json:"skipped,omitempty"`
}

// Aggregate reads the JSONL file at path and folds it into Stats.
// Malformed lines are counted in Skipped, never fatal; a missing file
// yields empty stats.
func Aggregate(path string) (Stats, error) {
	s := Stats{
		ByKind:  map[string]int{},
		Numeric: map[string]NumericAgg{},
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			s.Skipped++
			continue
		}
		s.fold(e)
	}
	if err := sc.Err(); err != nil {
		return s, err
	}
	return s, nil
}

// fold merges one event into the running aggregation.
func (s *Stats) fold(e Event) {
	s.Total++
	s.ByKind[e.Kind]++
	if s.First.IsZero() || e.Time.Before(s.First) {
		s.First = e.Time
	}
	if e.Time.After(s.Last) {
		s.Last = e.Time
	}
	for name, v := range e.Fields {
		num, ok := v.(float64)
		if !ok {
			continue
		}
		agg := s.Numeric[name]
		agg.Count++
		agg.Sum += num
		s.Numeric[name] = agg
	}
}
