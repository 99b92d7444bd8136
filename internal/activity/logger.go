// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package activity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"modelbridge/cli/internal/xdg"
)

// logFileName is the default activity log file inside the XDG state dir.
const logFileName = "activity.jsonl"

// Logger appends events to a JSONL file. One line per event, flushed per
// append; no buffering, no rotation.
type Logger struct {
	path string
}

// NewLogger creates a logger writing to path. An empty path selects the
// default location in the XDG state directory.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, logFileName)
	}
	return &Logger{path: path}, nil
}

// Path returns the file this logger appends to.
func (l *Logger) Path() string { return l.path }

// Append writes one event as a single JSON line. A zero Time is stamped
// with the current wall clock.
func (l *Logger) Append(e Event) error {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}
