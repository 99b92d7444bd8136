// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package protocol

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCommandEncode(t *testing.T) {
	tests := []struct {
		name   string
		cmd    Command
		params map[string]any
	}{
		{
			name: "boolean union with ids",
			cmd: NewCommand(CmdBooleanUnion, map[string]any{
				"object_ids":   []any{"a1", "b2"},
				"delete_input": true,
			}),
			params: map[string]any{
				"object_ids":   []any{"a1", "b2"},
				"delete_input": true,
			},
		},
		{
			name:   "nil params become empty object",
			cmd:    NewCommand(CmdPing, nil),
			params: map[string]any{},
		},
		{
			name: "nested mapping and null",
			cmd: NewCommand(CmdMaterialAssign, map[string]any{
				"color":  map[string]any{"r": float64(255), "g": float64(0), "b": float64(0)},
				"exact":  nil,
				"factor": 1.5,
			}),
			params: map[string]any{
				"color":  map[string]any{"r": float64(255), "g": float64(0), "b": float64(0)},
				"exact":  nil,
				"factor": 1.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.cmd.Encode()
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(b, &decoded); err != nil {
				t.Fatalf("encoded command is not valid JSON: %v", err)
			}
			if decoded["type"] != tt.cmd.Type {
				t.Errorf("type = %v, want %v", decoded["type"], tt.cmd.Type)
			}
			if !reflect.DeepEqual(decoded["params"], tt.params) {
				t.Errorf("params = %#v, want %#v", decoded["params"], tt.params)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		resp   any
		want   string
		wantOK bool
	}{
		{name: "ok mapping", resp: map[string]any{"status": "ok"}, want: "ok", wantOK: true},
		{name: "error mapping", resp: map[string]any{"status": "error", "error": "bad id"}, want: "error", wantOK: true},
		{name: "no status field", resp: map[string]any{"result": float64(3)}, wantOK: false},
		{name: "non-mapping response", resp: []any{"x"}, wantOK: false},
		{name: "scalar response", resp: "done", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Status(tt.resp)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Status() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestErrorText(t *testing.T) {
	if msg, ok := ErrorText(map[string]any{"status": "error", "error": "unknown layer"}); !ok || msg != "unknown layer" {
		t.Errorf("ErrorText() = (%q, %v), want (unknown layer, true)", msg, ok)
	}
	if _, ok := ErrorText(map[string]any{"status": "ok"}); ok {
		t.Error("ErrorText() on ok response should report false")
	}
}
