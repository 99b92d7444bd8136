// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package protocol defines the JSON wire types spoken by the modeling-tool plugin.
// A request is one JSON document of the form {"type": <command>, "params": {...}};
// the response is a single arbitrary JSON value, conventionally a mapping with a
// status field and either a result payload or an error description. No schema is
// enforced here; callers interpret the shape.
package protocol

import "encoding/json"

// Command names understood by the plugin.
const (
	CmdPing              = "ping"
	CmdBooleanUnion      = "boolean_union"
	CmdBooleanDifference = "boolean_difference"
	CmdBooleanIntersect  = "boolean_intersection"
	CmdMove              = "move"
	CmdRotate            = "rotate"
	CmdScale             = "scale"
	CmdMirror            = "mirror"
	CmdLayerAdd          = "layer_add"
	CmdLayerList         = "layer_list"
	CmdLayerDelete       = "layer_delete"
	CmdLayerSetCurrent   = "layer_set_current"
	CmdMaterialAssign    = "material_assign"
	CmdMaterialList      = "material_list"
	CmdGroupCreate       = "group_create"
	CmdGroupDissolve     = "group_dissolve"
	CmdGroupList         = "group_list"
	CmdObjectList        = "object_list"
	CmdObjectDelete      = "object_delete"
	CmdObjectInfo        = "object_info"
)

// Conventional status values seen in plugin responses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Command is a named remote operation plus its parameter mapping.
// It is built once per call and discarded after send.
type Command struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// NewCommand creates a command. A nil params map is replaced with an empty
// one so the wire always carries a "params" object.
func NewCommand(name string, params map[string]any) Command {
	if params == nil {
		params = map[string]any{}
	}
	return Command{Type: name, Params: params}
}

// Encode serializes the command to its wire form.
func (c Command) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Status extracts the conventional status field from a response value, when
// the response is a mapping carrying one. ok is false otherwise.
func Status(resp any) (string, bool) {
	m, isMap := resp.(map[string]any)
	if !isMap {
		return "", false
	}
	s, isStr := m["status"].(string)
	return s, isStr
}

// ErrorText extracts the conventional error description from a response
// value, when present.
func ErrorText(resp any) (string, bool) {
	m, isMap := resp.(map[string]any)
	if !isMap {
		return "", false
	}
	s, isStr := m["error"].(string)
	return s, isStr
}
