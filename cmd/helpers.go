// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"modelbridge/cli/internal/activity"
	"modelbridge/cli/internal/config"
	"modelbridge/cli/internal/keychain"
	"modelbridge/cli/internal/modelclient"
)

// pluginConfig builds the TCP client config from the loaded configuration.
func pluginConfig(cfg config.Config) modelclient.Config {
	return modelclient.Config{
		Host:    cfg.Plugin.Host,
		Port:    cfg.Plugin.Port,
		Timeout: cfg.Plugin.Timeout(),
	}
}

// printJSON writes the remote's response to stdout as one JSON document.
// Remote-side error payloads go through here too; they are printed, not
// translated into exit codes.
func printJSON(v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// runPluginCommand is the shared path of every modeling wrapper: one
// connection, one command, one response, printed verbatim. Each call is also
// recorded in the activity log; a failing log never fails the command.
func runPluginCommand(name string, params map[string]any) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := modelclient.Call(pluginConfig(cfg), name, params)
	logCommandEvent(cfg, name, time.Since(start), err)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

// logCommandEvent appends one activity record for a plugin call.
func logCommandEvent(cfg config.Config, name string, elapsed time.Duration, callErr error) {
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
		Kind:    activity.KindCommand,
		Subject: name,
		Fields:  fields,
	})
}

// renderAPIKey loads the render server API key, preferring the environment
// over the OS keychain. Absence is not an error; many local servers run open.
func renderAPIKey() string {
	if key := envAPIKey(); key != "" {
		return key
	}
	km, err := keychain.GetManager()
	if err != nil {
		return ""
	}
	key, err := km.LoadRenderAPIKey()
	if err != nil {
		return ""
	}
	return key
}
