// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/activity"
	"modelbridge/cli/internal/config"
	"modelbridge/cli/internal/keychain"
	"modelbridge/cli/internal/logging"
)

var (
	activityKind    string
	activitySubject string
	activityFields  []string
	exportDSN       string
)

// activityCmd groups the activity-log wrappers.
var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Append to and aggregate the JSONL activity log",
	Long: `The activity command manages the local JSONL activity log. 'log' appends one
event, 'stats' prints naive aggregations (counts, sums, averages) over the whole
file, and 'export' bulk-loads the file into a Postgres table for teams that keep
observability in a database.`,
}

var activityLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Append one event to the activity log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fields, err := parseFieldPairs(activityFields)
		if err != nil {
			return err
		}
		logger, err := activity.NewLogger(cfg.ActivityLog)
		if err != nil {
			return err
		}
		return logger.Append(activity.Event{
			Kind:    activityKind,
			Subject: activitySubject,
			Fields:  fields,
		})
	},
}

var activityStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate the activity log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := activity.NewLogger(cfg.ActivityLog)
		if err != nil {
			return err
		}
		stats, err := activity.Aggregate(logger.Path())
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

var activityExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Bulk-load the activity log into Postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dsn, err := resolveExportDSN()
		if err != nil {
			return err
		}
		logger, err := activity.NewLogger(cfg.ActivityLog)
		if err != nil {
			return err
		}

		inserted, err := activity.Export(cmd.Context(), dsn, logger.Path())
		if err != nil {
			pterm.Println("❌ " + logging.PresentError("export failed", err))
			return err
		}
		return printJSON(map[string]any{"status": "ok", "inserted": inserted})
	},
}

// resolveExportDSN picks the export DSN from the flag, the environment or the
// OS keychain, in that order.
func resolveExportDSN() (string, error) {
	if strings.TrimSpace(exportDSN) != "" {
		return strings.TrimSpace(exportDSN), nil
	}
	if env := strings.TrimSpace(os.Getenv("MODELBRIDGE_EXPORT_DSN")); env != "" {
		return env, nil
	}
	km, err := keychain.GetManager()
	if err != nil {
		return "", fmt.Errorf("no --dsn given and secure storage unavailable: %w", err)
	}
	dsn, err := km.LoadExportDSN()
	if err != nil || strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("no export DSN configured; pass --dsn or set MODELBRIDGE_EXPORT_DSN")
	}
	return dsn, nil
}

// parseFieldPairs turns key=value flags into an event field mapping.
// Values that parse as numbers or booleans keep their type so they take part
// in numeric aggregation.
func parseFieldPairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, found := strings.Cut(p, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("--field expects key=value, got %q", p)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			fields[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			fields[key] = b
		} else {
			fields[key] = value
		}
	}
	return fields, nil
}

func init() {
	activityLogCmd.Flags().StringVar(&activityKind, "kind", activity.KindCommand, "Event kind")
	activityLogCmd.Flags().StringVar(&activitySubject, "subject", "", "Event subject")
	activityLogCmd.Flags().StringArrayVar(&activityFields, "field", nil, "Event field as key=value (repeatable)")

	activityExportCmd.Flags().StringVar(&exportDSN, "dsn", "", "Postgres DSN (falls back to MODELBRIDGE_EXPORT_DSN, then the OS keychain)")

	activityCmd.AddCommand(activityLogCmd)
	activityCmd.AddCommand(activityStatsCmd)
	activityCmd.AddCommand(activityExportCmd)
	rootCmd.AddCommand(activityCmd)
}
