// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelbridge/cli/internal/protocol"
)

var (
	moveVector   []float64
	rotateAngle  float64
	rotateAxis   string
	rotateCenter []float64
	scaleFactor  float64
	scaleCenter  []float64
	mirrorPlane  string
)

// transformCmd groups the transform wrappers.
var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Move, rotate, scale or mirror objects in the modeling tool",
	Long: `The transform command forwards geometric transforms to the running modeling
plugin. Vectors and centers are given as comma-separated coordinates, e.g.
--vector 10,0,5. The plugin's JSON response is printed verbatim.`,
}

// vectorParam packs a coordinate triple into the wire mapping shape.
func vectorParam(v []float64) (map[string]any, error) {
	if len(v) != 3 {
		return nil, fmt.Errorf("expected 3 coordinates, got %d", len(v))
	}
	return map[string]any{"x": v[0], "y": v[1], "z": v[2]}, nil
}

var transformMoveCmd = &cobra.Command{
	Use:   "move <object-id>...",
	Short: "Translate objects by a vector",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vec, err := vectorParam(moveVector)
		if err != nil {
			return fmt.Errorf("--vector: %w", err)
		}
		return runPluginCommand(protocol.CmdMove, map[string]any{
			"object_ids":  args,
			"translation": vec,
		})
	},
}

var transformRotateCmd = &cobra.Command{
	Use:   "rotate <object-id>...",
	Short: "Rotate objects around an axis",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if rotateAxis != "x" && rotateAxis != "y" && rotateAxis != "z" {
			return fmt.Errorf("--axis must be x, y or z, got %q", rotateAxis)
		}
		params := map[string]any{
			"object_ids":    args,
			"angle_degrees": rotateAngle,
			"axis":          rotateAxis,
		}
		if len(rotateCenter) > 0 {
			center, err := vectorParam(rotateCenter)
			if err != nil {
				return fmt.Errorf("--center: %w", err)
			}
			params["center"] = center
		}
		return runPluginCommand(protocol.CmdRotate, params)
	},
}

var transformScaleCmd = &cobra.Command{
	Use:   "scale <object-id>...",
	Short: "Scale objects uniformly",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if scaleFactor <= 0 {
			return fmt.Errorf("--factor must be positive, got %v", scaleFactor)
		}
		params := map[string]any{
			"object_ids": args,
			"factor":     scaleFactor,
		}
		if len(scaleCenter) > 0 {
			center, err := vectorParam(scaleCenter)
			if err != nil {
				return fmt.Errorf("--center: %w", err)
			}
			params["center"] = center
		}
		return runPluginCommand(protocol.CmdScale, params)
	},
}

var transformMirrorCmd = &cobra.Command{
	Use:   "mirror <object-id>...",
	Short: "Mirror objects across a principal plane",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch mirrorPlane {
		case "xy", "yz", "xz":
		default:
			return fmt.Errorf("--plane must be xy, yz or xz, got %q", mirrorPlane)
		}
		return runPluginCommand(protocol.CmdMirror, map[string]any{
			"object_ids": args,
			"plane":      mirrorPlane,
		})
	},
}

func init() {
	transformMoveCmd.Flags().Float64SliceVar(&moveVector, "vector", nil, "Translation vector as x,y,z (required)")
	_ = transformMoveCmd.MarkFlagRequired("vector")

	transformRotateCmd.Flags().Float64Var(&rotateAngle, "angle", 0, "Rotation angle in degrees (required)")
	transformRotateCmd.Flags().StringVar(&rotateAxis, "axis", "z", "Rotation axis: x, y or z")
	transformRotateCmd.Flags().Float64SliceVar(&rotateCenter, "center", nil, "Rotation center as x,y,z (default: origin)")
	_ = transformRotateCmd.MarkFlagRequired("angle")

	transformScaleCmd.Flags().Float64Var(&scaleFactor, "factor", 0, "Uniform scale factor (required)")
	transformScaleCmd.Flags().Float64SliceVar(&scaleCenter, "center", nil, "Scale center as x,y,z (default: origin)")
	_ = transformScaleCmd.MarkFlagRequired("factor")

	transformMirrorCmd.Flags().StringVar(&mirrorPlane, "plane", "xy", "Mirror plane: xy, yz or xz")

	transformCmd.AddCommand(transformMoveCmd)
	transformCmd.AddCommand(transformRotateCmd)
	transformCmd.AddCommand(transformScaleCmd)
	transformCmd.AddCommand(transformMirrorCmd)
	rootCmd.AddCommand(transformCmd)
}
