// Package main is the entry point for the modelbridge CLI application.
// It provides command-line access to a running 3D-modeling plugin over TCP
// and to an image-generation server over HTTP.
package main

import (
	"modelbridge/cli/cmd"
)

// main is the entry point for the modelbridge CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
