// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"modelbridge/cli/internal/config"
	"modelbridge/cli/internal/keychain"
	"modelbridge/cli/internal/terminal"
)

var (
	configureHost      string
	configurePort      int
	configureTimeout   int
	configureRenderURL string
	configureAPIKey    bool
)

// configureCmd writes the config file and optionally stores the render API
// key in the OS keychain. Flags override the current values; anything not
// given keeps its previous setting.
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set plugin endpoint, render server URL and API key",
	Long: `The configure command updates the configuration file in the XDG config
directory. Non-secret settings (plugin host/port/timeout, render server URL)
go to the file; the render server API key, when requested with --api-key, is
prompted for and stored only in the OS keychain.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("host") {
			cfg.Plugin.Host = configureHost
		}
		if cmd.Flags().Changed("port") {
			if configurePort <= 0 || configurePort > 65535 {
				return fmt.Errorf("--port must be in 1..65535, got %d", configurePort)
			}
			cfg.Plugin.Port = configurePort
		}
		if cmd.Flags().Changed("timeout") {
			if configureTimeout <= 0 {
				return fmt.Errorf("--timeout must be positive, got %d", configureTimeout)
			}
			cfg.Plugin.TimeoutSeconds = configureTimeout
		}
		if cmd.Flags().Changed("render-url") {
			cfg.RenderURL = strings.TrimRight(configureRenderURL, "/")
		}

		if err := config.Save(cfg); err != nil {
			return err
		}
		pterm.Println("✅ Configuration saved")
		pterm.Println("   plugin " + cfg.Plugin.Host + ":" + strconv.Itoa(cfg.Plugin.Port) + ", render " + cfg.RenderURL)

		if configureAPIKey {
			return promptAndStoreAPIKey()
		}
		return nil
	},
}

// promptAndStoreAPIKey reads the key from stdin, wipes it from the terminal
// and stores it in the OS keychain.
func promptAndStoreAPIKey() error {
	reader := bufio.NewReader(os.Stdin)
	promptText := "Enter render server API key: "
	fmt.Print(promptText)
	key, _ := reader.ReadString('\n')
	key = strings.TrimSpace(key)

	// Clear the prompt and user input from terminal
	terminal.ClearPreviousLines(len(promptText) + len(key))

	if key == "" {
		return fmt.Errorf("API key is required")
	}

	km, err := keychain.GetManager()
	if err != nil {
		pterm.Println("❌ Secure storage is not available on this system.")
		pterm.Println("   Keychain is only supported on macOS and Windows.")
		return err
	}
	if err := km.SaveRenderAPIKey(key); err != nil {
		pterm.Println("❌ Failed to save the API key securely.")
		return err
	}

	pterm.Println("✅ API key stored in the OS keychain")
	return nil
}

func init() {
	configureCmd.Flags().StringVar(&configureHost, "host", config.DefaultHost, "Modeling plugin host")
	configureCmd.Flags().IntVar(&configurePort, "port", config.DefaultPort, "Modeling plugin TCP port")
	configureCmd.Flags().IntVar(&configureTimeout, "timeout", config.DefaultTimeoutSeconds, "Socket timeout in seconds")
	configureCmd.Flags().StringVar(&configureRenderURL, "render-url", config.DefaultRenderURL, "Image-generation server base URL")
	configureCmd.Flags().BoolVar(&configureAPIKey, "api-key", false, "Prompt for the render server API key and store it in the keychain")

	rootCmd.AddCommand(configureCmd)
}
