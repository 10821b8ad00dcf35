package cli

import (
	"fmt"
	"os"

	"github.com/nmarceau/devine/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Devine configuration",
	Long: `Manage Devine configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (DEVINE_*)
3. Config file (~/.devine/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.devine/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.devine"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'devine config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := "# Devine configuration file\n" +
			"#\n" +
			"# Configuration hierarchy (highest to lowest priority):\n" +
			"#   1. CLI flags\n" +
			"#   2. Environment variables (DEVINE_*, OPENAI_API_KEY)\n" +
			"#   3. This config file\n" +
			"#   4. Built-in defaults\n\n"

		if err := os.WriteFile(configPath, append([]byte(header), yamlData...), 0644); err != nil {
			return fmt.Errorf("error writing config file: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nSet your API key for the generative oracle:\n")
		fmt.Printf("  export OPENAI_API_KEY=sk-...\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
