package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linyaa-kiwi/vk-tower/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved config settings",
	Long: `Print the resolved config settings as JSON.

Path lists are printed in descending priority, so the first entry wins.

Examples:
  # Show the effective settings
  vk-tower config

  # Where do registry files come from?
  vk-tower config | jq '.registry_paths'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newFormatter().Print(settings.Porcelain())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "config:init",
	Short: "Write a default config file",
	Long: `Write a commented default config file.

The file is written to the path given with --config, or to
~/.config/vk-tower/config.yaml. An existing file is never overwritten.

Examples:
  # Create ~/.config/vk-tower/config.yaml
  vk-tower config:init

  # Create a config somewhere else
  vk-tower config:init --config /tmp/tower.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		cmd.Printf("created %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(configInitCmd)
}
