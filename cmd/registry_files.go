package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linyaa-kiwi/vk-tower/internal/presentation"
)

var registryFilesAll bool

var registryFilesCmd = &cobra.Command{
	Use:   "registry:files",
	Short: "List the registry files",
	Long: `List the registry files found in the configured registry roots as JSON.

Files are keyed by (type, name). By default only the winning file per
key is listed: the one from the highest-priority root, ordered by type
and then by discovery. With --all every discovered file is listed in
raw discovery order, including files shadowed by higher-priority roots.

Examples:
  # List the effective registry files
  vk-tower registry:files

  # Include shadowed files
  vk-tower registry:files --all

  # Just the paths
  vk-tower registry:files | jq -r '.[].path'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}
		files := reg.Files()
		if registryFilesAll {
			files = reg.FilesAll()
		}
		return newFormatter().Print(presentation.FromRegistryFiles(files))
	},
}

func init() {
	registryFilesCmd.Flags().BoolVar(&registryFilesAll, "all", false,
		"include shadowed files, in discovery order")
	rootCmd.AddCommand(registryFilesCmd)
}
