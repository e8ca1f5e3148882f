package cmd

import (
	"github.com/spf13/cobra"
)

var vkxmlDumpCmd = &cobra.Command{
	Use:   "vkxml:dump",
	Short: "Dump the model extracted from vk.xml",
	Long: `Print the model extracted from the registry's vk.xml as JSON: name
aliases, struct member limits, and struct layouts.

Examples:
  vk-tower vkxml:dump

  # Where does VK_KHR_maintenance1's struct live now?
  vk-tower vkxml:dump | jq '.aliases'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore()
		if err != nil {
			return err
		}
		model, err := buildModel(store)
		if err != nil {
			return err
		}
		return newFormatter().Print(model.PorcelainTree())
	},
}

func init() {
	rootCmd.AddCommand(vkxmlDumpCmd)
}
