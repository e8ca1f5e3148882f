package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linyaa-kiwi/vk-tower/internal/presentation"
	"github.com/linyaa-kiwi/vk-tower/internal/profile"
)

var profileListCmd = &cobra.Command{
	Use:   "profile:list",
	Short: "List the profiles defined in the registry",
	Long: `List every profile defined across the registry's profile files as JSON.

Profiles are listed in file order, then in document order within each
file. Each entry names the profile and the file that defines it.

Examples:
  # List all profiles
  vk-tower profile:list

  # Just the names
  vk-tower profile:list | jq -r '.[].name'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore()
		if err != nil {
			return err
		}
		var profiles []*profile.Profile
		for p, err := range store.Profiles() {
			if err != nil {
				return err
			}
			profiles = append(profiles, p)
		}
		return newFormatter().Print(presentation.FromProfiles(profiles))
	},
}

func init() {
	rootCmd.AddCommand(profileListCmd)
}
