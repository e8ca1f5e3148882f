package cmd

import (
	"github.com/spf13/cobra"
)

var profileDepsGlobal bool

var profileDepsCmd = &cobra.Command{
	Use:   "profile:deps <name>",
	Short: "Show a profile's dependencies",
	Long: `Print the named profile's dependencies as JSON.

By default the computation stays inside the profile's own document. The
result lists the profiles reachable through "profiles" references, the
capability sets they pull in, and the referenced profile names the
document does not define.

With --global, references are followed across every profile file in the
registry. The result maps each visited profile to its capability sets
and lists the profile names defined nowhere.

Examples:
  vk-tower profile:deps VP_KHR_roadmap_2022
  vk-tower profile:deps VP_KHR_roadmap_2022 --global
  vk-tower profile:deps VP_KHR_roadmap_2022 --global | jq '.undefined_profiles'`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileDeps,
}

func runProfileDeps(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := buildStore()
	if err != nil {
		return err
	}

	if profileDepsGlobal {
		deps, err := store.GlobalDeps(name)
		if err != nil {
			return err
		}
		return newFormatter().Print(deps.Porcelain())
	}

	prof, err := store.Profile(name)
	if err != nil {
		return err
	}
	deps, err := prof.Doc().InternalDeps(name)
	if err != nil {
		return err
	}
	return newFormatter().Print(deps.Porcelain())
}

func init() {
	profileDepsCmd.Flags().BoolVar(&profileDepsGlobal, "global", false,
		"follow references across every profile file in the registry")
	rootCmd.AddCommand(profileDepsCmd)
}
