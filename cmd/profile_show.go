package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linyaa-kiwi/vk-tower/internal/vkxml"
)

var (
	profileShowStripOptionals bool
	profileShowTrim           bool
	profileShowNormalize      bool
)

var profileShowCmd = &cobra.Command{
	Use:   "profile:show <name>",
	Short: "Show the document that defines a profile",
	Long: `Print the profiles document that defines the named profile as JSON.

Transforms apply to the printed document in this order:

  --strip-optionals  remove the "optionals" field from every profile
  --trim             drop the profiles and capability sets the named
                     profile does not depend on
  --normalize        rewrite deprecated Vulkan names to their current
                     replacements, using the registry's vk.xml

Examples:
  vk-tower profile:show VP_KHR_roadmap_2022
  vk-tower profile:show VP_KHR_roadmap_2022 --trim --normalize`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileShow,
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := buildStore()
	if err != nil {
		return err
	}
	prof, err := store.Profile(name)
	if err != nil {
		return err
	}

	doc := prof.Doc()
	if profileShowStripOptionals {
		if err := doc.StripOptionals(); err != nil {
			return err
		}
	}
	if profileShowTrim {
		if err := doc.TrimToProfile(name); err != nil {
			return err
		}
	}

	tree, err := doc.Tree()
	if err != nil {
		return err
	}

	if profileShowNormalize {
		model, err := buildModel(store)
		if err != nil {
			return err
		}
		norm := vkxml.NewNormalizer(model, settings.Debug)
		tree, err = norm.NormalizeDeep(tree, "$")
		if err != nil {
			return err
		}
	}

	return newFormatter().Print(tree)
}

func init() {
	profileShowCmd.Flags().BoolVar(&profileShowStripOptionals, "strip-optionals", false,
		`remove the "optionals" field from every profile`)
	profileShowCmd.Flags().BoolVar(&profileShowTrim, "trim", false,
		"drop everything the named profile does not depend on")
	profileShowCmd.Flags().BoolVar(&profileShowNormalize, "normalize", false,
		"rewrite deprecated Vulkan names to their replacements")
	rootCmd.AddCommand(profileShowCmd)
}
