package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linyaa-kiwi/vk-tower/internal/config"
	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/log"
	"github.com/linyaa-kiwi/vk-tower/internal/presentation"
	"github.com/linyaa-kiwi/vk-tower/internal/profile"
	"github.com/linyaa-kiwi/vk-tower/internal/registry"
	"github.com/linyaa-kiwi/vk-tower/internal/vkxml"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	cfgErr  error

	settings     config.Settings
	outputFormat jsontree.Format
)

var rootCmd = &cobra.Command{
	Use:   "vk-tower",
	Short: "Query the Vulkan profiles registry",
	Long: `vk-tower indexes the Vulkan registry files found in XDG data dirs (vk.xml,
profiles, profile schemas) and answers queries about them: which profiles
exist, what each profile requires, and how deprecated Vulkan names map to
their replacements.`,
	Version:           version,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/vk-tower/config.yaml)")
	rootCmd.PersistentFlags().StringP("format", "F", "",
		"output format: json, json5, or yaml")
	rootCmd.PersistentFlags().Bool("debug", false,
		"enable debug logging")
	rootCmd.PersistentFlags().StringArray("registry-path", nil,
		"extra registry root, searched before XDG roots (repeatable)")

	// Bind flags to viper
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("registry_paths", rootCmd.PersistentFlags().Lookup("registry-path"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("format", defaults.Format)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(filepath.Dir(config.DefaultConfigPath()))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Running without a config file is fine. A config file that
		// exists but fails to load is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			cfgErr = fmt.Errorf("reading config: %w", err)
			return
		}
	}

	cfgErr = viper.Unmarshal(&cfg)
}

// setup turns the unmarshaled config into resolved settings. It runs before
// every command.
func setup(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	settings = config.Resolve(cfg)

	format, err := jsontree.ParseFormat(settings.Format)
	if err != nil {
		return err
	}
	outputFormat = format

	if settings.Debug {
		log.SetEnabled(true)
		if settings.DebugFile != "" {
			cleanup, err := log.Init(settings.DebugFile)
			if err != nil {
				return fmt.Errorf("opening debug log: %w", err)
			}
			cobra.OnFinalize(cleanup)
		}
	}
	return nil
}

// newFormatter builds a formatter for the configured output format.
func newFormatter() *presentation.Formatter {
	return presentation.NewFormatter(os.Stdout, outputFormat)
}

// buildRegistry scans the configured registry roots, then adds the
// configured extra files, classified by filename suffix.
func buildRegistry() (*registry.Registry, error) {
	reg, err := registry.New(settings.RegistryPaths())
	if err != nil {
		return nil, err
	}
	for _, path := range settings.RegistryExtraFiles {
		if filepath.Ext(path) == ".xml" {
			err = reg.AddVkXMLFile(path)
		} else {
			err = reg.AddProfileFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("adding registry file %q: %w", path, err)
		}
	}
	return reg, nil
}

// buildStore builds a profile store over the configured registry.
func buildStore() (*profile.Store, error) {
	reg, err := buildRegistry()
	if err != nil {
		return nil, err
	}
	return profile.NewStore(reg), nil
}

// buildModel parses the registry's api description into an XML model.
func buildModel(store *profile.Store) (*vkxml.Model, error) {
	file, err := store.VkXMLFile()
	if err != nil {
		return nil, err
	}
	model := vkxml.NewModel()
	if err := model.AddFile(file.Path); err != nil {
		return nil, err
	}
	return model, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
