// Package config loads the settings of the vframe command: defaults,
// VFRAME_* environment variables and an optional vframe.yaml.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Keys of the settings.
const (
	KeyGPU             = "gpu"
	KeyStages          = "stages"
	KeyTargetLuminance = "target_luminance"
	KeyRequireCPU      = "require_cpu"
	KeyColorSpace      = "color_space"
	KeyColorRange      = "color_range"
	KeyBackground      = "background"
)

// New returns settings holding the defaults and bound to the environment.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyGPU, false)
	v.SetDefault(KeyStages, []string{})
	v.SetDefault(KeyTargetLuminance, 0.0)
	v.SetDefault(KeyRequireCPU, false)
	v.SetDefault(KeyColorSpace, "")
	v.SetDefault(KeyColorRange, "")
	v.SetDefault(KeyBackground, "#000000")

	// Environment variables
	v.SetEnvPrefix("VFRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads file into v. Without a file, vframe.yaml is looked up in the
// working directory and the user config directory; a missing file is not
// an error.
func Load(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config %s", file)
		}
		return nil
	}

	v.SetConfigName("vframe")
	v.SetConfigType("yaml")

	// Look for config in the following paths
	configPaths := []string{
		".",
		filepath.Join(xdg.ConfigHome, "vframe"),
	}
	for _, path := range configPaths {
		v.AddConfigPath(os.ExpandEnv(path))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return errors.Wrap(err, "failed to read config")
		}
		// Config file not found; ignore error and use defaults
	}
	return nil
}
