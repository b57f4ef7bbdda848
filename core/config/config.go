package config

import (
	"reflect"
	"strings"

	"scribey-companion/core/client"
	"scribey-companion/core/journal"
	"scribey-companion/core/logger"
	"scribey-companion/core/server"
	"scribey-companion/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// WowConfig locates the game installation and the add-on's SavedVariables.
type WowConfig struct {
	// InstallPath is the World of Warcraft root directory. Empty means the
	// path comes from the user settings file instead.
	InstallPath string `mapstructure:"install_path" default:""`
	// AddonFile is the SavedVariables file name to watch.
	AddonFile string `mapstructure:"addon_file" default:"Scribey.lua"`
	// TableName is the saved-variables global holding the add-on data.
	TableName string `mapstructure:"table_name" default:"ScribeyDB"`
}

// SettingsConfig locates the user-editable settings file.
type SettingsConfig struct {
	// Path is the settings file location.
	Path string `mapstructure:"path" default:"scribey-settings.yaml"`
}

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the local HTTP API.
	Server server.Config `mapstructure:"server"`
	// Wow holds the game installation settings.
	Wow WowConfig `mapstructure:"wow"`
	// Upload holds configuration for the Scribey web service client.
	Upload client.Config `mapstructure:"upload"`
	// Journal holds configuration for the durable queue store.
	Journal journal.Config `mapstructure:"journal"`
	// Archive holds configuration for the raw-capture object storage.
	Archive storage.Config `mapstructure:"archive"`
	// Settings holds the user settings file location.
	Settings SettingsConfig `mapstructure:"settings"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
