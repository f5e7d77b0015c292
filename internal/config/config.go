// Package config loads application configuration from an optional
// config file and THUMBMAN_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all settings for the server and the admin UI.
type Config struct {
	// Port the admin API server listens on.
	Port string `mapstructure:"port"`

	// DataDir holds the SQLite database; UploadsDir holds media files.
	DataDir    string `mapstructure:"data_dir"`
	UploadsDir string `mapstructure:"uploads_dir"`

	// ServerURL is where the admin UI reaches the server.
	ServerURL string `mapstructure:"server_url"`

	// EditBase prefixes content-item ids to form edit links.
	EditBase string `mapstructure:"edit_base"`

	Pexels PexelsConfig `mapstructure:"pexels"`
}

// PexelsConfig controls the provider client.
type PexelsConfig struct {
	// BaseURL overrides the public API endpoint, mainly for tests.
	BaseURL string `mapstructure:"base_url"`

	// PerPage is the number of results requested per search.
	PerPage int `mapstructure:"per_page"`
}

// Load reads configuration from config.yaml in the given path (or the
// working directory) and from the environment.
func Load(path string) (Config, error) {
	if path != "" {
		viper.AddConfigPath(path)
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("THUMBMAN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("port", "8888")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("uploads_dir", "")
	viper.SetDefault("server_url", "http://localhost:8888")
	viper.SetDefault("edit_base", "/edit?post=")
	viper.SetDefault("pexels.base_url", "")
	viper.SetDefault("pexels.per_page", 10)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	return config, nil
}
