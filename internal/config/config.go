// Package config loads recoder settings from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Clean CleanConfig
	Audit AuditConfig
}

// CleanConfig holds defaults for the cleaning run itself.
type CleanConfig struct {
	GroupRef  string
	SortBy    string
	Report    bool
	Normalize bool
}

// AuditConfig holds audit-log settings. An empty path disables auditing.
type AuditConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix
// RECODER_, e.g. RECODER_CLEAN_GROUPREF.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("clean.groupref", "3")
	v.SetDefault("clean.sortby", "")
	v.SetDefault("clean.report", false)
	v.SetDefault("clean.normalize", false)
	v.SetDefault("audit.path", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("RECODER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "recoder"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RECODER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
