// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// fileConfig maps config.toml keys to connection defaults.
type fileConfig struct {
	Port     string `toml:"port"`
	Baud     int    `toml:"baud"`
	URL      string `toml:"url"`
	Username string `toml:"username"`
}

// defaultConfigPath returns ~/.config/rdmscan/config.toml, or empty when the
// home directory cannot be resolved.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rdmscan", "config.toml")
}

// loadFileConfig parses a TOML config file of connection defaults.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.Username = strings.TrimSpace(cfg.Username)
	if cfg.Baud < 0 {
		return fileConfig{}, fmt.Errorf("load config %s: negative baud rate %d", path, cfg.Baud)
	}
	return cfg, nil
}

// applyConfigDefaults backfills connection flags the user did not set from
// the config file. A missing default-location file is fine; a missing
// --config file is an error.
func applyConfigDefaults(cmd *cobra.Command, args []string) error {
	path := configFile
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return nil
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	flags := rootCmd.PersistentFlags()
	if cfg.Port != "" && !flags.Changed("port") {
		portName = cfg.Port
	}
	if cfg.Baud != 0 && !flags.Changed("baud") {
		baudRate = cfg.Baud
	}
	if cfg.URL != "" && !flags.Changed("url") {
		wsURL = cfg.URL
	}
	if cfg.Username != "" && !flags.Changed("username") {
		wsUsername = cfg.Username
	}
	return nil
}
