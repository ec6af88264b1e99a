// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quartzmill Labs

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Config file flag
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "rdmscan",
	Short: "RDM6300 RFID Reader Analyzer",
	Long: `Rdmscan - A CLI tool for monitoring and decoding RDM6300 RFID tag frames.

Provides commands for live tag logging, link diagnostics, connectivity
testing, and frame simulation for bench setups.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]

Default connection settings can be placed in ~/.config/rdmscan/config.toml;
command-line flags always win over the config file.

For WebSocket authentication, the password is read from the RDMSCAN_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.`,
	Version: "1.2.0",
}

func init() {
	rootCmd.PersistentPreRunE = applyConfigDefaults

	// Serial connection flags. The RDM6300 transmits at a fixed 9600 baud;
	// other rates exist for bridge hardware that re-clocks the stream.
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.config/rdmscan/config.toml)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
