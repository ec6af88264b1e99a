// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs
//
// rdmscan - RDM6300 RFID Reader Analyzer
//
// A CLI tool for monitoring RDM6300-class 125 kHz RFID readers over a
// serial link or WebSocket bridge, decoding tag frames in human- and
// machine-readable formats.

package main

import (
	"os"

	"github.com/quartzmill/rdmscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
