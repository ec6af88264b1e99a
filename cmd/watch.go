// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quartzmill Labs

package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/quartzmill/rdmscan/pkg/rdm6300"
	"github.com/spf13/cobra"
)

var (
	watchFormat      string
	watchRepeatAfter time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously decode and display tag reads",
	Long: `Continuously decode and display RDM6300 tag frames as they arrive.

Each successful read is printed with timestamp, hex id, decimal card number,
and version byte. The RDM6300 re-emits the same frame for as long as a card
sits on the antenna; use --repeat-after to collapse those repeats into one
line per presentation.

Output formats:
  text   human-readable log lines (default)
  json   one JSON object per line, for piping into other tools
  cbor   concatenated CBOR maps with integer keys, for binary consumers

Supports both serial and WebSocket connections.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchFormat, "format", "text", "Output format: text, json, or cbor")
	watchCmd.Flags().DurationVar(&watchRepeatAfter, "repeat-after", 0, "Suppress repeats of the same tag within this window (0 = report every frame)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	switch watchFormat {
	case "text", "json", "cbor":
		// OK
	default:
		return fmt.Errorf("unknown format %q (use text, json, or cbor)", watchFormat)
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	if watchFormat == "text" {
		fmt.Printf("Rdmscan - Tag Watch\n")
		fmt.Printf("Connection: %s\n", connInfo)
		fmt.Printf("Press Ctrl+C to exit\n\n")
	}

	decoder := rdm6300.NewDecoder(newByteStream(conn))

	// Resync noise before the first valid frame is expected, not an error.
	synchronized := false
	invalidBytes := 0

	var lastID rdm6300.TagID
	var lastSeen time.Time

	for {
		id, err := decoder.ReadFrame()
		if err != nil {
			if errors.Is(err, rdm6300.ErrWouldBlock) {
				continue
			}
			var srcErr *rdm6300.SourceError
			if errors.As(err, &srcErr) {
				if errors.Is(err, ErrConnectionClosed) {
					log.Printf("Connection closed")
					return nil
				}
				log.Printf("Read error: %v", srcErr.Err)
				continue
			}
			if !synchronized {
				invalidBytes++
				continue
			}
			if watchFormat == "text" {
				fmt.Printf("[ERROR] %v\n", err)
			}
			continue
		}

		now := time.Now()
		if !synchronized {
			synchronized = true
			if invalidBytes > 0 && watchFormat == "text" {
				fmt.Printf("(skipped %d invalid bytes before sync)\n", invalidBytes)
			}
		}

		if watchRepeatAfter > 0 && id == lastID && now.Sub(lastSeen) < watchRepeatAfter {
			lastSeen = now
			continue
		}
		lastID, lastSeen = id, now

		switch watchFormat {
		case "json":
			line, err := rdm6300.NewTagEvent(id, now).EncodeJSON()
			if err != nil {
				log.Printf("Encode error: %v", err)
				continue
			}
			fmt.Println(string(line))
		case "cbor":
			blob, err := rdm6300.NewTagEvent(id, now).EncodeCBOR()
			if err != nil {
				log.Printf("Encode error: %v", err)
				continue
			}
			if _, err := os.Stdout.Write(blob); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
		default:
			fmt.Println(rdm6300.FormatTag(id, now))
		}
	}
}
