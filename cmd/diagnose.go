// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package cmd

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quartzmill/rdmscan/pkg/rdm6300"
	"github.com/spf13/cobra"
)

var (
	showAll       bool
	statsInterval int
	useTUI        bool
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Track frame errors and link statistics",
	Long: `Track decode errors and tag-read statistics for an RDM6300 link.

Every ReadFrame outcome is classified and counted:
  - Head/tail errors (framing problems, usually wiring or baud mismatch)
  - Data and checksum errors (corrupted frames, usually marginal antennas)
  - Source errors (the transport itself failed)
  - Null tags (all-zero ids, usually read artifacts)

By default only errors are displayed; use --show-all to log valid reads too.
Resync noise before the first valid tag is counted but not reported as
errors, since the stream can begin mid-frame.

Runs as a live terminal UI by default; use --tui=false for plain text with
periodic statistics summaries.`,
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	diagnoseCmd.Flags().BoolVar(&showAll, "show-all", false, "Show valid reads (not just errors)")
	diagnoseCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics summary interval in text mode (seconds)")
	diagnoseCmd.Flags().BoolVar(&useTUI, "tui", true, "Use terminal UI (false for text mode)")
}

// outcome is one terminal ReadFrame result, success or failure.
type outcome struct {
	id  rdm6300.TagID
	err error
}

// pollOutcomes drives the decoder and forwards every terminal outcome.
// ErrWouldBlock is skipped; a connection-closed source error ends the loop.
func pollOutcomes(decoder *rdm6300.Decoder, send func(outcome) bool) {
	for {
		id, err := decoder.ReadFrame()
		if errors.Is(err, rdm6300.ErrWouldBlock) {
			continue
		}
		if !send(outcome{id: id, err: err}) {
			return
		}
		if err != nil && errors.Is(err, ErrConnectionClosed) {
			return
		}
	}
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	decoder := rdm6300.NewDecoder(newByteStream(conn))

	if useTUI {
		return runDiagnoseTUI(decoder, connInfo)
	}
	return runDiagnoseText(decoder, connInfo)
}

// runDiagnoseTUI runs diagnostics in TUI mode
func runDiagnoseTUI(decoder *rdm6300.Decoder, connInfo string) error {
	m := newDiagnoseModel(connInfo, showAll)
	p := tea.NewProgram(m)

	// Reader goroutine feeding the TUI
	go func() {
		synchronized := false
		invalidBytes := 0
		pollOutcomes(decoder, func(o outcome) bool {
			if o.err != nil && !synchronized {
				var de *rdm6300.DecodeError
				if errors.As(o.err, &de) {
					invalidBytes++
					return true
				}
			}
			if o.err == nil && !synchronized {
				synchronized = true
				p.Send(syncMsg{invalidBytes: invalidBytes})
			}
			p.Send(scanMsg(o))
			return true
		})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runDiagnoseText runs diagnostics in plain text mode
func runDiagnoseText(decoder *rdm6300.Decoder, connInfo string) error {
	fmt.Printf("Rdmscan - Link Diagnostics\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All reads\n")
	} else {
		fmt.Printf("Mode: Errors only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stats := rdm6300.NewStatistics()

	outcomes := make(chan outcome, 16)
	go pollOutcomes(decoder, func(o outcome) bool {
		outcomes <- o
		return true
	})

	statsTicker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer statsTicker.Stop()

	synchronized := false
	invalidBytes := 0

	for {
		select {
		case o := <-outcomes:
			if o.err != nil {
				if errors.Is(o.err, ErrConnectionClosed) {
					fmt.Println("Connection closed")
					return nil
				}
				if !synchronized {
					var de *rdm6300.DecodeError
					if errors.As(o.err, &de) {
						invalidBytes++
						continue
					}
				}
				stats.Update(o.id, o.err)
				fmt.Println(rdm6300.FormatError(o.err, time.Now()))
				continue
			}

			if !synchronized {
				synchronized = true
				if invalidBytes > 0 {
					fmt.Printf("[SYNC] Synchronized after skipping %d invalid bytes\n\n", invalidBytes)
				} else {
					fmt.Printf("[SYNC] Synchronized\n\n")
				}
			}

			stats.Update(o.id, nil)
			if o.id.IsNull() {
				fmt.Println(rdm6300.FormatError(fmt.Errorf("null tag id (read artifact?)"), time.Now()))
			} else if showAll {
				fmt.Println(rdm6300.FormatTag(o.id, time.Now()))
			}

		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}
