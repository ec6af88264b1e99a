// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quartzmill/rdmscan/pkg/rdm6300"
)

// Event log entry
type logEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Last-read tag, with a repeat counter while the card sits on the antenna
type lastTag struct {
	id    rdm6300.TagID
	seen  time.Time
	count int
}

// Messages
type tickMsg time.Time
type scanMsg outcome
type syncMsg struct {
	invalidBytes int
}

// TUI model
type diagnoseModel struct {
	connInfo      string
	showAll       bool
	stats         *rdm6300.Statistics
	eventLog      []logEntry
	maxLogEntries int
	logView       viewport.Model
	last          *lastTag
	synchronized  bool
	invalidBytes  int
	width         int
	height        int
	quitting      bool
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func newDiagnoseModel(connInfo string, showAll bool) diagnoseModel {
	return diagnoseModel{
		connInfo:      connInfo,
		showAll:       showAll,
		stats:         rdm6300.NewStatistics(),
		eventLog:      make([]logEntry, 0),
		maxLogEntries: 200,
		logView:       viewport.New(80, 10),
		width:         80,
		height:        24,
	}
}

func (m diagnoseModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m diagnoseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.stats.Reset()
			return m, nil
		}
		// Scrollback in the event log
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLog()

	case tickMsg:
		m.stats.CalculateRates()
		return m, tickCmd()

	case syncMsg:
		m.synchronized = true
		m.invalidBytes = msg.invalidBytes
		if msg.invalidBytes > 0 {
			m.addLogEntry(fmt.Sprintf("Synchronized after skipping %d invalid bytes", msg.invalidBytes), false)
		} else {
			m.addLogEntry("Synchronized", false)
		}

	case scanMsg:
		m.applyOutcome(outcome(msg))
	}

	return m, nil
}

func (m *diagnoseModel) applyOutcome(o outcome) {
	if o.err != nil {
		// Pre-sync decode errors were already filtered by the reader.
		m.stats.Update(o.id, o.err)
		if errors.Is(o.err, ErrConnectionClosed) {
			m.addLogEntry("Connection closed", true)
			return
		}
		m.addLogEntry(o.err.Error(), true)
		return
	}

	m.stats.Update(o.id, nil)

	if m.last != nil && m.last.id == o.id {
		m.last.count++
		m.last.seen = time.Now()
	} else {
		m.last = &lastTag{id: o.id, seen: time.Now(), count: 1}
		if m.showAll || o.id.IsNull() {
			msg := fmt.Sprintf("TAG %s card=%010d", o.id, o.id.CardNumber())
			if o.id.IsNull() {
				msg += " (null id, read artifact?)"
			}
			m.addLogEntry(msg, false)
		}
	}
}

func (m *diagnoseModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, logEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
	m.refreshLog()
}

func (m *diagnoseModel) resizeLog() {
	logHeight := m.height - 14 // header, stats, and last-tag boxes above
	if logHeight < 5 {
		logHeight = 5
	}
	m.logView.Width = m.width - 6
	m.logView.Height = logHeight
	m.refreshLog()
}

func (m *diagnoseModel) refreshLog() {
	if len(m.eventLog) == 0 {
		m.logView.SetContent(headerStyle.Render("(no events yet)"))
		return
	}

	var b strings.Builder
	for _, entry := range m.eventLog {
		timestamp := headerStyle.Render(entry.timestamp.Format("15:04:05.000"))
		if entry.isError {
			b.WriteString(fmt.Sprintf("%s %s\n", timestamp, errorStyle.Render("✗ "+entry.message)))
		} else {
			b.WriteString(fmt.Sprintf("%s %s\n", timestamp, valueStyle.Render("● "+entry.message)))
		}
	}
	m.logView.SetContent(b.String())
	m.logView.GotoBottom()
}

func (m diagnoseModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Header
	s.WriteString(titleStyle.Render("RDMSCAN - LINK DIAGNOSTICS"))
	s.WriteString("\n")
	mode := "Errors only"
	if m.showAll {
		mode = "All reads"
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | 'r' reset stats, 'q' quit", m.connInfo, mode)))
	s.WriteString("\n\n")

	// Sync status
	if !m.synchronized {
		s.WriteString(warningStyle.Render("⏳ Waiting for first valid tag..."))
		s.WriteString("\n\n")
	} else {
		s.WriteString(valueStyle.Render("✓ Synchronized"))
		if m.invalidBytes > 0 {
			s.WriteString(headerStyle.Render(fmt.Sprintf(" (skipped %d invalid bytes)", m.invalidBytes)))
		}
		s.WriteString("\n\n")
	}

	// Statistics
	s.WriteString(boxStyle.Render(m.statsContent()))
	s.WriteString("\n\n")

	// Last tag
	if m.last != nil {
		tag := strings.Builder{}
		tag.WriteString(fmt.Sprintf("%s %s   %s %s   %s 0x%02X\n",
			labelStyle.Render("Tag:"), valueStyle.Render(m.last.id.String()),
			labelStyle.Render("Card:"), valueStyle.Render(fmt.Sprintf("%010d", m.last.id.CardNumber())),
			labelStyle.Render("Version:"), m.last.id.Version(),
		))
		tag.WriteString(fmt.Sprintf("%s %s   %s %d",
			labelStyle.Render("Seen:"), valueStyle.Render(m.last.seen.Format("15:04:05.000")),
			labelStyle.Render("Repeats:"), m.last.count,
		))
		s.WriteString(boxStyle.Render(tag.String()))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Width(m.width - 4).Render(m.logView.View()))

	return s.String()
}

func (m diagnoseModel) statsContent() string {
	m.stats.CalculateRates()

	var validPercent, errorPercent float64
	if m.stats.TotalFrames > 0 {
		validPercent = float64(m.stats.ValidFrames) * 100.0 / float64(m.stats.TotalFrames)
		errorPercent = float64(m.stats.ErrorCount()) * 100.0 / float64(m.stats.TotalFrames)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidFrames, validPercent)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ErrorCount(), errorPercent)),
	))

	if m.stats.HeadErrors > 0 || m.stats.TailErrors > 0 {
		b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Head Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.HeadErrors)),
			labelStyle.Render("Tail Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.TailErrors)),
		))
	}
	if m.stats.DataErrors > 0 || m.stats.ChecksumErrors > 0 {
		b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Data Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.DataErrors)),
			labelStyle.Render("Checksum Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.ChecksumErrors)),
		))
	}
	if m.stats.SourceErrors > 0 || m.stats.NullTags > 0 {
		b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Source Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.SourceErrors)),
			labelStyle.Render("Null Tags:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.NullTags)),
		))
	}

	b.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Tag Rate:"), valueStyle.Render(fmt.Sprintf("%.1f tags/s", m.stats.FrameRate)),
		labelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return valueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	return b.String()
}
