// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks frame outcomes and error rates for a decoding session.
// Not safe for concurrent use; update it from the goroutine that polls the
// decoder.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames    uint64 // every terminal ReadFrame outcome
	ValidFrames    uint64
	HeadErrors     uint64
	TailErrors     uint64
	DataErrors     uint64
	ChecksumErrors uint64
	SourceErrors   uint64
	NullTags       uint64 // all-zero ids, usually read artifacts

	// Rates (calculated)
	FrameRate float64 // valid frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records the outcome of one ReadFrame call. ErrWouldBlock is not a
// terminal outcome and must not be passed here.
func (s *Statistics) Update(id TagID, err error) {
	s.TotalFrames++
	s.LastUpdateTime = time.Now()

	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			switch de.Kind {
			case KindInvalidHead:
				s.HeadErrors++
			case KindInvalidTail:
				s.TailErrors++
			case KindInvalidData:
				s.DataErrors++
			case KindInvalidChecksum:
				s.ChecksumErrors++
			}
		} else {
			s.SourceErrors++
		}
		return
	}

	s.ValidFrames++
	if id.IsNull() {
		s.NullTags++
	}
}

// ErrorCount returns the total number of failed outcomes.
func (s *Statistics) ErrorCount() uint64 {
	return s.HeadErrors + s.TailErrors + s.DataErrors + s.ChecksumErrors + s.SourceErrors
}

// CalculateRates recomputes the per-second frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.ValidFrames) / elapsed
		s.ErrorRate = float64(s.ErrorCount()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Outcomes:  %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Tags:      %8d (%.1f%%)\n", s.ValidFrames, validPercent)

	if s.HeadErrors > 0 {
		result += fmt.Sprintf("Head Errors:     %8d\n", s.HeadErrors)
	}
	if s.TailErrors > 0 {
		result += fmt.Sprintf("Tail Errors:     %8d\n", s.TailErrors)
	}
	if s.DataErrors > 0 {
		result += fmt.Sprintf("Data Errors:     %8d\n", s.DataErrors)
	}
	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d\n", s.ChecksumErrors)
	}
	if s.SourceErrors > 0 {
		result += fmt.Sprintf("Source Errors:   %8d\n", s.SourceErrors)
	}
	if s.NullTags > 0 {
		result += fmt.Sprintf("Null Tags:       %8d\n", s.NullTags)
	}

	result += fmt.Sprintf("Tag Rate:        %8.1f tags/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalFrames = 0
	s.ValidFrames = 0
	s.HeadErrors = 0
	s.TailErrors = 0
	s.DataErrors = 0
	s.ChecksumErrors = 0
	s.SourceErrors = 0
	s.NullTags = 0
	s.FrameRate = 0
	s.ErrorRate = 0
}
