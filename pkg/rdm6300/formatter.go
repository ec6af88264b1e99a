// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"fmt"
	"time"
)

// FormatTag formats a successful read as the one-line log entry used by the
// CLI: timestamp, hex id, decimal card number, version byte.
func FormatTag(id TagID, when time.Time) string {
	return fmt.Sprintf("[%s] TAG %s card=%010d version=0x%02X",
		when.Format("15:04:05.000"), id, id.CardNumber(), id.Version())
}

// FormatError formats a frame or source error with a timestamp, matching the
// FormatTag layout so mixed logs stay aligned.
func FormatError(err error, when time.Time) string {
	return fmt.Sprintf("[%s] ERROR %v", when.Format("15:04:05.000"), err)
}
