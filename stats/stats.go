// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

// Package stats formats the end-of-request summary line the CLI prints
// after a prompt completes: model, provider, cost, timing.
package stats

import (
	"fmt"
	"strings"
	"time"
)

// Stats is the end-of-request summary, grounded on
// original_source/src/common/stats.rs's Stats struct.
type Stats struct {
	UsedModel           string
	Provider            string
	CostInCents         float64
	ElapsedTime         time.Duration
	TimeToFirstToken    time.Duration
	InterTokenLatencyMs int64
}

// String renders the one-line summary the CLI prints after a non-quiet
// request, in the same field order as as_string() in stats.rs.
func (s Stats) String() string {
	var b strings.Builder
	b.WriteString(s.UsedModel)
	b.WriteString(" at ")
	b.WriteString(s.Provider)
	b.WriteString(". ")
	fmt.Fprintf(&b, "%.4f", s.CostInCents)
	b.WriteString(" cents. ")
	b.WriteString(FormatDuration(s.ElapsedTime))
	b.WriteString(" (")
	b.WriteString(FormatDuration(s.TimeToFirstToken))
	b.WriteString(" TTFT, ")
	fmt.Fprintf(&b, "%d", s.InterTokenLatencyMs)
	b.WriteString("ms ITL)")
	return b.String()
}

// FormatDuration renders a duration as minutes, seconds and milliseconds,
// e.g. "3m12s", "5s", "1.2s", "400ms", "12m", or "0ms" for zero. Ported
// directly from original_source/src/common/stats.rs's format_duration.
func FormatDuration(d time.Duration) string {
	totalMillis := d.Milliseconds()
	minutes := totalMillis / 60000
	seconds := (totalMillis % 60000) / 1000
	milliseconds := totalMillis % 1000

	var b strings.Builder

	if minutes > 0 {
		fmt.Fprintf(&b, "%dm", minutes)
	}

	if seconds > 0 {
		if seconds <= 2 {
			fmt.Fprintf(&b, "%d.%ds", seconds, milliseconds/100)
		} else {
			fmt.Fprintf(&b, "%ds", seconds)
		}
	}

	if milliseconds > 0 && minutes == 0 && seconds == 0 {
		fmt.Fprintf(&b, "%dms", milliseconds)
	}

	if b.Len() == 0 {
		return "0ms"
	}
	return b.String()
}
