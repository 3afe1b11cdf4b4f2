// Package notify implements the reminder loop: during a configured weekly
// window it pings every chat with a goal row, once per window, asking for the
// day's report.
//
// The window lives in the settings table under the "Интервал уведомлений" key
// as "days_start_end": a semicolon-joined list of ISO weekday numbers, then
// the opening and closing wall-clock times. The next settings column carries
// the reminder text itself, so operators edit both in one place.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is a parsed weekly notification window plus the message it delivers.
type Window struct {
	Days    map[int]bool // ISO weekday numbers, 1=Monday .. 7=Sunday
	Start   int          // minutes since midnight, inclusive
	End     int          // minutes since midnight, exclusive
	Message string
}

// ParseWindow parses a "days_start_end" spec, e.g. "1;2;3;4;5_09:00_18:00".
func ParseWindow(spec, message string) (Window, error) {
	parts := strings.Split(spec, "_")
	if len(parts) != 3 {
		return Window{}, fmt.Errorf("window spec %q: want days_start_end", spec)
	}
	w := Window{Days: make(map[int]bool), Message: message}
	for _, d := range strings.Split(parts[0], ";") {
		n, err := strconv.Atoi(strings.TrimSpace(d))
		if err != nil || n < 1 || n > 7 {
			return Window{}, fmt.Errorf("window spec %q: bad weekday %q", spec, d)
		}
		w.Days[n] = true
	}
	var err error
	if w.Start, err = parseClock(parts[1]); err != nil {
		return Window{}, fmt.Errorf("window spec %q: %w", spec, err)
	}
	if w.End, err = parseClock(parts[2]); err != nil {
		return Window{}, fmt.Errorf("window spec %q: %w", spec, err)
	}
	if w.End <= w.Start {
		return Window{}, fmt.Errorf("window spec %q: end before start", spec)
	}
	return w, nil
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// isoWeekday maps Go's Sunday-based weekday to ISO numbering.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Days[isoWeekday(t.Weekday())] {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start && m < w.End
}

// OpensAt returns the window's opening instant on t's calendar day. It is the
// dedup cutoff: a chat reminded after this instant is not reminded again.
func (w Window) OpensAt(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), w.Start/60, w.Start%60, 0, 0, t.Location())
}
