// Package render measures and wraps the message/status line the front
// end prints after each command line: error text, the current position
// report, and so on. Generalizes the teacher's p.cursorPos/zoneWidth
// column tracking (utils.go's basicPrint/curPrintPos), which assumed
// every byte occupies one terminal column, to runes that may be zero-
// or double-width under github.com/mattn/go-runewidth.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Width returns s's on-screen column width.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Wrap breaks s into lines no wider than cols columns, breaking at
// rune boundaries only (never mid-rune), the way the teacher's
// basicPrint pads out to a zone boundary rather than splitting mid-item.
func Wrap(s string, cols int) []string {
	if cols <= 0 {
		return []string{s}
	}
	var lines []string
	var cur strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > cols && cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			w = 0
		}
		cur.WriteRune(r)
		w += rw
	}
	if cur.Len() > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Pad right-pads s with spaces to exactly cols display columns, or
// truncates nothing (callers are responsible for ensuring s already
// fits) — used to align the message line to the terminal's full width
// the way the teacher's print-zone padding does in basicPrint.
func Pad(s string, cols int) string {
	w := Width(s)
	if w >= cols {
		return s
	}
	return s + strings.Repeat(" ", cols-w)
}
