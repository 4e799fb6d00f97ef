package strbuild

import "testing"

type fakeSource struct {
	strings map[string]string
	ints    map[string]int64
}

func (f *fakeSource) GetString(name string, local bool) (string, error) {
	return f.strings[name], nil
}
func (f *fakeSource) GetInt(name string, local bool) (int64, error) {
	return f.ints[name], nil
}

type fakeEscaper struct{}

func (fakeEscaper) ShellQuote(s string) string        { return "'" + s + "'" }
func (fakeEscaper) GlobEscape(s string, mode byte) string { return "[" + s + "]" }

func feedAll(t *testing.T, b *Builder, s string) ([]byte, bool) {
	var out []byte
	for i := 0; i < len(s); i++ {
		chunk, done, err := b.Feed(s[i])
		if err != nil {
			t.Fatalf("Feed(%q) at %d: %v", s[i], i, err)
		}
		out = append(out, chunk...)
		if done {
			return out, true
		}
	}
	return out, false
}

func TestPlainTextPassesThrough(t *testing.T) {
	b := New(Options{OpenDelim: 27, CloseDelim: 27})
	out, done := feedAll(t, b, "hello\x1b")
	if !done {
		t.Fatal("expected done at the ESC terminator")
	}
	if string(out) != "hello" {
		t.Errorf("out = %q, want %q", out, "hello")
	}
}

func TestCaretEscapeProducesControlChar(t *testing.T) {
	b := New(Options{OpenDelim: 27, CloseDelim: 27})
	out, _ := feedAll(t, b, "^J\x1b")
	if len(out) != 1 || out[0] != 0x0A {
		t.Errorf("^J = %v, want [0x0A]", out)
	}
}

func TestUpperLowerLatch(t *testing.T) {
	b := New(Options{OpenDelim: 27, CloseDelim: 27})
	out, _ := feedAll(t, b, "\x16\x16ABC\x17\x1b")
	if string(out) != "abc" {
		t.Errorf("latched lower = %q, want %q", out, "abc")
	}
}

func TestVerbatimPassesCaretThrough(t *testing.T) {
	b := New(Options{OpenDelim: 27, CloseDelim: 27})
	out, _ := feedAll(t, b, "\x11^\x1b")
	if string(out) != "^" {
		t.Errorf("verbatim ^Q^ = %q, want %q", out, "^")
	}
}

func TestRegisterInterpolationQ(t *testing.T) {
	src := &fakeSource{strings: map[string]string{"A": "hi"}}
	b := New(Options{OpenDelim: 27, CloseDelim: 27, Source: src})
	out, _ := feedAll(t, b, "\x05QA\x1b")
	if string(out) != "hi" {
		t.Errorf("^EQA = %q, want %q", out, "hi")
	}
}

func TestRegisterInterpolationLocalName(t *testing.T) {
	src := &fakeSource{strings: map[string]string{"Z": "local-value"}}
	b := New(Options{OpenDelim: 27, CloseDelim: 27, Source: src})
	out, _ := feedAll(t, b, "\x05Q.Z\x1b")
	if string(out) != "local-value" {
		t.Errorf("^EQ.Z = %q, want %q", out, "local-value")
	}
}

func TestRegisterInterpolationShellQuote(t *testing.T) {
	src := &fakeSource{strings: map[string]string{"A": "a b"}}
	b := New(Options{OpenDelim: 27, CloseDelim: 27, Source: src, Escaper: fakeEscaper{}})
	out, _ := feedAll(t, b, "\x05@A\x1b")
	if string(out) != "'a b'" {
		t.Errorf("^E@A = %q, want %q", out, "'a b'")
	}
}

func TestPairedDelimiterNesting(t *testing.T) {
	b := New(Options{OpenDelim: '{', CloseDelim: '}', Paired: true})
	out, done := feedAll(t, b, "a{b}c}")
	if !done {
		t.Fatal("expected done at the outer close brace")
	}
	if string(out) != "a{b}c" {
		t.Errorf("out = %q, want %q", out, "a{b}c")
	}
}

func TestRegSpecParserHashForm(t *testing.T) {
	p := NewRegSpecParser()
	if p.Feed('#') {
		t.Fatal("'#' alone should not be done")
	}
	if p.Feed('A') {
		t.Fatal("'#A' should not be done yet")
	}
	if !p.Feed('B') {
		t.Fatal("'#AB' should be done")
	}
	if p.Name() != "AB" {
		t.Errorf("Name() = %q, want %q", p.Name(), "AB")
	}
	if p.Local() {
		t.Error("Local() should be false for a '#' spec")
	}
}

func TestRegSpecParserLocalForm(t *testing.T) {
	p := NewRegSpecParser()
	p.Feed('.')
	if !p.Feed('Q') {
		t.Fatal("'.Q' should be done")
	}
	if p.Name() != "Q" || !p.Local() {
		t.Errorf("Name()=%q Local()=%v, want Q, true", p.Name(), p.Local())
	}
}
