// Package strbuild implements the string-building sub-machine: a one-pass
// translator from a raw command-string argument to its expanded form,
// honoring TECO's in-line escapes for case folding, verbatim passthrough,
// register interpolation, and shell/glob quoting, per spec.md §4.2.
//
// Grounded on the teacher's lexString (the BASIC string-literal
// sub-scanner in lexer.go): both are small, self-contained state machines
// fed one rune/byte at a time by the outer scanner, returning either more
// expanded output or a completion signal.
package strbuild

import (
	"fmt"
	"strconv"
)

// RegisterSource is the minimal register access strbuild needs to resolve
// ^EQ/^EU/^E\/^E@/^E<n> interpolation escapes, kept as an interface to
// avoid a dependency on the concrete register.Table type.
type RegisterSource interface {
	GetString(name string, local bool) (string, error)
	GetInt(name string, local bool) (int64, error)
}

// Escaper resolves the shell-quote and glob-escape interpolation forms by
// delegating to the external collaborators spec.md §1 keeps out of core
// scope; strbuild only calls through this narrow seam.
type Escaper interface {
	ShellQuote(s string) string
	GlobEscape(s string, mode byte) string
}

type mode int

const (
	modePlain mode = iota
	modeCaretSeen   // saw a bare '^', next letter becomes a control code
	modeVerbatim    // ^Q/^R: copy the next byte with no interpretation
	modeNextLower   // ^V: next byte only, lower-cased
	modeNextUpper   // ^W: next byte only, upper-cased
	modeLatchLower  // ^V^V: lower-case every byte until ^W
	modeLatchUpper  // ^W^W: upper-case every byte until ^V
	modeEscSeen     // saw ^E, awaiting Q/U/\/@/digit
	modeEscReg      // collecting a register spec for the pending ^E form
)

// Builder is one string-building invocation: the state machine behind one
// TECO string argument.
type Builder struct {
	openDelim, closeDelim byte
	paired                bool
	depth                 int

	st        mode
	escForm   byte // 'Q', 'U', '\\', '@', or a glob-mode digit
	reg       *RegSpecParser
	source    RegisterSource
	escaper   Escaper
	radix     func() int64
}

// Options configures a Builder.
type Options struct {
	// OpenDelim/CloseDelim are the terminator pair. For the default
	// unpaired ESC terminator, set both to the same byte (27) and leave
	// Paired false.
	OpenDelim, CloseDelim byte
	Paired                bool
	Source                RegisterSource
	Escaper               Escaper
	Radix                 func() int64
}

// New returns a Builder configured by opts.
func New(opts Options) *Builder {
	return &Builder{
		openDelim:  opts.OpenDelim,
		closeDelim: opts.CloseDelim,
		paired:     opts.Paired,
		source:     opts.Source,
		escaper:    opts.Escaper,
		radix:      opts.Radix,
	}
}

// Feed consumes one raw input byte and returns any expanded output bytes
// it produced. done is true once the terminator has been consumed at
// nesting depth zero, per spec.md §4.2.
func (b *Builder) Feed(ch byte) (out []byte, done bool, err error) {
	switch b.st {
	case modeVerbatim:
		b.st = modePlain
		return []byte{ch}, false, nil

	case modeNextLower:
		if ch == 0x16 { // ^V^V: latch lower-case until ^W
			b.st = modeLatchLower
			return nil, false, nil
		}
		b.st = modePlain
		return []byte{toLower(ch)}, false, nil

	case modeNextUpper:
		if ch == 0x17 { // ^W^W: latch upper-case until ^V
			b.st = modeLatchUpper
			return nil, false, nil
		}
		b.st = modePlain
		return []byte{toUpper(ch)}, false, nil

	case modeCaretSeen:
		b.st = modePlain
		return []byte{toControl(ch)}, false, nil

	case modeEscSeen:
		return b.feedEscForm(ch)

	case modeEscReg:
		if b.reg.Feed(ch) {
			name, local := b.reg.Name(), b.reg.Local()
			b.st = modePlain
			expanded, err := b.resolveReg(name, local)
			return expanded, false, err
		}
		return nil, false, nil
	}

	// modePlain, modeLatchLower, modeLatchUpper fall through to here.

	if b.paired {
		if ch == b.openDelim {
			b.depth++
			return []byte{ch}, false, nil
		}
		if ch == b.closeDelim {
			if b.depth == 0 {
				return nil, true, nil
			}
			b.depth--
			return []byte{ch}, false, nil
		}
	} else if ch == b.closeDelim {
		return nil, true, nil
	}

	switch ch {
	case '^':
		b.st = modeCaretSeen
		return nil, false, nil
	case 0x16: // ^V: ends an upper latch, is a no-op inside a lower latch,
		// otherwise lower-cases just the next byte.
		switch b.st {
		case modeLatchUpper:
			b.st = modePlain
		case modeLatchLower:
			// already latched lower; nothing to do
		default:
			b.st = modeNextLower
		}
		return nil, false, nil
	case 0x17: // ^W: ends a lower latch, is a no-op inside an upper latch,
		// otherwise upper-cases just the next byte.
		switch b.st {
		case modeLatchLower:
			b.st = modePlain
		case modeLatchUpper:
			// already latched upper; nothing to do
		default:
			b.st = modeNextUpper
		}
		return nil, false, nil
	case 0x11, 0x12: // ^Q, ^R
		b.st = modeVerbatim
		return nil, false, nil
	case 0x05: // ^E
		b.st = modeEscSeen
		return nil, false, nil
	}

	switch b.st {
	case modeLatchLower:
		return []byte{toLower(ch)}, false, nil
	case modeLatchUpper:
		return []byte{toUpper(ch)}, false, nil
	default:
		return []byte{ch}, false, nil
	}
}

func (b *Builder) feedEscForm(ch byte) (out []byte, done bool, err error) {
	switch ch {
	case 'Q', 'U', '@':
		b.escForm = ch
		b.st = modeEscReg
		b.reg = NewRegSpecParser()
		return nil, false, nil
	case '\\':
		b.escForm = '\\'
		b.st = modeEscReg
		b.reg = NewRegSpecParser()
		return nil, false, nil
	default:
		if ch >= '0' && ch <= '9' {
			b.escForm = ch
			b.st = modeEscReg
			b.reg = NewRegSpecParser()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("strbuild: unrecognized ^E form %q", ch)
	}
}

func (b *Builder) resolveReg(name string, local bool) ([]byte, error) {
	switch b.escForm {
	case 'Q':
		s, err := b.source.GetString(name, local)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case 'U':
		n, err := b.source.GetInt(name, local)
		if err != nil {
			return nil, err
		}
		return []byte{byte(n)}, nil
	case '\\':
		n, err := b.source.GetInt(name, local)
		if err != nil {
			return nil, err
		}
		radix := int64(10)
		if b.radix != nil {
			radix = b.radix()
		}
		return []byte(strconv.FormatInt(n, int(radix))), nil
	case '@':
		s, err := b.source.GetString(name, local)
		if err != nil {
			return nil, err
		}
		if b.escaper != nil {
			s = b.escaper.ShellQuote(s)
		}
		return []byte(s), nil
	default: // glob-escape, b.escForm holds the mode digit
		s, err := b.source.GetString(name, local)
		if err != nil {
			return nil, err
		}
		if b.escaper != nil {
			s = b.escaper.GlobEscape(s, b.escForm)
		}
		return []byte(s), nil
	}
}

func toLower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}

func toUpper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - ('a' - 'A')
	}
	return ch
}

func toControl(ch byte) byte {
	return toUpper(ch) & 0x1F
}
