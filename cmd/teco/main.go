// Command teco is the interactive/batch front door for the editor core.
// Structure mirrors the teacher's basic.go: init() wires the pieces that
// have to exist before the first command line is read (terminal checks,
// window geometry, the line editor); main() picks batch or interactive
// mode, and interactive mode starts the signal-handler goroutine and
// loops reading and running command lines until an exit flag is set.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	"github.com/danswartzendruber/liner"
	"golang.org/x/term"

	"github.com/dswartz/teco-core/internal/interp"
	"github.com/dswartz/teco-core/internal/render"
	"github.com/dswartz/teco-core/internal/widget/memwidget"
)

// minWindowCols mirrors the teacher's minWindowRows sanity check, renamed
// for the dimension that actually matters to a one-line message area.
const minWindowCols = 20

// window tracks terminal geometry the way the teacher's g.window does,
// refreshed on SIGWINCH.
type window struct {
	rows, cols int
}

var (
	g       window
	cmdLiner *liner.State
	current *interp.Interpreter
)

func init() {
	checkTerminal()
	setupWindow()
	cmdLiner = liner.NewLiner()
	cmdLiner.SetMultiLineMode(false)
}

func main() {
	defer cleanupLiner()

	flag.Parse()

	switch flag.NArg() {
	case 0:
		runInteractive()
	case 1:
		runBatch(flag.Arg(0))
	default:
		crash("usage: teco [macro-file]")
	}
}

func checkTerminal() {
	if !term.IsTerminal(0) {
		crash("standard input must be a terminal")
	}
	if !term.IsTerminal(1) {
		crash("standard output must be a terminal")
	}
}

func setupWindow() {
	rows, cols, err := term.GetSize(0)
	if err != nil {
		crash("unable to read terminal parameters")
	}
	if cols < minWindowCols {
		crash("terminal width must be >= 20 columns")
	}
	g.rows, g.cols = rows, cols
}

func cleanupLiner() {
	if cmdLiner != nil {
		cmdLiner.Close()
		cmdLiner = nil
	}
}

func crash(msg string) {
	cleanupLiner()
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}

// sigHdlr is the teacher's signal-handler goroutine, generalized from
// per-statement interrupt polling to the per-character poll the
// Executor performs, plus SIGWINCH re-reading terminal geometry, per
// spec.md §5.
func sigHdlr() {
	ch := make(chan os.Signal, 1)
	signal.Ignore(syscall.SIGTSTP)
	signal.Notify(ch, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGWINCH)

	for sig := range ch {
		switch sig {
		case syscall.SIGWINCH:
			if rows, cols, err := term.GetSize(0); err == nil {
				g.rows, g.cols = rows, cols
			}
		case syscall.SIGQUIT:
			writeGoroutineStacks()
		case syscall.SIGINT:
			if current != nil {
				current.SetInterrupted()
			}
		}
	}
}

func writeGoroutineStacks() {
	f, err := os.OpenFile("goroutine-stacks", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	_ = pprof.Lookup("goroutine").WriteTo(f, 2)
}

// runBatch executes a single macro file non-interactively, per spec.md
// §6's exit-code contract: 0 on clean exit, non-zero on uncaught error.
func runBatch(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		crash(err.Error())
	}

	it := interp.New(memwidget.New())
	it.BatchMode = true
	it.Journal.SetEnabled(false)
	current = it

	source, _ := filepath.Abs(path)
	if rerr := it.Run(source, data); rerr != nil {
		fmt.Fprintln(os.Stderr, rerr)
		os.Exit(1)
	}
	os.Exit(it.ExitCode)
}

// runInteractive is the teacher's `for !g.exiting { ... call(parser) ... }`
// loop, generalized from "parse and execute one BASIC-PLUS statement" to
// "read and run one TECO command line."
func runInteractive() {
	it := interp.New(memwidget.New())
	current = it

	seedEnvironment(it)

	go sigHdlr()

	fmt.Printf("teco-core ready (%dx%d)\n", g.rows, g.cols)

	for !it.Exiting {
		line, eof := readLine()
		if eof {
			it.Exiting = true
			break
		}
		runOnce(it, line)
	}
}

// runOnce executes one command line and reports any error the way the
// teacher's call(parser)/decodePanic does: roll back, print, reprompt.
// The undo journal already rolled the failing character back inside
// Execute; runOnce's job is just to surface the message and, on the
// '{'/'}' escape round trip, feed the saved line back through liner's
// history so the user can recall and continue editing it.
func runOnce(it *interp.Interpreter, line string) {
	it.SetCommandLine(line)

	if err := it.Run("<stdin>", []byte(line)); err != nil {
		msg := err.Error()
		for _, w := range render.Wrap(msg, g.cols) {
			fmt.Println(w)
		}
	}

	if replay := it.TakeEscapeForEdit(); replay != "" {
		cmdLiner.AppendHistory(replay)
	}
}

func readLine() (string, bool) {
	s, err := cmdLiner.Prompt("*")
	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", false
		}
		if err == io.EOF {
			return "", true
		}
		fmt.Fprintf(os.Stderr, "readLine error: %v\n", err)
		return "", true
	}
	cmdLiner.AppendHistory(s)
	return s, false
}

// seedEnvironment seeds the $HOME register from the process environment
// and the $ register from the current working directory, per spec.md
// §6: "HOME seeds the $HOME register; the directory register $ tracks
// the process CWD."
func seedEnvironment(it *interp.Interpreter) {
	home := it.Globals.Lookup("$HOME")
	_ = it.SeedRegisterString(home, os.Getenv("HOME"))

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	dir := it.Globals.Lookup("$")
	_ = it.SeedRegisterString(dir, cwd)
}
