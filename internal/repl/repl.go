// Package repl is the interactive read-eval-print loop. One logical
// input may span several physical lines; continuation is driven by
// brace depth and by trailing characters that cannot end a statement.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/termfx/lithium/internal/config"
	"github.com/termfx/lithium/internal/diag"
	"github.com/termfx/lithium/internal/interp"
	"github.com/termfx/lithium/internal/parser"
	"github.com/termfx/lithium/internal/sema"
	"github.com/termfx/lithium/internal/source"
)

// Sentinel is the input that leaves the shell.
const Sentinel = "exit"

const (
	prompt     = "> "
	contPrompt = "| "
)

// Shell runs parse → check → evaluate per logical input against one
// long-lived interpreter, so bindings persist across inputs.
type Shell struct {
	sources  *source.Map
	reporter *diag.Reporter
	interp   *interp.Interp
	cfg      *config.Config
}

// New returns a shell around an existing interpreter instance.
func New(sources *source.Map, reporter *diag.Reporter, it *interp.Interp, cfg *config.Config) *Shell {
	return &Shell{sources: sources, reporter: reporter, interp: it, cfg: cfg}
}

// Run prints the banner and loops until the exit sentinel, EOF, or an
// exit() call; it returns the process exit status.
func (s *Shell) Run(out io.Writer) (int, error) {
	fmt.Fprintf(out, "lithium v%s type '%s' to quit.\n", interp.Version, Sentinel)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     s.cfg.HistoryFile,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return 1, fmt.Errorf("initializing line editor: %w", err)
	}
	defer rl.Close()

	for {
		input, readErr := ReadLogicalInput(func(first bool) (string, error) {
			if first {
				rl.SetPrompt(prompt)
			} else {
				rl.SetPrompt(contPrompt)
			}
			return rl.Readline()
		})
		if readErr != nil {
			if errors.Is(readErr, readline.ErrInterrupt) {
				continue
			}
			return 0, nil // EOF quits like the sentinel
		}
		if input == Sentinel {
			return 0, nil
		}

		if code, exited := s.evalInput(input); exited {
			return code, nil
		}
	}
}

// evalInput runs one logical input; exited is true when user code
// called exit.
func (s *Shell) evalInput(input string) (code int, exited bool) {
	// Each input is its own compilation unit for dedup purposes.
	s.reporter.Reset()

	file := s.sources.Add("cin", input)
	prog, ok := parser.New(s.reporter).Parse(file)
	if !ok {
		return 0, false
	}
	if !sema.New(s.reporter).Check(prog) {
		return 0, false
	}

	res := s.interp.Run(prog)
	if res.Exited {
		return res.Code, true
	}
	return 0, false
}

// ReadLogicalInput accumulates physical lines into one logical input.
// read receives whether this is the first line, for prompt selection.
// Accumulation continues while brace depth is positive or the last line
// ends with '{', '(', '[' or ','; blank lines are skipped; the exit
// sentinel is returned verbatim.
func ReadLogicalInput(read func(first bool) (string, error)) (string, error) {
	var input strings.Builder
	depth := 0

	for {
		part, err := read(input.Len() == 0)
		if err != nil {
			return "", err
		}
		if part == Sentinel && input.Len() == 0 {
			return Sentinel, nil
		}
		if part == "" {
			continue
		}

		for _, c := range part {
			switch c {
			case '{':
				depth++
			case '}':
				if depth > 0 {
					depth--
				}
			}
		}

		input.WriteString(part)
		input.WriteByte('\n')

		if depth == 0 && !Continues(part) {
			return input.String(), nil
		}
	}
}

// Continues reports whether a line's last character forces a
// continuation line.
func Continues(line string) bool {
	if line == "" {
		return false
	}
	switch line[len(line)-1] {
	case '{', '(', '[', ',':
		return true
	}
	return false
}
