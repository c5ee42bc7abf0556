// Package prompt provides the line-oriented input helpers the interactive
// browse flow is built on. The reader and writer are injected so tests can
// script a whole session.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/histbin/bvget/pkg/errors"
)

// Prompter reads answers from reader and writes prompts to writer.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// New creates a Prompter over the given reader and writer.
func New(reader *bufio.Reader, writer io.Writer) *Prompter {
	return &Prompter{reader: reader, writer: writer}
}

// Line prints a prompt and reads a single trimmed line of input. If EOF
// occurs after some input was read, the partial line is returned.
func (p *Prompter) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", errors.Wrap(errors.ErrInputClosed, err.Error())
	}
	return strings.TrimSpace(line), nil
}

// Menu prints a numbered menu and reads a selection, re-prompting on
// non-numeric or out-of-range input. It returns the zero-based index of the
// chosen option.
func (p *Prompter) Menu(title string, options []string) (int, error) {
	if _, err := fmt.Fprintln(p.writer, title); err != nil {
		return 0, err
	}
	for i, option := range options {
		if _, err := fmt.Fprintf(p.writer, "  %d) %s\n", i+1, option); err != nil {
			return 0, err
		}
	}

	for {
		answer, err := p.Line(fmt.Sprintf("Select 1-%d", len(options)))
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(answer)
		if err != nil || choice < 1 || choice > len(options) {
			if _, err := fmt.Fprintf(p.writer, "Invalid selection %q\n", answer); err != nil {
				return 0, err
			}
			continue
		}
		return choice - 1, nil
	}
}

// Date prints a prompt and reads a YYYY-MM-DD date. An empty answer means
// the user skipped the question; ok is false in that case. Unparseable input
// re-prompts.
func (p *Prompter) Date(prompt string) (date time.Time, ok bool, err error) {
	for {
		answer, err := p.Line(prompt + " (YYYY-MM-DD, empty to skip)")
		if err != nil {
			return time.Time{}, false, err
		}
		if answer == "" {
			return time.Time{}, false, nil
		}
		parsed, err := time.Parse(time.DateOnly, answer)
		if err != nil {
			if _, err := fmt.Fprintf(p.writer, "Invalid date %q\n", answer); err != nil {
				return time.Time{}, false, err
			}
			continue
		}
		return parsed, true, nil
	}
}

// Confirm prints a yes/no prompt. Only "y" and "yes" (case-insensitive)
// count as confirmation.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Line(prompt + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
