// Package interaction is the operator-facing side of the interview: it reads
// answers and shows interviewer messages.
package interaction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/spigell/tech-interviewer/internal/interview"
)

const (
	interactivePrefix = "🤖 Interviewer: "
	plainPrefix       = "Interviewer: "
)

// Console implements interview.Console on top of a terminal or a plain stream.
type Console struct {
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewTerminal uses promptui when stdin is a terminal and plain line reads otherwise.
func NewTerminal(stdin *os.File, stdout io.Writer) *Console {
	c := NewPlain(stdin, stdout)
	c.interactive = term.IsTerminal(int(stdin.Fd()))
	return c
}

// NewPlain reads newline-terminated input from in. It never draws prompts.
func NewPlain(in io.Reader, out io.Writer) *Console {
	return &Console{reader: bufio.NewReader(in), out: out}
}

// Interactive reports whether promptui drives the input.
func (c *Console) Interactive() bool {
	return c.interactive
}

// ReadLine returns one line of operator input without the line terminator.
// Empty input is valid. End of input and Ctrl-C yield interview.ErrInterrupted.
func (c *Console) ReadLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if c.interactive {
		p := promptui.Prompt{Label: label}
		line, err := p.Run()
		if err != nil {
			return "", mapPromptError(err)
		}
		return line, nil
	}

	fmt.Fprintf(c.out, "%s: ", label)

	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: end of input", interview.ErrInterrupted)
		}
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Display shows an interviewer message.
func (c *Console) Display(text string) {
	prefix := plainPrefix
	if c.interactive {
		prefix = interactivePrefix
	}
	fmt.Fprintf(c.out, "\n%s%s\n\n", prefix, text)
}

// Printf writes free-form text, such as the final score.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func mapPromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return fmt.Errorf("%w: %v", interview.ErrInterrupted, err)
	}
	return err
}
