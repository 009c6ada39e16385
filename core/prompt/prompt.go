package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when input ends before a valid answer is read.
var ErrNoInput = errors.New("no answer on input")

// Confirmer asks a yes/no question and blocks until it is answered.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Terminal reads single-character y/n answers line by line, re-prompting on
// anything else.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a confirmer reading from in and prompting on out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm prints question and returns true for "y", false for "n".
func (t *Terminal) Confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s (y/n): ", question)

	for {
		line, err := t.in.ReadString('\n')
		answer := strings.TrimRight(line, "\r\n")

		switch answer {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, ErrNoInput
			}
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		fmt.Fprint(t.out, "Incorrect input. Type 'y' or 'n': ")
	}
}

// AutoYes confirms every question without reading input.
type AutoYes struct {
	out io.Writer
}

// NewAutoYes returns a confirmer that always answers yes and notes it on out.
func NewAutoYes(out io.Writer) *AutoYes {
	return &AutoYes{out: out}
}

// Confirm always returns true.
func (a *AutoYes) Confirm(question string) (bool, error) {
	fmt.Fprintf(a.out, "%s (y/n): y (auto-confirmed via --yes)\n", question)
	return true, nil
}
