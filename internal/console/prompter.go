package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const rule = "======================================================================"

// Prompter is a line-oriented reader/writer pair for interactive menus.
// All console input flows through it so flows can be driven by scripted
// readers in tests.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter wraps an input and output stream.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Printf writes formatted output.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Banner prints a titled section header.
func (p *Prompter) Banner(title string) {
	fmt.Fprintf(p.out, "\n%s\n   %s\n%s\n", rule, title, rule)
}

// Rule prints a horizontal separator line.
func (p *Prompter) Rule() {
	fmt.Fprintln(p.out, rule)
}

// Line prints a label and reads one trimmed line. It returns io.EOF when
// the input stream ends.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Int reads an integer, re-prompting on unparseable input until the stream
// ends.
func (p *Prompter) Int(label string) (int64, error) {
	for {
		line, err := p.Line(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			p.Printf("Invalid number, try again.\n")
			continue
		}
		return n, nil
	}
}

// Float reads a decimal number, re-prompting on unparseable input.
func (p *Prompter) Float(label string) (float64, error) {
	for {
		line, err := p.Line(label)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(line, 64)
		if err != nil {
			p.Printf("Invalid number, try again.\n")
			continue
		}
		return f, nil
	}
}

// Confirm asks a yes/no question. Only "y" or "yes" (any case) count as yes.
func (p *Prompter) Confirm(label string) (bool, error) {
	line, err := p.Line(label + " (y/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Pause waits for Enter before returning to the surrounding menu.
func (p *Prompter) Pause() {
	fmt.Fprint(p.out, "\nPress Enter to continue...")
	p.in.Scan()
}
