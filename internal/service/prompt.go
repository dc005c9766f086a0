package service

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StdinPrompter reads prompt answers line by line from a reader, echoing
// the label to out first.
type StdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinPrompter creates a prompter over the given streams.
func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{in: bufio.NewReader(in), out: out}
}

// Prompt prints the label and returns the next line, trimmed.
func (p *StdinPrompter) Prompt(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
