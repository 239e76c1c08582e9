package permission

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Static answers every request with the same decision. It is used for
// non-interactive runs where the user already consented on the command line.
type Static struct {
	Granted bool
}

// Request calls done with the configured decision.
func (s Static) Request(done func(granted bool)) {
	done(s.Granted)
}

// DefaultQuestion is the question asked by Prompt.
const DefaultQuestion = "Allow qrtitle to read the scan source?"

// Prompt asks the user on a terminal and reads a yes/no answer.
// Only "y" and "yes" (case-insensitive) grant permission; anything else,
// including EOF, denies it. The answer is read on a separate goroutine so
// Request returns immediately.
type Prompt struct {
	question string
	out      io.Writer

	mu sync.Mutex
	in *bufio.Reader
}

// NewPrompt creates a Prompt that writes the question to out and reads the
// answer from in. An empty question uses DefaultQuestion.
func NewPrompt(in io.Reader, out io.Writer, question string) *Prompt {
	if question == "" {
		question = DefaultQuestion
	}
	return &Prompt{
		question: question,
		out:      out,
		in:       bufio.NewReader(in),
	}
}

// Request writes the question and answers asynchronously.
func (p *Prompt) Request(done func(granted bool)) {
	go func() {
		done(p.ask())
	}()
}

// ask writes the question and reads one line.
func (p *Prompt) ask() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s [y/N] ", p.question)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return isYes(line)
}

// isYes reports whether answer is an affirmative reply.
func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
