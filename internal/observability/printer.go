package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-assistant/internal/types"
)

const lineWidth = 76

// Printer renders transcript messages and interview results for the terminal
// session. It writes plain text; colors and layout belong to real UIs.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintMessage renders one transcript entry with a role prefix.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMessage(msg types.ChatMessage) {
	prefix := map[types.MessageType]string{
		types.MessageUser:   "you   ",
		types.MessageBot:    "bot   ",
		types.MessageSystem: "system",
	}[msg.Type]

	for i, line := range wrap(msg.Content, lineWidth-8) {
		if i == 0 {
			fmt.Fprintf(p.out, "[%s] %s\n", prefix, line)
		} else {
			fmt.Fprintf(p.out, "         %s\n", line)
		}
	}
}

// PrintResult renders the final score block for a completed candidate.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResult(c *types.Candidate) {
	border := strings.Repeat("─", lineWidth)
	fmt.Fprintln(p.out, border)
	fmt.Fprintf(p.out, "Candidate: %s\n", c.Name)
	fmt.Fprintf(p.out, "Final score: %d/100\n", c.Score)
	for _, line := range wrap(c.Summary, lineWidth) {
		fmt.Fprintln(p.out, line)
	}
	fmt.Fprintln(p.out, border)
}

// wrap splits text into lines at most width runes long, breaking on spaces.
func wrap(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}
