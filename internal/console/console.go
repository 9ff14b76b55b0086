package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const clearLine = "\r\033[K"

var (
	upStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	downStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	waitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Printer writes report lines. In live mode status updates overwrite each
// other on a single terminal line and permanent lines are printed above it;
// otherwise every update is its own line.
type Printer struct {
	out     io.Writer
	live    bool
	pending bool
}

func NewPrinter(out io.Writer, live bool) *Printer {
	return &Printer{out: out, live: live}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Live() bool { return p.live }

func (p *Printer) Writer() io.Writer { return p.out }

// Status shows a transient update.
func (p *Printer) Status(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if !p.live {
		fmt.Fprintln(p.out, line)
		return
	}
	fmt.Fprint(p.out, clearLine+line)
	p.pending = true
}

// Line prints a permanent line.
func (p *Printer) Line(format string, args ...any) {
	p.clear()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Block prints several permanent lines.
func (p *Printer) Block(lines []string) {
	p.clear()
	fmt.Fprintln(p.out, strings.Join(lines, "\n"))
}

// Done removes a pending transient line.
func (p *Printer) Done() {
	p.clear()
}

func (p *Printer) clear() {
	if p.pending {
		fmt.Fprint(p.out, clearLine)
		p.pending = false
	}
}

// Label styles a state label for a terminal. Plain text otherwise.
func (p *Printer) Label(label string) string {
	if !p.live {
		return label
	}
	switch label {
	case "UP", "OK":
		return upStyle.Render(label)
	case "DOWN", "FAIL":
		return downStyle.Render(label)
	default:
		return waitStyle.Render(label)
	}
}
