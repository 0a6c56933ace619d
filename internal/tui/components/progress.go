package components

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const defaultProgressWidth = 40

// Progress reports the advance of a long running operation. On a terminal it
// redraws a single bar line; otherwise it prints a line every tenth of the way.
type Progress struct {
	out     io.Writer
	bar     progress.Model
	tty     bool
	label   string
	lastPct int
	drawn   bool
}

// NewProgress creates a progress reporter writing to out.
func NewProgress(out io.Writer) *Progress {
	tty, width := terminal(out)
	barWidth := defaultProgressWidth
	if width > 0 {
		barWidth = min(defaultProgressWidth, max(width-40, 10))
	}
	return &Progress{
		out:     out,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		tty:     tty,
		lastPct: -1,
	}
}

// Update records done out of total for the stage named label.
func (p *Progress) Update(label string, done, total int) {
	if label != p.label {
		p.finishLine()
		p.label = label
		p.lastPct = -1
	}

	pct := 100
	if total > 0 {
		pct = min(done*100/total, 100)
	}
	counts := fmt.Sprintf("%s/%s", humanize.Comma(int64(done)), humanize.Comma(int64(total)))

	if p.tty {
		fmt.Fprintf(p.out, "\r%-8s %s %s", label, p.bar.ViewAs(float64(pct)/100), counts)
		p.drawn = true
		return
	}

	step := pct / 10
	if step == p.lastPct {
		return
	}
	p.lastPct = step
	fmt.Fprintf(p.out, "%s: %s (%d%%)\n", label, counts, pct)
}

// Done terminates the bar line.
func (p *Progress) Done() {
	p.finishLine()
	p.label = ""
}

func (p *Progress) finishLine() {
	if p.tty && p.drawn {
		fmt.Fprintln(p.out)
		p.drawn = false
	}
}

// terminal reports whether out is a terminal and its width.
func terminal(out io.Writer) (bool, int) {
	f, ok := out.(*os.File)
	if !ok {
		return false, 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, width
}
