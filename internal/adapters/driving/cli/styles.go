package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// reportStyles colour the text report. On a non-terminal writer or with
// --no-color every style renders plain text.
type reportStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	score   lipgloss.Style
	muted   lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	if noColor || !isTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}

	return reportStyles{
		title:   r.NewStyle().Bold(true),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		label:   r.NewStyle().Foreground(lipgloss.Color("252")),
		score:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
