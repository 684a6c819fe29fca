// Package tui provides an interactive browser for match reports.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/catmatch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/catmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// Filter selects which merge records the browser shows.
type Filter int

const (
	// FilterAll shows every merge record.
	FilterAll Filter = iota
	// FilterMatched shows records with at least one match.
	FilterMatched
	// FilterUnmatched shows records with no strong match.
	FilterUnmatched
)

// String returns the label shown in the status line.
func (f Filter) String() string {
	switch f {
	case FilterMatched:
		return "matched"
	case FilterUnmatched:
		return "unmatched"
	default:
		return "all"
	}
}

func (f Filter) next() Filter {
	return (f + 1) % 3
}

func (f Filter) accepts(r domain.MatchResult) bool {
	switch f {
	case FilterMatched:
		return r.HasMatch()
	case FilterUnmatched:
		return !r.HasMatch()
	default:
		return true
	}
}

const defaultWidth = 80

// Model is the report browser. It shows one merge record at a time
// together with its base matches.
type Model struct {
	report *domain.Report
	keys   *keymap.KeyMap
	styles *styles.Styles
	help   help.Model

	filter  Filter
	visible []int
	cursor  int

	width    int
	height   int
	quitting bool
}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// NewModel creates a browser over a completed report.
func NewModel(report *domain.Report) *Model {
	if report == nil {
		report = &domain.Report{}
	}
	m := &Model{
		report: report,
		keys:   keymap.DefaultKeyMap(),
		styles: styles.DefaultStyles(),
		help:   help.New(),
		width:  defaultWidth,
	}
	m.applyFilter(FilterAll)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("catmatch - " + m.report.Merge.Name)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Next):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Prev):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.First):
			m.cursor = 0
		case key.Matches(msg, m.keys.Last):
			m.cursor = max(len(m.visible)-1, 0)
		case key.Matches(msg, m.keys.Filter):
			m.applyFilter(m.filter.next())
		}
	}
	return m, nil
}

// applyFilter rebuilds the visible index list, keeping the cursor on the
// same merge record when it survives the filter.
func (m *Model) applyFilter(f Filter) {
	current := -1
	if m.cursor < len(m.visible) {
		current = m.visible[m.cursor]
	}

	m.filter = f
	m.visible = m.visible[:0]
	m.cursor = 0
	for i, r := range m.report.Results {
		if !f.accepts(r) {
			continue
		}
		if i == current {
			m.cursor = len(m.visible)
		}
		m.visible = append(m.visible, i)
	}
}

// Filter returns the active filter.
func (m *Model) Filter() Filter {
	return m.filter
}

// Selected returns the merge result under the cursor.
func (m *Model) Selected() (domain.MatchResult, bool) {
	if len(m.visible) == 0 {
		return domain.MatchResult{}, false
	}
	return m.report.Results[m.visible[m.cursor]], true
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("catmatch"))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %s vs %s  (model %s, top %d, threshold %.2f)",
		m.report.Base.Name, m.report.Merge.Name, m.report.Model,
		m.report.Options.TopK, m.report.Options.Threshold)))
	b.WriteString("\n\n")

	result, ok := m.Selected()
	if !ok {
		label := "No records to show."
		if m.filter != FilterAll {
			label = fmt.Sprintf("No %s records to show.", m.filter)
		}
		b.WriteString(m.styles.Muted.Render(label))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	fmt.Fprintf(&b, "%s  %s\n",
		m.styles.Subtitle.Render(fmt.Sprintf("Record %d of %d", m.cursor+1, len(m.visible))),
		m.styles.Muted.Render(fmt.Sprintf("filter: %s, %d of %d matched",
			m.filter, m.report.MatchedCount(), len(m.report.Results))))

	b.WriteString(m.styles.Panel.Render(m.recordBlock(result.Merge, m.width-4)))
	b.WriteString("\n\n")

	if !result.HasMatch() {
		b.WriteString(m.styles.Muted.Render("No strong matches found in the base catalog."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("Matches in '%s'", m.report.Base.Name)))
		b.WriteString("\n")
		for _, match := range result.Matches {
			fmt.Fprintf(&b, "%s  %s\n",
				m.styles.Score(match.Score).Render(fmt.Sprintf("%.2f", match.Score)),
				m.styles.Normal.Render(match.Record.DisplayParentID()+" / "+match.Record.DisplayID()))
			b.WriteString(m.wrap(match.Record.Text, 2))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) recordBlock(r domain.TextRecord, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", m.styles.Muted.Render("Control:"), r.DisplayParentID())
	fmt.Fprintf(&b, "%s %s\n", m.styles.Muted.Render("Part:   "), r.DisplayID())
	if r.GroupID != "" {
		fmt.Fprintf(&b, "%s %s\n", m.styles.Muted.Render("Group:  "), r.GroupID)
	}
	b.WriteString(lipgloss.NewStyle().Width(max(width, 20)).Render(r.Text))
	return b.String()
}

// wrap renders text to the window width with a left indent.
func (m *Model) wrap(text string, indent int) string {
	width := max(m.width-indent, 20)
	return lipgloss.NewStyle().PaddingLeft(indent).Width(width + indent).Render(text)
}

// Run opens the browser on the given terminal streams until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, report *domain.Report, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(NewModel(report),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("report browser: %w", err)
	}
	return nil
}
