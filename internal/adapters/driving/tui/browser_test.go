package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

func testReport() *domain.Report {
	return &domain.Report{
		RunID:   "run-1",
		Base:    domain.CatalogSummary{Name: "base.json"},
		Merge:   domain.CatalogSummary{Name: "merge.json"},
		Options: domain.DefaultMatchOptions(),
		Model:   "local",
		Results: []domain.MatchResult{
			{
				Merge: domain.TextRecord{ID: "m1_smt", ParentID: "m1", Text: "Enforce approved authorizations."},
				Matches: []domain.Match{
					{Record: domain.TextRecord{ID: "ac-3_smt", ParentID: "ac-3", Text: "Access enforcement."}, Score: 0.91},
				},
			},
			{
				Merge: domain.TextRecord{ID: "m2_smt", ParentID: "m2", Text: "Keep the coffee machine clean."},
			},
			{
				Merge: domain.TextRecord{ID: "m3_smt", ParentID: "m3", Text: "Review audit logs weekly."},
				Matches: []domain.Match{
					{Record: domain.TextRecord{ID: "au-6_smt", ParentID: "au-6", Text: "Audit review."}, Score: 0.7},
				},
			},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selectedID(t *testing.T, m *Model) string {
	t.Helper()
	r, ok := m.Selected()
	require.True(t, ok)
	return r.Merge.ID
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel(testReport())
	assert.Equal(t, "m1_smt", selectedID(t, m))

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "m2_smt", selectedID(t, m))

	m.Update(runes("j"))
	assert.Equal(t, "m3_smt", selectedID(t, m))

	// Stops at the last record.
	m.Update(runes("j"))
	assert.Equal(t, "m3_smt", selectedID(t, m))

	m.Update(runes("g"))
	assert.Equal(t, "m1_smt", selectedID(t, m))

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "m1_smt", selectedID(t, m))

	m.Update(runes("G"))
	assert.Equal(t, "m3_smt", selectedID(t, m))
}

func TestModel_FilterCycle(t *testing.T) {
	m := NewModel(testReport())

	m.Update(runes("f"))
	assert.Equal(t, FilterMatched, m.Filter())
	assert.Equal(t, "m1_smt", selectedID(t, m))
	m.Update(runes("j"))
	assert.Equal(t, "m3_smt", selectedID(t, m))

	m.Update(runes("f"))
	assert.Equal(t, FilterUnmatched, m.Filter())
	assert.Equal(t, "m2_smt", selectedID(t, m))

	m.Update(runes("f"))
	assert.Equal(t, FilterAll, m.Filter())
	assert.Equal(t, "m2_smt", selectedID(t, m), "cursor stays on the surviving record")
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(testReport())

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel(testReport())

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.help.Width)
}

func TestModel_View(t *testing.T) {
	m := NewModel(testReport())

	view := m.View()
	assert.Contains(t, view, "base.json vs merge.json")
	assert.Contains(t, view, "Record 1 of 3")
	assert.Contains(t, view, "Enforce approved authorizations.")
	assert.Contains(t, view, "0.91")
	assert.Contains(t, view, "ac-3 / ac-3_smt")

	m.Update(runes("j"))
	assert.Contains(t, m.View(), "No strong matches found in the base catalog.")
}

func TestModel_EmptyReport(t *testing.T) {
	m := NewModel(&domain.Report{})

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No records to show.")

	m.Update(runes("j"))
	m.Update(runes("G"))
	_, ok = m.Selected()
	assert.False(t, ok)

	m.Update(runes("f"))
	assert.Contains(t, m.View(), "No matched records to show.")
}

func TestModel_NilReport(t *testing.T) {
	m := NewModel(nil)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "all", FilterAll.String())
	assert.Equal(t, "matched", FilterMatched.String())
	assert.Equal(t, "unmatched", FilterUnmatched.String())
}
