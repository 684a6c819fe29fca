package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextRecord_DisplayIDs(t *testing.T) {
	assert.Equal(t, NotAvailable, TextRecord{}.DisplayID())
	assert.Equal(t, NotAvailable, TextRecord{}.DisplayParentID())

	r := TextRecord{ID: "ac-1_smt", ParentID: "ac-1"}
	assert.Equal(t, "ac-1_smt", r.DisplayID())
	assert.Equal(t, "ac-1", r.DisplayParentID())
}

func TestTextRecord_Excerpt(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		n       int
		want    string
		wantCut bool
	}{
		{"short", "policy", 200, "policy", false},
		{"exact", "abc", 3, "abc", false},
		{"cut", "abcdef", 3, "abc", true},
		{"runes", "contrôle d'accès", 8, "contrôle", true},
		{"zero", "abc", 0, "", true},
		{"negative", "abc", -5, "", true},
		{"zero empty", "", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := TextRecord{Text: tt.text}.Excerpt(tt.n)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCut, cut)
		})
	}
}

func TestTexts(t *testing.T) {
	records := []TextRecord{{Text: "a"}, {Text: "b"}}
	assert.Equal(t, []string{"a", "b"}, Texts(records))
	assert.Empty(t, Texts(nil))
}

func TestReport_MatchedCount(t *testing.T) {
	report := &Report{Results: []MatchResult{
		{Matches: []Match{{Score: 0.9}}},
		{Matches: []Match{}},
		{Matches: []Match{{Score: 0.7}, {Score: 0.66}}},
	}}

	assert.Equal(t, 2, report.MatchedCount())
	assert.True(t, report.Results[0].HasMatch())
	assert.False(t, report.Results[1].HasMatch())
}
