package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

const (
	excerptRunes = 200
	separator    = "--------------------------------------------------"
)

// excerpt quotes the first excerptRunes runes of the record text,
// marking a cut with "...".
func excerpt(r domain.TextRecord) string {
	text, cut := r.Excerpt(excerptRunes)
	if cut {
		text += "..."
	}
	return `"` + text + `"`
}

func formatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// writeTextReport renders the human-readable report.
func writeTextReport(w io.Writer, report *domain.Report) error {
	st := newReportStyles(w)
	var b strings.Builder

	fmt.Fprintln(&b, st.title.Render("--- Potential Control Matches Report ---"))
	fmt.Fprintf(&b, "Finding top %d matches for each control part in '%s' with a similarity score > %s\n\n",
		report.Options.TopK, report.Merge.Name, formatThreshold(report.Options.Threshold))

	for _, res := range report.Results {
		fmt.Fprintln(&b, st.muted.Render(separator))
		fmt.Fprintln(&b, st.heading.Render(fmt.Sprintf("[*] Source Control Part from '%s':", report.Merge.Name)))
		fmt.Fprintf(&b, "    %s %s\n", st.label.Render("Control ID:"), res.Merge.DisplayParentID())
		fmt.Fprintf(&b, "    %s %s\n", st.label.Render("Part ID:"), res.Merge.DisplayID())
		fmt.Fprintf(&b, "    %s %s\n", st.label.Render("Text:"), excerpt(res.Merge))
		fmt.Fprintln(&b, st.muted.Render(separator))

		if !res.HasMatch() {
			fmt.Fprintln(&b, st.muted.Render("  -> No strong matches found in the base catalog."))
			fmt.Fprintln(&b)
			continue
		}

		fmt.Fprintf(&b, "  -> Potential Matches in '%s':\n", report.Base.Name)
		for _, m := range res.Matches {
			fmt.Fprintf(&b, "    - Match Score: %s\n", st.score.Render(fmt.Sprintf("%.2f", m.Score)))
			fmt.Fprintf(&b, "      %s %s\n", st.label.Render("Control ID:"), m.Record.DisplayParentID())
			fmt.Fprintf(&b, "      %s %s\n", st.label.Render("Part ID:"), m.Record.DisplayID())
			fmt.Fprintf(&b, "      %s %s\n\n", st.label.Render("Text:"), excerpt(m.Record))
		}
	}

	fmt.Fprintf(&b, "Matched %d of %d control parts (model %s, run %s)\n",
		report.MatchedCount(), len(report.Results), report.Model, report.RunID)

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonRecord struct {
	ID       string `json:"id,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
	Text     string `json:"text"`
}

type jsonMatch struct {
	Score float64 `json:"score"`
	jsonRecord
}

type jsonResult struct {
	Merge   jsonRecord  `json:"merge"`
	Matches []jsonMatch `json:"matches"`
}

type jsonCatalog struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Records int    `json:"records"`
}

type jsonReport struct {
	RunID     string       `json:"run_id"`
	CreatedAt time.Time    `json:"created_at"`
	Model     string       `json:"model"`
	TopK      int          `json:"top_k"`
	Threshold float64      `json:"threshold"`
	Base      jsonCatalog  `json:"base"`
	Merge     jsonCatalog  `json:"merge"`
	Matched   int          `json:"matched"`
	Results   []jsonResult `json:"results"`
}

func toJSONRecord(r domain.TextRecord) jsonRecord {
	return jsonRecord{ID: r.ID, ParentID: r.ParentID, GroupID: r.GroupID, Text: r.Text}
}

func toJSONCatalog(c domain.CatalogSummary) jsonCatalog {
	return jsonCatalog{Ref: c.Ref, Name: c.Name, Title: c.Title, Records: c.Records}
}

// writeJSONReport renders the machine-readable report.
func writeJSONReport(w io.Writer, report *domain.Report) error {
	out := jsonReport{
		RunID:     report.RunID,
		CreatedAt: report.CreatedAt,
		Model:     report.Model,
		TopK:      report.Options.TopK,
		Threshold: report.Options.Threshold,
		Base:      toJSONCatalog(report.Base),
		Merge:     toJSONCatalog(report.Merge),
		Matched:   report.MatchedCount(),
		Results:   make([]jsonResult, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		jr := jsonResult{Merge: toJSONRecord(res.Merge), Matches: make([]jsonMatch, 0, len(res.Matches))}
		for _, m := range res.Matches {
			jr.Matches = append(jr.Matches, jsonMatch{Score: m.Score, jsonRecord: toJSONRecord(m.Record)})
		}
		out.Results = append(out.Results, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return nil
}
