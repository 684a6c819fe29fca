package domain

// NotAvailable is displayed in place of an empty identifier.
const NotAvailable = "N/A"

// TextRecord is a leaf unit of comparable text produced by flattening a catalog.
// Records are immutable once created and live for a single run.
type TextRecord struct {
	// Text is the prose content. Never empty for a flattened record.
	Text string

	// ID is the identifier of the unit that owns the prose (control or part).
	// May be empty when the source omits it.
	ID string

	// ParentID is the identifier of the top-level control the prose belongs to.
	ParentID string

	// GroupID is the identifier of the nearest enclosing structural group.
	// Informational only.
	GroupID string
}

// DisplayID returns the record ID, or NotAvailable when empty.
func (r TextRecord) DisplayID() string {
	if r.ID == "" {
		return NotAvailable
	}
	return r.ID
}

// DisplayParentID returns the parent control ID, or NotAvailable when empty.
func (r TextRecord) DisplayParentID() string {
	if r.ParentID == "" {
		return NotAvailable
	}
	return r.ParentID
}

// Excerpt returns at most n runes of the record text.
// The second return value reports whether the text was cut. A non-positive
// n keeps nothing, so any non-empty text is reported as cut.
func (r TextRecord) Excerpt(n int) (string, bool) {
	if n <= 0 {
		return "", r.Text != ""
	}
	runes := []rune(r.Text)
	if len(runes) <= n {
		return r.Text, false
	}
	return string(runes[:n]), true
}

// Texts returns the text of every record, in order.
func Texts(records []TextRecord) []string {
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Text
	}
	return texts
}
