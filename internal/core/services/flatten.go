package services

import (
	"strings"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// flattenFrame is one pending unit of the flattening worklist.
// Exactly one of group, control, or part is set.
type flattenFrame struct {
	group   *domain.Group
	control *domain.Control
	part    *domain.Part

	// parentID is the top-level control the unit belongs to.
	// Unused for top-level controls, which are their own parent.
	parentID string
	topLevel bool

	// groupID is the nearest enclosing structural group.
	groupID string
}

// FlattenCatalog walks a catalog depth-first, pre-order, and returns one
// record per non-empty prose field.
//
// Within a structural group, its controls come before its sub-groups. Within a
// control, its own prose comes first, then its parts (each part before its
// sub-parts), then its nested controls. Every record carries the identifier
// of the top-level control on its path as ParentID.
//
// Missing structure yields fewer records; it is never an error. The catalog
// is not modified.
func FlattenCatalog(catalog *domain.Catalog) []domain.TextRecord {
	if catalog == nil {
		return nil
	}

	var records []domain.TextRecord

	// Frames are pushed in reverse so that the first sibling pops first.
	stack := make([]flattenFrame, 0, 32)
	stack = pushGroups(stack, catalog.Groups)
	stack = pushControls(stack, catalog.Controls, "", true, "")

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case f.group != nil:
			g := f.group
			stack = pushGroups(stack, g.Groups)
			stack = pushControls(stack, g.Controls, "", true, g.ID)

		case f.control != nil:
			c := f.control
			parentID := f.parentID
			if f.topLevel {
				parentID = c.ID
			}
			records = appendProse(records, c.Prose, c.ID, parentID, f.groupID)
			stack = pushControls(stack, c.Controls, parentID, false, f.groupID)
			stack = pushParts(stack, c.Parts, parentID, f.groupID)

		case f.part != nil:
			p := f.part
			records = appendProse(records, p.Prose, p.ID, f.parentID, f.groupID)
			stack = pushParts(stack, p.Parts, f.parentID, f.groupID)
		}
	}

	return records
}

func pushGroups(stack []flattenFrame, groups []domain.Group) []flattenFrame {
	for i := len(groups) - 1; i >= 0; i-- {
		stack = append(stack, flattenFrame{group: &groups[i], groupID: groups[i].ID})
	}
	return stack
}

func pushControls(
	stack []flattenFrame, controls []domain.Control, parentID string, topLevel bool, groupID string,
) []flattenFrame {
	for i := len(controls) - 1; i >= 0; i-- {
		stack = append(stack, flattenFrame{
			control:  &controls[i],
			parentID: parentID,
			topLevel: topLevel,
			groupID:  groupID,
		})
	}
	return stack
}

func pushParts(stack []flattenFrame, parts []domain.Part, parentID, groupID string) []flattenFrame {
	for i := len(parts) - 1; i >= 0; i-- {
		stack = append(stack, flattenFrame{
			part:     &parts[i],
			parentID: parentID,
			groupID:  groupID,
		})
	}
	return stack
}

// appendProse adds a record unless the prose is blank.
func appendProse(records []domain.TextRecord, prose, id, parentID, groupID string) []domain.TextRecord {
	if strings.TrimSpace(prose) == "" {
		return records
	}
	return append(records, domain.TextRecord{
		Text:     prose,
		ID:       id,
		ParentID: parentID,
		GroupID:  groupID,
	})
}
