package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

func TestFlattenCatalog_Nil(t *testing.T) {
	assert.Empty(t, FlattenCatalog(nil))
	assert.Empty(t, FlattenCatalog(&domain.Catalog{}))
}

func TestFlattenCatalog_SingleControl(t *testing.T) {
	catalog := &domain.Catalog{
		Controls: []domain.Control{{ID: "c1", Prose: "Access control policy."}},
	}

	records := FlattenCatalog(catalog)

	require.Len(t, records, 1)
	assert.Equal(t, domain.TextRecord{Text: "Access control policy.", ID: "c1", ParentID: "c1"}, records[0])
}

func TestFlattenCatalog_EmptyControlContributesNothing(t *testing.T) {
	catalog := &domain.Catalog{
		Controls: []domain.Control{
			{ID: "empty"},
			{ID: "blank", Prose: "   \n\t"},
		},
	}

	assert.Empty(t, FlattenCatalog(catalog))
}

func TestFlattenCatalog_PreOrder(t *testing.T) {
	catalog := &domain.Catalog{
		Controls: []domain.Control{
			{
				ID:    "ac-1",
				Prose: "ac-1 synopsis",
				Parts: []domain.Part{
					{
						ID:    "ac-1_smt",
						Prose: "statement",
						Parts: []domain.Part{
							{ID: "ac-1_smt.a", Prose: "item a"},
							{ID: "ac-1_smt.b", Prose: "item b"},
						},
					},
					{ID: "ac-1_gdn", Prose: "guidance"},
				},
				Controls: []domain.Control{
					{
						ID:    "ac-1.1",
						Prose: "enhancement",
						Parts: []domain.Part{{ID: "ac-1.1_smt", Prose: "enhancement statement"}},
					},
				},
			},
			{ID: "ac-2", Prose: "ac-2 synopsis"},
		},
	}

	records := FlattenCatalog(catalog)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{
		"ac-1", "ac-1_smt", "ac-1_smt.a", "ac-1_smt.b", "ac-1_gdn",
		"ac-1.1", "ac-1.1_smt", "ac-2",
	}, ids)
}

func TestFlattenCatalog_ParentIsTopLevelControl(t *testing.T) {
	catalog := &domain.Catalog{
		Controls: []domain.Control{{
			ID: "ac-2",
			Parts: []domain.Part{{
				ID:    "ac-2_smt",
				Parts: []domain.Part{{ID: "ac-2_smt.a", Prose: "deep part"}},
			}},
			Controls: []domain.Control{{
				ID:       "ac-2.1",
				Prose:    "child",
				Controls: []domain.Control{{ID: "ac-2.1.1", Prose: "grandchild"}},
			}},
		}},
	}

	records := FlattenCatalog(catalog)

	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "ac-2", r.ParentID, r.ID)
	}
	assert.Equal(t, "ac-2_smt.a", records[0].ID)
}

func TestFlattenCatalog_Groups(t *testing.T) {
	catalog := &domain.Catalog{
		Controls: []domain.Control{{ID: "root", Prose: "root control"}},
		Groups: []domain.Group{
			{
				ID:    "ac",
				Parts: []domain.Part{{ID: "ac_overview", Prose: "family overview is not compared"}},
				Groups: []domain.Group{
					{ID: "ac-sub", Controls: []domain.Control{{ID: "ac-9", Prose: "nested family"}}},
				},
				Controls: []domain.Control{{ID: "ac-1", Prose: "first"}},
			},
			{ID: "au", Controls: []domain.Control{{ID: "au-1", Prose: "audit"}}},
		},
	}

	records := FlattenCatalog(catalog)

	require.Len(t, records, 4)
	assert.Equal(t, domain.TextRecord{Text: "root control", ID: "root", ParentID: "root"}, records[0])
	assert.Equal(t, domain.TextRecord{Text: "first", ID: "ac-1", ParentID: "ac-1", GroupID: "ac"}, records[1])
	assert.Equal(t, domain.TextRecord{Text: "nested family", ID: "ac-9", ParentID: "ac-9", GroupID: "ac-sub"}, records[2])
	assert.Equal(t, domain.TextRecord{Text: "audit", ID: "au-1", ParentID: "au-1", GroupID: "au"}, records[3])
}

func TestFlattenCatalog_MissingIDs(t *testing.T) {
	catalog := &domain.Catalog{
		Controls: []domain.Control{{
			Parts: []domain.Part{{Prose: "anonymous part"}},
		}},
	}

	records := FlattenCatalog(catalog)

	require.Len(t, records, 1)
	assert.Equal(t, domain.NotAvailable, records[0].DisplayID())
	assert.Equal(t, domain.NotAvailable, records[0].DisplayParentID())
}

func TestFlattenCatalog_DeepNestingDoesNotRecurse(t *testing.T) {
	const depth = 10000
	leaf := domain.Part{ID: "leaf", Prose: "bottom"}
	for i := 0; i < depth; i++ {
		leaf = domain.Part{Parts: []domain.Part{leaf}}
	}
	catalog := &domain.Catalog{Controls: []domain.Control{{ID: "c", Parts: []domain.Part{leaf}}}}

	records := FlattenCatalog(catalog)

	require.Len(t, records, 1)
	assert.Equal(t, "leaf", records[0].ID)
	assert.Equal(t, "c", records[0].ParentID)
}

func TestFlattenCatalog_DoesNotMutateInput(t *testing.T) {
	catalog := &domain.Catalog{
		Controls: []domain.Control{{ID: "c1", Prose: "text", Parts: []domain.Part{{ID: "p", Prose: "part"}}}},
	}
	before := *catalog
	before.Controls = append([]domain.Control(nil), catalog.Controls...)

	_ = FlattenCatalog(catalog)
	_ = FlattenCatalog(catalog)

	assert.Equal(t, before, *catalog)
}
