package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenCmd_Text(t *testing.T) {
	env := setupTestServices(t)
	path := env.writeCatalog(t, "base.json", baseCatalog)

	out, err := executeCommand(t, "flatten", path)
	require.NoError(t, err)

	assert.Contains(t, out, "[1] ac-1 / ac-1_smt\n    Group: ac\n")
	assert.Contains(t, out, "[2] ia-5 / ia-5_smt\n")
	assert.Contains(t, out, "2 records")
}

func TestFlattenCmd_JSON(t *testing.T) {
	env := setupTestServices(t)
	path := env.writeCatalog(t, "merge.json", mergeCatalog)

	out, err := executeCommand(t, "flatten", "--json", path)
	require.NoError(t, err)

	var records []jsonRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "m-1_smt", records[0].ID)
	assert.Equal(t, "m-1", records[0].ParentID)
	assert.Empty(t, records[1].ID)
	assert.Equal(t, "m-2", records[1].ParentID)
}

func TestFlattenCmd_Empty(t *testing.T) {
	env := setupTestServices(t)
	path := env.writeCatalog(t, "empty.yaml", "catalog:\n  controls: []\n")

	out, err := executeCommand(t, "flatten", path)
	require.NoError(t, err)

	assert.Contains(t, out, "No controls or parts with prose found.")
}

func TestFlattenCmd_NeedsNoEmbedder(t *testing.T) {
	assert.Empty(t, flattenCmd.Annotations[annotationEmbedder])
}
