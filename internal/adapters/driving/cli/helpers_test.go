package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catmatch/internal/adapters/driven/catalog"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/catalog/file"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/catmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/catmatch/internal/core/services"
)

const baseCatalog = `{"catalog": {"metadata": {"title": "Base"}, "groups": [{"id": "ac", "controls": [
  {"id": "ac-1", "parts": [{"id": "ac-1_smt", "prose": "Develop and document an access control policy for the organization."}]},
  {"id": "ia-5", "parts": [{"id": "ia-5_smt", "prose": "Manage system authenticators including password rotation"}]}
]}]}}`

const mergeCatalog = `{"catalog": {"metadata": {"title": "Merge"}, "controls": [
  {"id": "m-1", "parts": [{"id": "m-1_smt", "prose": "Develop and document an access control policy for the organization."}]},
  {"id": "m-2", "parts": [{"prose": "Telescopes observe distant galaxies nightly"}]}
]}}`

type testEnv struct {
	dir    string
	config *memory.ConfigStore
	cache  *memory.EmbeddingCache
}

// setupTestServices wires real services over in-memory stores and the
// offline embedder.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		dir:    t.TempDir(),
		config: memory.NewConfigStore(),
		cache:  memory.NewEmbeddingCache(),
	}

	settingsSvc := services.NewSettingsService(env.config, nil)
	settingsSvc.SetEnvLookup(func(string) string { return "" })

	matchSvc := services.NewMatchService(catalog.NewLoader(file.NewSource()), local.NewEmbeddingService(256))
	matchSvc.SetCache(env.cache, "local")

	SetServices(&Services{
		Settings: settingsSvc,
		Match:    matchSvc,
		Cache:    services.NewCacheService(env.cache),
	})
	t.Cleanup(func() { SetServices(nil) })
	return env
}

func (e *testEnv) writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// executeCommand runs rootCmd with args and returns everything written.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores defaults, since cobra keeps parsed values between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
