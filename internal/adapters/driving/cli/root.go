// Package cli implements the catmatch command line with cobra.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/catmatch/internal/core/ports/driving"
	"github.com/custodia-labs/catmatch/internal/logger"
)

// Command annotations read by the bootstrap hook.
const (
	annotationNoServices = "catmatch/no-services"
	annotationEmbedder   = "catmatch/embedder"
	annotationCacheAdmin = "catmatch/cache-admin"
)

var version = "dev"

// Services wired for command handlers.
var (
	settingsService driving.SettingsService
	matchService    driving.MatchService
	cacheService    driving.CacheService
)

// Global flags.
var (
	verbose   bool
	configDir string
	noColor   bool
)

var (
	bootstrap     Bootstrap
	closeServices func() error
)

// Options tell the bootstrap what the running command needs.
type Options struct {
	// ConfigDir overrides the configuration directory. ":memory:" keeps
	// settings in memory only.
	ConfigDir string

	// NeedsEmbedder is set for commands that embed text. The bootstrap should
	// create and ping the configured provider.
	NeedsEmbedder bool

	// NoCache disables the embedding cache for this run.
	NoCache bool

	// CacheAdmin opens the persistent cache even when caching is disabled
	// in settings.
	CacheAdmin bool
}

// Services are the driving ports a command may use. Any may be nil when
// the command does not need it.
type Services struct {
	Settings driving.SettingsService
	Match    driving.MatchService
	Cache    driving.CacheService

	// Close releases adapters (cache database, HTTP clients).
	Close func() error
}

// Bootstrap builds services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "catmatch",
	Short: "Find matching controls between two security control catalogs",
	Long: `catmatch compares two OSCAL control catalogs by meaning rather than wording.

Every control and part with prose is flattened into a text record, embedded
with the configured model, and each record of the merge catalog is matched
against the most similar records of the base catalog.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.catmatch)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// SetVersion sets the version reported by 'catmatch version'.
func SetVersion(v string) {
	version = v
}

// SetServices injects services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		settingsService, matchService, cacheService = nil, nil, nil
		return
	}
	settingsService = s.Settings
	matchService = s.Match
	cacheService = s.Cache
}

// Execute runs the root command with the given bootstrap and releases
// whatever the bootstrap opened, even when the command fails.
func Execute(ctx context.Context, b Bootstrap) error {
	bootstrap = b
	// cobra's Print helpers default to stderr; reports belong on stdout.
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	if cerr := shutdownServices(); err == nil {
		err = cerr
	}
	return err
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[annotationNoServices] != "" {
		return nil
	}

	opts := Options{
		ConfigDir:     configDir,
		NeedsEmbedder: cmd.Annotations[annotationEmbedder] != "",
		CacheAdmin:    cmd.Annotations[annotationCacheAdmin] != "",
	}
	if f := cmd.Flags().Lookup("no-cache"); f != nil && f.Value.String() == "true" {
		opts.NoCache = true
	}

	s, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return err
	}
	SetServices(s)
	closeServices = s.Close
	return nil
}

func shutdownServices() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// errNotConfigured reports a handler running without its service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
