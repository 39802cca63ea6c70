// Package tierengine bootstraps a code-intelligence knowledge store in
// three tiers of increasing completeness: IMMEDIATE (file discovery),
// FAST (textual symbol/import extraction), and FULL (terminal,
// finalizes the feature set). Each tier persists to a Backend as soon as
// it completes, so a caller's first query can be answered after
// IMMEDIATE rather than waiting for the whole run.
package tierengine

import (
	"context"
	"path/filepath"

	"github.com/bootstrapkit/tierengine/internal/config"
	"github.com/bootstrapkit/tierengine/internal/memstore"
	"github.com/bootstrapkit/tierengine/internal/tierrun"
	"github.com/bootstrapkit/tierengine/internal/types"
	"github.com/bootstrapkit/tierengine/internal/version"
)

// Re-exported data model. These are aliases, not copies: a caller's
// Backend implementation and a tierengine.Engine exchange the exact same
// concrete values.
type (
	Tier               = types.Tier
	Feature            = types.Feature
	TierStats          = types.TierStats
	Category           = types.Category
	DiscoveredFile     = types.DiscoveredFile
	FileKnowledge      = types.FileKnowledge
	DirectoryKnowledge = types.DirectoryKnowledge
	SymbolKind         = types.SymbolKind
	Symbol             = types.Symbol
	ImportEdge         = types.ImportEdge
	Backend            = memstore.Backend
	Status             = tierrun.Status
)

const (
	TierNone      = types.TierNone
	TierImmediate = types.TierImmediate
	TierFast      = types.TierFast
	TierFull      = types.TierFull
)

const (
	FeatureFileSearch           = types.FeatureFileSearch
	FeatureBasicNavigation      = types.FeatureBasicNavigation
	FeatureSymbolSearch         = types.FeatureSymbolSearch
	FeatureGoToDefinition       = types.FeatureGoToDefinition
	FeatureImportGraph          = types.FeatureImportGraph
	FeatureFullAnalysis         = types.FeatureFullAnalysis
	FeaturePatternDetection     = types.FeaturePatternDetection
	FeatureArchitectureAnalysis = types.FeatureArchitectureAnalysis
)

// NewMemoryBackend returns the reference in-memory Backend, usable when a
// caller has no external store of its own.
func NewMemoryBackend() *memstore.Store {
	return memstore.New()
}

// Version returns the engine's short semantic version string, for
// inclusion in a caller's diagnostics or logs.
func Version() string {
	return version.Info()
}

// FullVersion returns the engine's version together with the commit and
// build date baked in at build time via -ldflags.
func FullVersion() string {
	return version.FullInfo()
}

// Options configures a bootstrap run. Only RootPath is required; every
// other field left at its zero value falls back first to an on-disk
// .bootstrap.kdl under RootPath, then to the engine's hard-coded
// defaults.
type Options struct {
	RootPath         string
	IncludePatterns  []string
	ExcludePatterns  []string
	MaxFileSizeBytes int64
	Tier0DeadlineMs  int
	Tier1DeadlineMs  int

	// Backend receives each tier's records as soon as it completes. Nil
	// defaults to a fresh NewMemoryBackend().
	Backend Backend

	// OnTierComplete fires once per tier, in tier order, after that
	// tier's feature flags and records are already visible.
	OnTierComplete func(Tier, TierStats)

	// OnProgress fires zero or more times per tier with a value in
	// [0.0, 1.0], non-decreasing within a tier and ending at 1.0.
	OnProgress func(Tier, float64)
}

// Engine runs one bootstrap per call to Start and exposes the resulting
// knowledge, status, and feature gates to any number of readers.
type Engine struct {
	core *tierrun.Engine
}

// New builds an Engine for opts. It does not touch the filesystem beyond
// an optional .bootstrap.kdl read and does not validate opts; validation
// happens on Start so a caller can construct an Engine before RootPath
// exists.
func New(opts Options) *Engine {
	absRoot, err := filepath.Abs(opts.RootPath)
	if err != nil {
		absRoot = opts.RootPath
	}

	cfg := config.Default(absRoot)
	if onDisk, err := config.LoadKDL(absRoot); err == nil && onDisk != nil {
		cfg = onDisk
	}
	applyOverrides(cfg, opts)

	backend := opts.Backend
	if backend == nil {
		backend = memstore.New()
	}

	return &Engine{
		core: tierrun.New(tierrun.Options{
			Config:         cfg,
			Backend:        backend,
			OnTierComplete: opts.OnTierComplete,
			OnProgress:     opts.OnProgress,
		}),
	}
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.IncludePatterns != nil {
		cfg.IncludePatterns = opts.IncludePatterns
	}
	if opts.ExcludePatterns != nil {
		cfg.ExcludePatterns = opts.ExcludePatterns
	}
	if opts.MaxFileSizeBytes > 0 {
		cfg.MaxFileSizeBytes = opts.MaxFileSizeBytes
	}
	if opts.Tier0DeadlineMs > 0 {
		cfg.Tier0DeadlineMs = opts.Tier0DeadlineMs
	}
	if opts.Tier1DeadlineMs > 0 {
		cfg.Tier1DeadlineMs = opts.Tier1DeadlineMs
	}
}

// Start runs Tier 0 through Tier 2 in order. ctx is the run's abort
// signal: canceling it has the same effect as calling Abort. Start
// blocks until the run completes, is aborted, or a Backend call fails;
// it returns a non-nil error only for the latter case, a rejected
// Options value, or a call made while another Start is still in
// progress, never for cancellation.
func (e *Engine) Start(ctx context.Context) error {
	return e.core.Start(ctx)
}

// Abort cancels the in-progress run, if any. Safe to call from inside an
// OnTierComplete callback and safe to call more than once.
func (e *Engine) Abort() {
	e.core.Abort()
}

// WaitForTier blocks until tier has completed or ctx is canceled. It
// resolves immediately for TierNone.
func (e *Engine) WaitForTier(ctx context.Context, tier Tier) error {
	return e.core.WaitForTier(ctx, tier)
}

// GetStatus returns a defensive-copy snapshot of the engine's state.
func (e *Engine) GetStatus() Status {
	return e.core.GetStatus()
}

// IsFeatureEnabled reports whether f has been flipped on by a completed
// tier.
func (e *Engine) IsFeatureEnabled(f Feature) bool {
	return e.core.IsFeatureEnabled(f)
}

// GetDiscoveredFiles returns the stable snapshot Tier 0 produced.
func (e *Engine) GetDiscoveredFiles() []DiscoveredFile {
	return e.core.GetDiscoveredFiles()
}

// GetExtractedSymbols returns the symbols Tier 1 produced.
func (e *Engine) GetExtractedSymbols() []Symbol {
	return e.core.GetExtractedSymbols()
}

// GetImportEdges returns the import edges Tier 1 produced.
func (e *Engine) GetImportEdges() []ImportEdge {
	return e.core.GetImportEdges()
}
