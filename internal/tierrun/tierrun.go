// Package tierrun drives the tier state machine: NONE -> IMMEDIATE -> FAST
// -> FULL. It serializes discovery, extraction and record persistence into
// three strictly ordered stages, flips feature flags as each stage
// completes, and exposes the waiter/status surface callers observe the run
// through.
package tierrun

import (
	"context"
	"sync"
	"time"

	"github.com/bootstrapkit/tierengine/internal/bootstraperr"
	"github.com/bootstrapkit/tierengine/internal/config"
	"github.com/bootstrapkit/tierengine/internal/debug"
	"github.com/bootstrapkit/tierengine/internal/discovery"
	"github.com/bootstrapkit/tierengine/internal/extract"
	"github.com/bootstrapkit/tierengine/internal/memstore"
	"github.com/bootstrapkit/tierengine/internal/record"
	"github.com/bootstrapkit/tierengine/internal/types"
)

// Options configures a single Engine. Config and Backend are required;
// OnTierComplete and OnProgress may be nil.
type Options struct {
	Config         *config.Config
	Backend        memstore.Backend
	OnTierComplete func(types.Tier, types.TierStats)
	OnProgress     func(types.Tier, float64)
}

// Status is a defensive-copy snapshot of an Engine's state.
type Status struct {
	CurrentTier types.Tier
	IsComplete  bool
	Stats       map[types.Tier]types.TierStats
	Features    map[types.Feature]bool
	InProgress  bool
	Err         error
}

// Engine runs the tier state machine exactly once per Start call and holds
// the results and status any number of concurrent readers may observe.
type Engine struct {
	opts Options

	mu      sync.RWMutex
	status  Status
	waiters map[types.Tier]chan struct{}
	cancel  context.CancelFunc

	discovered []types.DiscoveredFile
	symbols    []types.Symbol
	imports    []types.ImportEdge
}

// New builds an Engine with its per-tier waiters pre-allocated, so
// WaitForTier may be called before Start.
func New(opts Options) *Engine {
	e := &Engine{
		opts: opts,
		status: Status{
			Stats:    map[types.Tier]types.TierStats{},
			Features: map[types.Feature]bool{},
		},
		waiters: map[types.Tier]chan struct{}{
			types.TierImmediate: make(chan struct{}),
			types.TierFast:      make(chan struct{}),
			types.TierFull:      make(chan struct{}),
		},
	}
	return e
}

// Start runs Tier 0 through Tier 2 in order, returning once the run
// completes, is aborted, or a backend call fails. ctx is the external
// abort signal: canceling it has the same effect as calling Abort.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.status.InProgress {
		e.mu.Unlock()
		return &bootstraperr.ReentrancyError{}
	}
	e.status.InProgress = true
	e.status.Err = nil
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.status.InProgress = false
		e.mu.Unlock()
	}()

	if err := e.opts.Config.Validate(); err != nil {
		e.mu.Lock()
		e.status.Err = err
		e.mu.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	if err := e.runTier0(runCtx); err != nil {
		e.fail(err)
		return err
	}
	if runCtx.Err() != nil {
		debug.LogTier("abort observed after IMMEDIATE, stopping before FAST")
		return nil
	}

	if err := e.runTier1(runCtx); err != nil {
		e.fail(err)
		return err
	}
	if runCtx.Err() != nil {
		debug.LogTier("abort observed after FAST, stopping before FULL")
		return nil
	}

	e.runTier2()
	return nil
}

// Abort cancels the in-progress run, if any. Idempotent and safe to call
// from inside an OnTierComplete callback.
func (e *Engine) Abort() {
	e.mu.RLock()
	cancel := e.cancel
	e.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

func (e *Engine) fail(err error) {
	e.mu.Lock()
	e.status.Err = err
	e.mu.Unlock()
}

func (e *Engine) runTier0(ctx context.Context) error {
	start := time.Now()
	cfg := e.opts.Config
	deadline := start.Add(time.Duration(cfg.Tier0DeadlineMs) * time.Millisecond)

	res, err := discovery.Scan(ctx, cfg, deadline, e.progressReporter(types.TierImmediate))
	if err != nil {
		res = discovery.Result{}
	}

	now := time.Now()
	files := record.BuildTier0Files(res.Files, now)
	dirs := record.BuildTier0Directories(res.Files, now)

	if err := e.opts.Backend.UpsertFiles(ctx, files); err != nil {
		return bootstraperr.NewBackendError("UpsertFiles", types.TierImmediate.String(), err)
	}
	if err := e.opts.Backend.UpsertDirectories(ctx, dirs); err != nil {
		return bootstraperr.NewBackendError("UpsertDirectories", types.TierImmediate.String(), err)
	}

	e.mu.Lock()
	e.discovered = res.Files
	e.mu.Unlock()

	e.reportProgress(types.TierImmediate, 1.0)
	e.completeTier(types.TierImmediate, types.TierStats{
		Tier:           types.TierImmediate,
		FilesProcessed: len(res.Files),
		DurationMs:     time.Since(start).Milliseconds(),
	})
	return nil
}

func (e *Engine) runTier1(ctx context.Context) error {
	start := time.Now()
	cfg := e.opts.Config
	deadline := start.Add(time.Duration(cfg.Tier1DeadlineMs) * time.Millisecond)

	e.mu.RLock()
	discovered := e.discovered
	e.mu.RUnlock()

	res, err := extract.Run(ctx, cfg, discovered, deadline, e.progressReporter(types.TierFast))
	if err != nil {
		res = extract.Result{}
	}

	absToRel := make(map[string]string, len(discovered))
	relToAbs := make(map[string]string, len(discovered))
	for _, d := range discovered {
		absToRel[d.AbsolutePath] = d.RelativePath
		relToAbs[d.RelativePath] = d.AbsolutePath
	}

	patches := record.AggregateTier1(res.Symbols, res.Imports, absToRel)

	touched := make([]types.FileKnowledge, 0, len(patches))
	for rel, patch := range patches {
		abs := relToAbs[rel]
		existing, ok, err := e.opts.Backend.GetFileByPath(ctx, abs)
		if err != nil {
			return bootstraperr.NewBackendError("GetFileByPath", types.TierFast.String(), err)
		}
		if !ok {
			continue
		}
		touched = append(touched, record.ApplyTier1Patch(existing, patch))
	}

	if err := e.opts.Backend.UpsertFiles(ctx, touched); err != nil {
		return bootstraperr.NewBackendError("UpsertFiles", types.TierFast.String(), err)
	}

	e.mu.Lock()
	e.symbols = res.Symbols
	e.imports = res.Imports
	e.mu.Unlock()

	e.reportProgress(types.TierFast, 1.0)
	e.completeTier(types.TierFast, types.TierStats{
		Tier:           types.TierFast,
		FilesProcessed: len(patches),
		DurationMs:     time.Since(start).Milliseconds(),
	})
	return nil
}

func (e *Engine) runTier2() {
	start := time.Now()

	e.mu.RLock()
	total := len(e.discovered)
	e.mu.RUnlock()

	e.reportProgress(types.TierFull, 1.0)
	e.completeTier(types.TierFull, types.TierStats{
		Tier:           types.TierFull,
		FilesProcessed: total,
		DurationMs:     time.Since(start).Milliseconds(),
	})

	e.mu.Lock()
	e.status.IsComplete = true
	e.mu.Unlock()
}

// completeTier installs the tier's feature set as active, records its
// stats, fires OnTierComplete, and only then resolves its waiter, so a
// waitForTier caller never observes completion before the callback has
// run.
func (e *Engine) completeTier(tier types.Tier, stats types.TierStats) {
	e.mu.Lock()
	for _, f := range types.TierFeatures(tier) {
		e.status.Features[f] = true
	}
	e.status.CurrentTier = tier
	e.status.Stats[tier] = stats
	ch := e.waiters[tier]
	e.mu.Unlock()

	debug.LogTier("%s complete: %d files in %dms", tier, stats.FilesProcessed, stats.DurationMs)

	if e.opts.OnTierComplete != nil {
		e.opts.OnTierComplete(tier, stats)
	}

	select {
	case <-ch:
		// Already resolved by an earlier Start on this engine.
	default:
		close(ch)
	}
}

func (e *Engine) progressReporter(tier types.Tier) func(float64) {
	return func(f float64) {
		e.reportProgress(tier, f)
	}
}

func (e *Engine) reportProgress(tier types.Tier, f float64) {
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(tier, f)
	}
}

// WaitForTier blocks until tier has completed, ctx is canceled, or (in the
// aborted-run case) forever if tier never completes. It resolves
// immediately for NONE.
func (e *Engine) WaitForTier(ctx context.Context, tier types.Tier) error {
	if tier <= types.TierNone {
		return nil
	}
	e.mu.RLock()
	ch := e.waiters[tier]
	e.mu.RUnlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetStatus returns a defensive copy of the engine's current status.
func (e *Engine) GetStatus() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := make(map[types.Tier]types.TierStats, len(e.status.Stats))
	for k, v := range e.status.Stats {
		stats[k] = v
	}
	features := make(map[types.Feature]bool, len(e.status.Features))
	for k, v := range e.status.Features {
		features[k] = v
	}
	return Status{
		CurrentTier: e.status.CurrentTier,
		IsComplete:  e.status.IsComplete,
		Stats:       stats,
		Features:    features,
		InProgress:  e.status.InProgress,
		Err:         e.status.Err,
	}
}

// IsFeatureEnabled reports whether f has been flipped on by a completed
// tier.
func (e *Engine) IsFeatureEnabled(f types.Feature) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.Features[f]
}

// GetDiscoveredFiles returns the stable snapshot Tier 0 produced. Empty
// before Tier 0 resolves.
func (e *Engine) GetDiscoveredFiles() []types.DiscoveredFile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.discovered
}

// GetExtractedSymbols returns the symbols Tier 1 produced. Empty before
// Tier 1 resolves.
func (e *Engine) GetExtractedSymbols() []types.Symbol {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.symbols
}

// GetImportEdges returns the import edges Tier 1 produced. Empty before
// Tier 1 resolves.
func (e *Engine) GetImportEdges() []types.ImportEdge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.imports
}
