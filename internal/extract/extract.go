// Package extract performs the Tier 1 textual scan: source files are read
// and pattern-matched for top-level declarations and relative import
// specifiers, which are then resolved against the discovered file set.
// This is deliberately not an AST parser — see the scanner type's doc in
// scan.go.
package extract

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/bootstrapkit/tierengine/internal/config"
	"github.com/bootstrapkit/tierengine/internal/debug"
	"github.com/bootstrapkit/tierengine/internal/types"
)

const (
	extractBatchSize   = 20
	extractConcurrency = 16
)

var eligibleExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mts": true, ".mjs": true,
}

var resolveExtensions = []string{"", ".ts", ".tsx", ".js", ".jsx", ".mts", ".mjs"}

// Result is the product of a Tier 1 extraction pass.
type Result struct {
	Symbols []types.Symbol
	Imports []types.ImportEdge
}

// Run scans eligible DiscoveredFiles for symbols and import edges, in
// priority order, stopping early (but keeping partial results) if ctx is
// cancelled or deadline passes between batches.
func Run(ctx context.Context, cfg *config.Config, discovered []types.DiscoveredFile, deadline time.Time, report func(float64)) (Result, error) {
	if report == nil {
		report = func(float64) {}
	}
	report(0.0)

	maxSize := cfg.MaxFileSizeBytes
	if maxSize <= 0 {
		maxSize = config.DefaultMaxFileSizeBytes
	}

	eligible := make([]types.DiscoveredFile, 0, len(discovered))
	for _, f := range discovered {
		if eligibleExtensions[f.Extension] && f.SizeBytes <= maxSize {
			eligible = append(eligible, f)
		}
	}
	ordered := prioritize(cfg.Root, eligible)

	known := make(map[string]bool, len(discovered))
	for _, f := range discovered {
		known[f.RelativePath] = true
	}

	sc := newScanner()
	sem := semaphore.NewWeighted(extractConcurrency)

	result := Result{}
	totalBatches := (len(ordered) + extractBatchSize - 1) / extractBatchSize
	if totalBatches == 0 {
		report(0.9)
		return result, nil
	}

	for batchIdx := 0; batchIdx*extractBatchSize < len(ordered); batchIdx++ {
		if ctx.Err() != nil {
			debug.LogExtract("abort observed before batch %d", batchIdx)
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			debug.LogExtract("tier1 deadline exceeded before batch %d", batchIdx)
			break
		}

		start := batchIdx * extractBatchSize
		end := start + extractBatchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		batch := ordered[start:end]

		symbols, imports := scanBatch(ctx, sem, sc, batch, known)
		result.Symbols = append(result.Symbols, symbols...)
		result.Imports = append(result.Imports, imports...)

		report(0.1 + 0.8*float64(batchIdx+1)/float64(totalBatches))
	}

	return result, nil
}

type batchOutcome struct {
	symbols []types.Symbol
	imports []types.ImportEdge
}

func scanBatch(ctx context.Context, sem *semaphore.Weighted, sc *scanner, files []types.DiscoveredFile, known map[string]bool) ([]types.Symbol, []types.ImportEdge) {
	outcomes := make([]batchOutcome, len(files))
	done := make(chan struct{}, len(files))

	launched := 0
	for i, f := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		launched++
		go func(i int, f types.DiscoveredFile) {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			outcomes[i] = scanFile(sc, f, known)
		}(i, f)
	}

	for i := 0; i < launched; i++ {
		<-done
	}

	var symbols []types.Symbol
	var imports []types.ImportEdge
	for _, o := range outcomes {
		symbols = append(symbols, o.symbols...)
		imports = append(imports, o.imports...)
	}
	return symbols, imports
}

func scanFile(sc *scanner, f types.DiscoveredFile, known map[string]bool) batchOutcome {
	data, err := os.ReadFile(f.AbsolutePath)
	if err != nil {
		return batchOutcome{}
	}
	text := string(data)

	symbols := sc.symbols(f.AbsolutePath, text)

	var edges []types.ImportEdge
	for _, raw := range sc.rawImports(text) {
		target, ok := resolveImport(f.RelativePath, raw.specifier, known)
		if !ok {
			continue
		}
		edges = append(edges, types.ImportEdge{
			SourceFile:    f.RelativePath,
			TargetFile:    target,
			ImportedNames: raw.importedNames,
		})
	}

	return batchOutcome{symbols: symbols, imports: edges}
}

// resolveImport resolves a relative specifier against the known discovered
// set, trying the stripped (".js" removed) and original specifier in
// order, each against resolveExtensions and an index-file fallback.
func resolveImport(sourceRel, specifier string, known map[string]bool) (string, bool) {
	dir := filepath.Dir(sourceRel)
	if dir == "." {
		dir = ""
	}

	stripped := specifier
	if ext := filepath.Ext(stripped); ext == ".js" {
		stripped = stripped[:len(stripped)-len(ext)]
	}

	for _, spec := range []string{stripped, specifier} {
		base := filepath.ToSlash(filepath.Join(dir, spec))
		for _, ext := range resolveExtensions {
			candidate := base + ext
			if known[candidate] {
				return candidate, true
			}
		}
		for _, idx := range []string{"/index.ts", "/index.js"} {
			candidate := base + idx
			if known[candidate] {
				return candidate, true
			}
		}
	}
	return "", false
}
