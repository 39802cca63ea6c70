// Package discovery walks a workspace root under include/exclude glob
// patterns and stats the survivors in bounded batches, producing the
// DiscoveredFile set Tier 0 builds its initial records from.
package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/semaphore"

	"github.com/bootstrapkit/tierengine/internal/classify"
	"github.com/bootstrapkit/tierengine/internal/config"
	"github.com/bootstrapkit/tierengine/internal/debug"
	"github.com/bootstrapkit/tierengine/internal/types"
	"github.com/bootstrapkit/tierengine/pkg/pathutil"
)

const (
	batchSize          = 100
	statConcurrency    = 16
	defaultMaxFileSize = config.DefaultMaxFileSizeBytes
)

// DefaultIncludePatterns is used when the caller supplies none.
var DefaultIncludePatterns = []string{"**/*"}

// DefaultExcludePatterns is the shared universal-excludes list: VCS
// directories, dependency caches, and common build outputs.
var DefaultExcludePatterns = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/.next/**",
	"**/target/**",
	"**/__pycache__/**",
	"**/.venv/**",
}

// Result is the stable, in-memory product of a Scan.
type Result struct {
	Files []types.DiscoveredFile
	// ParentDirs holds the unique parent-directory relative paths of every
	// file in Files, excluding the root ("").
	ParentDirs []string
}

// Scan enumerates matching paths under cfg.Root, then stats them in
// fixed-size batches of parallel stat calls, checking ctx and deadline
// between batches. report is called with progress fractions 0.0, 0.3, and
// interpolated values up to 0.8 — the caller (the tier runner) reports 1.0
// itself once the backend upsert completes.
func Scan(ctx context.Context, cfg *config.Config, deadline time.Time, report func(float64)) (Result, error) {
	if report == nil {
		report = func(float64) {}
	}
	report(0.0)

	includes := cfg.IncludePatterns
	if len(includes) == 0 {
		includes = DefaultIncludePatterns
	}
	excludes := append(append([]string{}, DefaultExcludePatterns...), cfg.ExcludePatterns...)

	gp := config.NewGitignoreParser()
	if err := gp.LoadGitignore(cfg.Root); err != nil {
		debug.LogDiscovery("failed to load .gitignore: %v", err)
	}
	excludes = append(excludes, gp.ExclusionGlobs()...)

	maxSize := cfg.MaxFileSizeBytes
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}

	candidates, err := listCandidates(cfg.Root, includes, excludes)
	if err != nil {
		return Result{}, err
	}
	report(0.3)

	res := Result{}
	dirSeen := map[string]struct{}{}
	sem := semaphore.NewWeighted(statConcurrency)

	totalBatches := (len(candidates) + batchSize - 1) / batchSize
	if totalBatches == 0 {
		report(0.8)
		return res, nil
	}

	for batchIdx := 0; batchIdx*batchSize < len(candidates); batchIdx++ {
		if ctx.Err() != nil {
			debug.LogDiscovery("abort observed before batch %d", batchIdx)
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			debug.LogDiscovery("tier0 deadline exceeded before batch %d", batchIdx)
			break
		}

		start := batchIdx * batchSize
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		files := statBatch(ctx, sem, cfg.Root, batch, maxSize)
		for _, df := range files {
			res.Files = append(res.Files, df)
			if df.Directory != "" {
				dirSeen[df.Directory] = struct{}{}
			}
		}

		report(progressFraction(batchIdx+1, totalBatches))
	}

	res.ParentDirs = make([]string, 0, len(dirSeen))
	for d := range dirSeen {
		res.ParentDirs = append(res.ParentDirs, d)
	}
	sort.Strings(res.ParentDirs)

	report(0.8)
	return res, nil
}

// progressFraction maps a completed-batch count onto the 0.3-0.8 band.
func progressFraction(done, total int) float64 {
	if total == 0 {
		return 0.8
	}
	return 0.3 + 0.5*float64(done)/float64(total)
}

func listCandidates(root string, includes, excludes []string) ([]string, error) {
	var out []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if path == root {
			return nil
		}

		rel := pathutil.ToRelative(path, root)
		if filepath.IsAbs(rel) {
			// ToRelative falls back to the absolute path when path can't be
			// expressed relative to root (different volume, walk error); such
			// entries can't be matched against our root-relative patterns.
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if matchesAny(excludes, rel) || matchesAny(excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesAny(excludes, rel) {
			return nil
		}
		if !matchesAny(includes, rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func statBatch(ctx context.Context, sem *semaphore.Weighted, root string, rels []string, maxSize int64) []types.DiscoveredFile {
	type statResult struct {
		df types.DiscoveredFile
		ok bool
	}
	results := make([]statResult, len(rels))

	done := make(chan int, len(rels))
	launched := 0
	for i, rel := range rels {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		launched++
		go func(i int, rel string) {
			defer sem.Release(1)
			defer func() { done <- i }()

			abs := filepath.Join(root, rel)
			info, err := os.Stat(abs)
			if err != nil || info.IsDir() {
				return
			}

			results[i] = statResult{
				df: types.DiscoveredFile{
					AbsolutePath: abs,
					RelativePath: rel,
					Name:         info.Name(),
					Extension:    filepath.Ext(rel),
					Directory:    parentDir(rel),
					SizeBytes:    info.Size(),
					ModTime:      info.ModTime(),
					Category:     classify.Categorize(rel),
				},
				ok: true,
			}
		}(i, rel)
	}

	for i := 0; i < launched; i++ {
		<-done
	}

	out := make([]types.DiscoveredFile, 0, len(rels))
	for _, r := range results {
		if r.ok {
			out = append(out, r.df)
		}
	}
	_ = maxSize // size filtering deliberately omitted here: oversized files still get a DiscoveredFile (spec.md open question), Extractor enforces the ceiling.
	return out
}

func parentDir(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return ""
	}
	return dir
}
