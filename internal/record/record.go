// Package record assembles the persistent FileKnowledge and
// DirectoryKnowledge records the tier runner upserts: minimal Tier 0
// records at confidence 0.3, then Tier 1 patches carrying symbol/import
// fields at confidence 0.5.
package record

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bootstrapkit/tierengine/internal/idcoin"
	"github.com/bootstrapkit/tierengine/internal/types"
)

const (
	tier0Confidence = 0.3
	tier1Confidence = 0.5
)

// BuildTier0Files constructs the initial FileKnowledge record for every
// discovered file. No symbol or import fields are populated yet.
func BuildTier0Files(discovered []types.DiscoveredFile, now time.Time) []types.FileKnowledge {
	out := make([]types.FileKnowledge, 0, len(discovered))
	for _, d := range discovered {
		out = append(out, types.FileKnowledge{
			FileID:       idcoin.FileID(d.RelativePath),
			AbsolutePath: d.AbsolutePath,
			RelativePath: d.RelativePath,
			Name:         d.Name,
			Extension:    d.Extension,
			Category:     d.Category,
			HasTests:     d.Category == types.CategoryTest,
			Checksum:     idcoin.ContentChecksum([]byte(d.RelativePath)),
			Confidence:   tier0Confidence,
			LastIndexed:  now,
			LastModified: d.ModTime,
		})
	}
	return out
}

// BuildTier0Directories constructs a DirectoryKnowledge record for every
// directory that owns at least one discovered file, plus every ancestor
// of those directories (a directory can own files only indirectly through
// its descendants and still need a record).
func BuildTier0Directories(discovered []types.DiscoveredFile, now time.Time) []types.DirectoryKnowledge {
	_ = now // directories carry no per-run timestamp in this spec's field set

	root := rootFromDiscovered(discovered)

	allDirs := map[string]bool{}
	for _, d := range discovered {
		if d.Directory == "" {
			continue
		}
		for _, ancestor := range ancestorsOf(d.Directory) {
			allDirs[ancestor] = true
		}
	}

	out := make([]types.DirectoryKnowledge, 0, len(allDirs))
	for dir := range allDirs {
		out = append(out, buildDirectory(root, dir, discovered))
	}
	return out
}

// rootFromDiscovered recovers the scan root by stripping a file's
// RelativePath suffix from its AbsolutePath, mirroring how Discovery
// joined them in the first place. Returns "" if discovered is empty.
func rootFromDiscovered(discovered []types.DiscoveredFile) string {
	for _, d := range discovered {
		if d.RelativePath == "" {
			continue
		}
		nativeRel := filepath.FromSlash(d.RelativePath)
		if strings.HasSuffix(d.AbsolutePath, nativeRel) {
			root := strings.TrimSuffix(d.AbsolutePath, nativeRel)
			return strings.TrimSuffix(root, string(filepath.Separator))
		}
	}
	return ""
}

func buildDirectory(root, dir string, discovered []types.DiscoveredFile) types.DirectoryKnowledge {
	var fileCount, totalFiles int
	var hasReadme, hasIndex, hasTests bool

	for _, d := range discovered {
		if d.Directory == dir {
			fileCount++
			switch strings.ToLower(d.Name) {
			case "readme.md", "readme":
				hasReadme = true
			case "index.ts", "index.js", "index.tsx", "index.jsx":
				hasIndex = true
			}
			if d.Category == types.CategoryTest {
				hasTests = true
			}
		}
		if d.Directory == dir || strings.HasPrefix(d.Directory, dir+"/") {
			totalFiles++
		}
	}

	depth := strings.Count(dir, "/") + 1
	name := dir
	var parent *string
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		name = dir[idx+1:]
		p := dir[:idx]
		parent = &p
	}

	return types.DirectoryKnowledge{
		DirID:        idcoin.DirID(dir),
		AbsolutePath: filepath.Join(root, dir),
		RelativePath: dir,
		Name:         name,
		Depth:        depth,
		FileCount:    fileCount,
		TotalFiles:   totalFiles,
		HasReadme:    hasReadme,
		HasIndex:     hasIndex,
		HasTests:     hasTests,
		Parent:       parent,
		Confidence:   tier0Confidence,
	}
}

// ancestorsOf returns dir and every ancestor path of dir, e.g.
// "src/utils/x" -> ["src", "src/utils", "src/utils/x"].
func ancestorsOf(dir string) []string {
	parts := strings.Split(dir, "/")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[:i+1], "/"))
	}
	return out
}
