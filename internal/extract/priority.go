package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bootstrapkit/tierengine/internal/types"
)

var wellKnownEntryBasenames = map[string]bool{
	"index.ts": true, "index.js": true,
	"main.ts": true, "main.js": true,
}

type packageJSON struct {
	Main    string          `json:"main"`
	Module  string          `json:"module"`
	Exports json.RawMessage `json:"exports"`
}

type tsconfigJSON struct {
	Include []string `json:"include"`
}

// prioritize orders files: package.json/well-known entry points first, then
// files matched by a sibling tsconfig.json's include globs, then the rest
// ascending by size. Entry points and tsconfig-matched files each keep
// their relative discovery order within their own group.
func prioritize(root string, files []types.DiscoveredFile) []types.DiscoveredFile {
	entrySet := entryPointSet(root)
	tsIncludeSet := tsconfigIncludeSet(root, files)

	var entries, tsMatched, rest []types.DiscoveredFile
	for _, f := range files {
		switch {
		case entrySet[f.RelativePath] || wellKnownEntryBasenames[f.Name]:
			entries = append(entries, f)
		case tsIncludeSet[f.RelativePath]:
			tsMatched = append(tsMatched, f)
		default:
			rest = append(rest, f)
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].SizeBytes < rest[j].SizeBytes
	})

	ordered := make([]types.DiscoveredFile, 0, len(files))
	ordered = append(ordered, entries...)
	ordered = append(ordered, tsMatched...)
	ordered = append(ordered, rest...)
	return ordered
}

// entryPointSet reads package.json at root and returns the set of
// relative entry-point paths it names (main, module, and recursively
// walked string leaves of exports).
func entryPointSet(root string) map[string]bool {
	out := map[string]bool{}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return out
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return out
	}

	add := func(spec string) {
		if spec == "" {
			return
		}
		rel := filepath.ToSlash(filepath.Clean(spec))
		rel = trimLeadingDotSlash(rel)
		out[rel] = true
	}
	add(pkg.Main)
	add(pkg.Module)

	if len(pkg.Exports) > 0 {
		walkExportsLeaves(pkg.Exports, add)
	}

	return out
}

func walkExportsLeaves(raw json.RawMessage, add func(string)) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		add(s)
		return
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		for _, v := range arr {
			walkExportsLeaves(v, add)
		}
		return
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, v := range obj {
			walkExportsLeaves(v, add)
		}
	}
}

func trimLeadingDotSlash(p string) string {
	for len(p) >= 2 && p[0] == '.' && p[1] == '/' {
		p = p[2:]
	}
	return p
}

// tsconfigIncludeSet reads a root tsconfig.json and returns the discovered
// relative paths matched by its include globs.
func tsconfigIncludeSet(root string, files []types.DiscoveredFile) map[string]bool {
	out := map[string]bool{}

	data, err := os.ReadFile(filepath.Join(root, "tsconfig.json"))
	if err != nil {
		return out
	}
	var cfg tsconfigJSON
	if err := json.Unmarshal(data, &cfg); err != nil || len(cfg.Include) == 0 {
		return out
	}

	for _, f := range files {
		for _, pattern := range cfg.Include {
			if ok, _ := doublestar.Match(pattern, f.RelativePath); ok {
				out[f.RelativePath] = true
				break
			}
		}
	}
	return out
}
