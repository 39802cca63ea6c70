// Package classify maps a workspace-relative path to a file category from
// a closed set. Categorization is a pure function of the path: extension,
// basename, and path segments only — no I/O.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/bootstrapkit/tierengine/internal/types"
)

var codeExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".mts": true, ".mjs": true, ".py": true, ".rb": true, ".java": true,
	".c": true, ".h": true, ".cc": true, ".cpp": true, ".hpp": true,
	".cs": true, ".rs": true, ".php": true, ".kt": true, ".swift": true,
	".scala": true, ".zig": true,
}

var docsExtensions = map[string]bool{
	".md": true, ".mdx": true, ".rst": true, ".txt": true, ".adoc": true,
}

// SchemaExtensions holds extensions treated as schema definitions. spec.md
// names the "schema" category but doesn't enumerate its membership; this
// is the supplementing decision.
var SchemaExtensions = map[string]bool{
	".proto": true, ".graphql": true, ".gql": true, ".sql": true, ".avsc": true,
}

// DataExtensions holds extensions treated as data files, supplementing the
// "data" category the same way SchemaExtensions supplements "schema".
var DataExtensions = map[string]bool{
	".csv": true, ".ndjson": true, ".parquet": true, ".tsv": true,
}

var configExtensions = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
	".kdl": true, ".env": true,
}

var configBasenames = map[string]bool{
	"package.json": true, "tsconfig.json": true, "go.mod": true, "go.sum": true,
	"Makefile": true, "Dockerfile": true, ".gitignore": true, ".editorconfig": true,
}

// Categorize maps a workspace-relative, forward-slash-normalized path to a
// Category. The caller is responsible for normalizing the path.
func Categorize(relativePath string) types.Category {
	base := filepath.Base(relativePath)
	ext := strings.ToLower(filepath.Ext(base))
	lowerPath := strings.ToLower(relativePath)

	if isTestPath(lowerPath, base) {
		return types.CategoryTest
	}
	if base == "README.md" || strings.EqualFold(base, "readme") || docsExtensions[ext] {
		return types.CategoryDocs
	}
	if SchemaExtensions[ext] || isSchemaNamed(lowerPath) {
		return types.CategorySchema
	}
	if DataExtensions[ext] {
		return types.CategoryData
	}
	if codeExtensions[ext] {
		return types.CategoryCode
	}
	if configExtensions[ext] || configBasenames[base] {
		return types.CategoryConfig
	}
	return types.CategoryOther
}

func isTestPath(lowerPath, base string) bool {
	if strings.Contains(lowerPath, "__tests__/") || strings.Contains(lowerPath, "/__tests__/") {
		return true
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(name, ".test") || strings.HasSuffix(name, ".spec") ||
		strings.HasSuffix(name, "_test")
}

func isSchemaNamed(lowerPath string) bool {
	return strings.HasSuffix(lowerPath, ".schema.json") || strings.HasSuffix(lowerPath, ".schema.yaml")
}
