// Package types defines the data model shared by every component of the
// tiered bootstrap engine: discovered files, persisted knowledge records,
// transient symbols and import edges, and per-tier statistics.
package types

import "time"

// Category is the closed set of file classifications produced by the
// classifier. It is a pure function of a file's relative path.
type Category string

const (
	CategoryCode   Category = "code"
	CategoryDocs   Category = "docs"
	CategoryConfig Category = "config"
	CategoryTest   Category = "test"
	CategorySchema Category = "schema"
	CategoryData   Category = "data"
	CategoryOther  Category = "other"
)

// Tier is the ordered bootstrap stage, gated by a wall-clock budget and a
// feature set. Tiers advance strictly monotonically: NONE -> IMMEDIATE ->
// FAST -> FULL.
type Tier int

const (
	TierNone Tier = iota
	TierImmediate
	TierFast
	TierFull
)

// String renders the tier name used in stats and log lines.
func (t Tier) String() string {
	switch t {
	case TierNone:
		return "NONE"
	case TierImmediate:
		return "IMMEDIATE"
	case TierFast:
		return "FAST"
	case TierFull:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// Feature is a boolean-valued capability flag toggled on at tier
// completion. The set is closed; every higher tier's feature set is a
// superset of every lower tier's.
type Feature string

const (
	FeatureFileSearch           Feature = "FILE_SEARCH"
	FeatureBasicNavigation      Feature = "BASIC_NAVIGATION"
	FeatureSymbolSearch         Feature = "SYMBOL_SEARCH"
	FeatureGoToDefinition       Feature = "GO_TO_DEFINITION"
	FeatureImportGraph          Feature = "IMPORT_GRAPH"
	FeatureFullAnalysis         Feature = "FULL_ANALYSIS"
	FeaturePatternDetection     Feature = "PATTERN_DETECTION"
	FeatureArchitectureAnalysis Feature = "ARCHITECTURE_ANALYSIS"
)

// TierFeatures returns the features a tier flips on when it completes
// (not including lower tiers' features, which the caller installs first).
func TierFeatures(t Tier) []Feature {
	switch t {
	case TierImmediate:
		return []Feature{FeatureFileSearch, FeatureBasicNavigation}
	case TierFast:
		return []Feature{FeatureSymbolSearch, FeatureGoToDefinition, FeatureImportGraph}
	case TierFull:
		return []Feature{FeatureFullAnalysis, FeaturePatternDetection, FeatureArchitectureAnalysis}
	default:
		return nil
	}
}

// DiscoveredFile is a transient, in-memory record produced by Discovery. It
// is created once per run and never mutated.
type DiscoveredFile struct {
	AbsolutePath string
	RelativePath string
	Name         string
	Extension    string
	Directory    string // parent relative path, "" if root
	SizeBytes    int64
	ModTime      time.Time
	Category     Category
}

// FileKnowledge is the persistent, per-file knowledge record keyed by
// FileID(RelativePath). Confidence is 0.3 after Tier 0 and 0.5 after Tier 1;
// Tier 1 updates never reduce counts a reader has already observed.
type FileKnowledge struct {
	FileID       string
	AbsolutePath string
	RelativePath string
	Name         string
	Extension    string
	Category     Category

	Purpose      string
	Role         string
	Summary      string
	KeyExports   []string
	MainConcepts []string

	LineCount     int
	FunctionCount int
	ClassCount    int
	ImportCount   int
	ExportCount   int

	Imports    []string
	ImportedBy []string

	Complexity string
	HasTests   bool

	Checksum     string
	Confidence   float64
	LastIndexed  time.Time
	LastModified time.Time
}

// DirectoryKnowledge is the persistent, per-directory knowledge record
// keyed by DirID(RelativePath).
type DirectoryKnowledge struct {
	DirID        string
	AbsolutePath string
	RelativePath string
	Name         string
	Depth        int

	FileCount   int // files directly in this directory
	TotalFiles  int // files in this directory and its descendants

	HasReadme bool
	HasIndex  bool
	HasTests  bool

	Parent     *string
	Confidence float64
}

// SymbolKind is the closed set of symbol kinds the extractor recognizes.
type SymbolKind string

const (
	SymbolFunction  SymbolKind = "function"
	SymbolClass     SymbolKind = "class"
	SymbolVariable  SymbolKind = "variable"
	SymbolType      SymbolKind = "type"
	SymbolInterface SymbolKind = "interface"
	SymbolEnum      SymbolKind = "enum"
)

// Symbol is a transient, Tier-1 textual-scan result.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	FilePath   string // absolute
	Line       int    // 1-based
	IsExported bool
}

// ImportEdge is a transient, Tier-1 directed relation from a source file to
// a resolved local target file.
type ImportEdge struct {
	SourceFile    string // relative
	TargetFile    string // relative
	ImportedNames []string
}

// TierStats is the snapshot reported when a tier completes.
type TierStats struct {
	Tier            Tier
	FilesProcessed  int
	DurationMs      int64
	EnabledFeatures []Feature
	Metrics         map[string]float64
}
