package record

import "github.com/bootstrapkit/tierengine/internal/types"

// Tier1Patch holds the fields Tier 1 extraction contributes to an
// existing FileKnowledge record. Every other field is left untouched by
// ApplyTier1Patch, so the backend read-before-write preserves them.
type Tier1Patch struct {
	FunctionCount int
	ClassCount    int
	ExportCount   int
	KeyExports    []string
	ImportCount   int
	Imports       []string
	ImportedBy    []string
}

const maxKeyExports = 10

// AggregateTier1 groups symbols and import edges by source file,
// producing the patch each touched file needs. absToRel maps a Symbol's
// absolute FilePath back to the relative path used as the aggregation key.
func AggregateTier1(symbols []types.Symbol, imports []types.ImportEdge, absToRel map[string]string) map[string]Tier1Patch {
	patches := map[string]Tier1Patch{}

	get := func(rel string) Tier1Patch {
		p, ok := patches[rel]
		if !ok {
			p = Tier1Patch{}
		}
		return p
	}

	for _, s := range symbols {
		rel, ok := absToRel[s.FilePath]
		if !ok {
			continue
		}
		p := get(rel)
		switch s.Kind {
		case types.SymbolFunction:
			p.FunctionCount++
		case types.SymbolClass:
			p.ClassCount++
		}
		if s.IsExported {
			p.ExportCount++
			if len(p.KeyExports) < maxKeyExports {
				p.KeyExports = append(p.KeyExports, s.Name)
			}
		}
		patches[rel] = p
	}

	for _, e := range imports {
		src := get(e.SourceFile)
		src.ImportCount++
		src.Imports = append(src.Imports, e.TargetFile)
		patches[e.SourceFile] = src

		tgt := get(e.TargetFile)
		tgt.ImportedBy = append(tgt.ImportedBy, e.SourceFile)
		patches[e.TargetFile] = tgt
	}

	return patches
}

// ApplyTier1Patch returns a copy of existing with the patch fields applied
// and confidence raised to 0.5. Counts only ever advance: a patch never
// reduces a count the previous record already reported. KeyExports,
// Imports and ImportedBy are replaced by the patch's list when that list
// is non-empty and kept as they are otherwise.
func ApplyTier1Patch(existing types.FileKnowledge, patch Tier1Patch) types.FileKnowledge {
	out := existing

	out.FunctionCount = maxInt(out.FunctionCount, patch.FunctionCount)
	out.ClassCount = maxInt(out.ClassCount, patch.ClassCount)
	out.ExportCount = maxInt(out.ExportCount, patch.ExportCount)
	out.ImportCount = maxInt(out.ImportCount, patch.ImportCount)

	if len(patch.KeyExports) > 0 {
		out.KeyExports = patch.KeyExports
	}
	if len(patch.Imports) > 0 {
		out.Imports = patch.Imports
	}
	if len(patch.ImportedBy) > 0 {
		out.ImportedBy = patch.ImportedBy
	}

	out.Confidence = tier1Confidence
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
