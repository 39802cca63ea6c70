package extract

import (
	"regexp"
	"strings"

	"github.com/bootstrapkit/tierengine/internal/types"
)

// scanner holds the compiled-once regex set used to approximate top-level
// declarations and import statements by textual scan. This is deliberately
// not an AST parser: it is tuned to mainstream ECMAScript/TypeScript source
// and accepts false negatives on unusual formatting in exchange for staying
// well under the Tier 1 deadline.
type scanner struct {
	functionRe      *regexp.Regexp
	classRe         *regexp.Regexp
	bindingRe       *regexp.Regexp
	typeRe          *regexp.Regexp
	interfaceRe     *regexp.Regexp
	enumRe          *regexp.Regexp
	exportListRe    *regexp.Regexp
	staticImportRe  *regexp.Regexp
	dynamicImportRe *regexp.Regexp
}

func newScanner() *scanner {
	return &scanner{
		functionRe:      regexp.MustCompile(`(?m)^[ \t]*(export\s+)?(async\s+)?function\s*\*?\s+([A-Za-z_$][\w$]*)`),
		classRe:         regexp.MustCompile(`(?m)^[ \t]*(export\s+)?class\s+([A-Za-z_$][\w$]*)`),
		bindingRe:       regexp.MustCompile(`(?m)^[ \t]*(export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)`),
		typeRe:          regexp.MustCompile(`(?m)^[ \t]*(export\s+)?type\s+([A-Za-z_$][\w$]*)`),
		interfaceRe:     regexp.MustCompile(`(?m)^[ \t]*(export\s+)?interface\s+([A-Za-z_$][\w$]*)`),
		enumRe:          regexp.MustCompile(`(?m)^[ \t]*(export\s+)?enum\s+([A-Za-z_$][\w$]*)`),
		exportListRe:    regexp.MustCompile(`export\s*\{([^}]*)\}`),
		staticImportRe:  regexp.MustCompile(`import\s+([^;'"]+?)\s+from\s+["']([^"']+)["']`),
		dynamicImportRe: regexp.MustCompile(`import\(\s*["']([^"']+)["']\s*\)`),
	}
}

// exportedOriginalNames returns the set of names re-exported via a
// trailing `export { a, b as c }` list, keyed by the *original* (left of
// `as`) name — matching spec.md's rule that the exported original name is
// taken from the left of `as`.
func (s *scanner) exportedOriginalNames(text string) map[string]bool {
	out := map[string]bool{}
	for _, m := range s.exportListRe.FindAllStringSubmatch(text, -1) {
		for _, item := range strings.Split(m[1], ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			name := item
			if idx := strings.Index(item, " as "); idx >= 0 {
				name = strings.TrimSpace(item[:idx])
			}
			out[name] = true
		}
	}
	return out
}

func lineAt(text string, pos int) int {
	return strings.Count(text[:pos], "\n") + 1
}

// symbols extracts the top-level declarations from text, in the order
// they appear. Kind-specific captures are tried independently and merged
// by source position so results stay in file order.
func (s *scanner) symbols(absPath, text string) []types.Symbol {
	type hit struct {
		pos        int
		name       string
		kind       types.SymbolKind
		exportedBy bool
	}
	var hits []hit

	collect := func(re *regexp.Regexp, kind types.SymbolKind, nameGroup int) {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			name := ""
			if m[2*nameGroup] >= 0 {
				name = text[m[2*nameGroup]:m[2*nameGroup+1]]
			}
			if name == "" {
				// Every pattern requires a name, so an unnamed
				// `export default function ()` never matches and emits
				// no symbol; a match without a name is dropped here.
				continue
			}
			exported := m[2] >= 0 // group 1, "export "
			hits = append(hits, hit{pos: m[0], name: name, kind: kind, exportedBy: exported})
		}
	}

	collect(s.functionRe, types.SymbolFunction, 3)
	collect(s.classRe, types.SymbolClass, 2)
	collect(s.bindingRe, types.SymbolVariable, 2)
	collect(s.typeRe, types.SymbolType, 2)
	collect(s.interfaceRe, types.SymbolInterface, 2)
	collect(s.enumRe, types.SymbolEnum, 2)

	reExported := s.exportedOriginalNames(text)

	out := make([]types.Symbol, 0, len(hits))
	for _, h := range hits {
		out = append(out, types.Symbol{
			Name:       h.name,
			Kind:       h.kind,
			FilePath:   absPath,
			Line:       lineAt(text, h.pos),
			IsExported: h.exportedBy || reExported[h.name],
		})
	}
	sortSymbolsByLine(out)
	return out
}

func sortSymbolsByLine(symbols []types.Symbol) {
	for i := 1; i < len(symbols); i++ {
		for j := i; j > 0 && symbols[j-1].Line > symbols[j].Line; j-- {
			symbols[j-1], symbols[j] = symbols[j], symbols[j-1]
		}
	}
}

// rawImport is a not-yet-resolved import reference parsed from source
// text: a specifier string and the local names it binds.
type rawImport struct {
	specifier     string
	importedNames []string
}

// rawImports extracts static and dynamic import specifiers that begin with
// ".", discarding bare module specifiers.
func (s *scanner) rawImports(text string) []rawImport {
	var out []rawImport

	for _, m := range s.staticImportRe.FindAllStringSubmatch(text, -1) {
		clause, spec := m[1], m[2]
		if !strings.HasPrefix(spec, ".") {
			continue
		}
		out = append(out, rawImport{specifier: spec, importedNames: parseImportClause(clause)})
	}

	for _, m := range s.dynamicImportRe.FindAllStringSubmatch(text, -1) {
		spec := m[1]
		if !strings.HasPrefix(spec, ".") {
			continue
		}
		out = append(out, rawImport{specifier: spec, importedNames: []string{"*"}})
	}

	return out
}

// parseImportClause handles the three static forms: namespace (`* as X`),
// named list (`{ a, b as c }`), default binding (`Name`), and their
// default+named combination (`Name, { a, b }`).
func parseImportClause(clause string) []string {
	clause = strings.TrimSpace(clause)
	var names []string

	if idx := strings.Index(clause, "{"); idx >= 0 {
		end := strings.Index(clause, "}")
		if end > idx {
			for _, item := range strings.Split(clause[idx+1:end], ",") {
				item = strings.TrimSpace(item)
				if item == "" {
					continue
				}
				if asIdx := strings.Index(item, " as "); asIdx >= 0 {
					names = append(names, strings.TrimSpace(item[asIdx+4:]))
				} else {
					names = append(names, item)
				}
			}
		}
		head := strings.TrimSpace(clause[:idx])
		head = strings.TrimSuffix(head, ",")
		head = strings.TrimSpace(head)
		if head != "" && !strings.HasPrefix(head, "*") {
			names = append([]string{head}, names...)
		}
		return names
	}

	if strings.HasPrefix(clause, "*") {
		return []string{"*"}
	}

	if clause != "" {
		names = append(names, clause)
	}
	return names
}
