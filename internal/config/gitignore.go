package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitignorePattern is a single parsed line from a .gitignore file.
type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// GitignoreParser accumulates patterns from a .gitignore file and converts
// them into doublestar-style exclusion globs for Discovery.
type GitignoreParser struct {
	patterns []GitignorePattern
}

func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore reads root/.gitignore. A missing file is not an error: the
// caller just gets no extra exclusions.
func (gp *GitignoreParser) LoadGitignore(root string) error {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.patterns = append(gp.patterns, parsePattern(line))
	}
	return scanner.Err()
}

func parsePattern(line string) GitignorePattern {
	p := GitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = line[1:]
	}
	p.Pattern = line
	return p
}

// ExclusionGlobs converts the parsed patterns into doublestar exclusion
// globs usable alongside Config.ExcludePatterns. Negated patterns are
// dropped: re-inclusion after exclusion is not a Discovery feature.
func (gp *GitignoreParser) ExclusionGlobs() []string {
	var out []string
	for _, p := range gp.patterns {
		if p.Negate {
			continue
		}
		out = append(out, toGlob(p))
	}
	return out
}

func toGlob(p GitignorePattern) string {
	path := p.Pattern
	switch {
	case p.Directory && p.Absolute:
		return path + "/**"
	case p.Directory:
		return "**/" + path + "/**"
	case p.Absolute:
		return path
	case strings.Contains(path, "/"):
		return "**/" + path
	default:
		return "**/" + path
	}
}
