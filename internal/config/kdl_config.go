package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load a .bootstrap.kdl file from root. It returns
// (nil, nil) when the file doesn't exist, so callers fall back to
// Default.
func LoadKDL(root string) (*Config, error) {
	kdlPath := filepath.Join(root, ".bootstrap.kdl")

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .bootstrap.kdl: %w", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		cfg.Root = root
	} else if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Clean(filepath.Join(root, cfg.Root))
	}
	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cfg := Default("")

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse .bootstrap.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "root":
			if s, ok := firstStringArg(n); ok {
				cfg.Root = s
			}
		case "include":
			cfg.IncludePatterns = append(cfg.IncludePatterns, collectStringArgs(n)...)
		case "exclude":
			cfg.ExcludePatterns = append(cfg.ExcludePatterns, collectStringArgs(n)...)
		case "max_file_size":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxFileSizeBytes = int64(v)
			} else if s, ok := firstStringArg(n); ok {
				if sz, err := parseSize(s); err == nil {
					cfg.MaxFileSizeBytes = sz
				}
			}
		case "tier0_deadline_ms":
			if v, ok := firstIntArg(n); ok {
				cfg.Tier0DeadlineMs = v
			}
		case "tier1_deadline_ms":
			if v, ok := firstIntArg(n); ok {
				cfg.Tier1DeadlineMs = v
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

// collectStringArgs gathers string values from a node's inline arguments,
// or, failing that, from child node names (KDL's block list idiom: exclude
// { "**/*.log" }).
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// parseSize handles size strings like "2MB", "512KB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	default:
		numStr = s
	}

	var n int64
	if _, err := fmt.Sscanf(strings.TrimSpace(numStr), "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * multiplier, nil
}
