package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bootstrapkit/tierengine/internal/types"
)

func writePriorityFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestPrioritize_EntryPointFromPackageJSONBubblesToFront(t *testing.T) {
	root := t.TempDir()
	writePriorityFixture(t, root, "package.json", `{"main": "./src/index.js"}`)

	files := []types.DiscoveredFile{
		{RelativePath: "src/zzz_small.ts", Name: "zzz_small.ts", SizeBytes: 10},
		{RelativePath: "src/index.js", Name: "index.js", SizeBytes: 9000},
	}

	ordered := prioritize(root, files)
	require.Len(t, ordered, 2)
	assert.Equal(t, "src/index.js", ordered[0].RelativePath)
}

func TestPrioritize_WellKnownIndexNameBubblesWithoutPackageJSON(t *testing.T) {
	root := t.TempDir()

	files := []types.DiscoveredFile{
		{RelativePath: "a.ts", Name: "a.ts", SizeBytes: 1},
		{RelativePath: "src/index.ts", Name: "index.ts", SizeBytes: 9000},
	}

	ordered := prioritize(root, files)
	assert.Equal(t, "src/index.ts", ordered[0].RelativePath)
}

func TestPrioritize_RemainingFilesSortedAscendingBySize(t *testing.T) {
	root := t.TempDir()

	files := []types.DiscoveredFile{
		{RelativePath: "big.ts", Name: "big.ts", SizeBytes: 500},
		{RelativePath: "small.ts", Name: "small.ts", SizeBytes: 10},
		{RelativePath: "medium.ts", Name: "medium.ts", SizeBytes: 100},
	}

	ordered := prioritize(root, files)
	require.Len(t, ordered, 3)
	assert.Equal(t, "small.ts", ordered[0].RelativePath)
	assert.Equal(t, "medium.ts", ordered[1].RelativePath)
	assert.Equal(t, "big.ts", ordered[2].RelativePath)
}

func TestPrioritize_TsconfigIncludeSortsBeforeGeneralOrder(t *testing.T) {
	root := t.TempDir()
	writePriorityFixture(t, root, "tsconfig.json", `{"include": ["src/priority/**"]}`)

	files := []types.DiscoveredFile{
		{RelativePath: "src/other/tiny.ts", Name: "tiny.ts", SizeBytes: 1},
		{RelativePath: "src/priority/big.ts", Name: "big.ts", SizeBytes: 9000},
	}

	ordered := prioritize(root, files)
	require.Len(t, ordered, 2)
	assert.Equal(t, "src/priority/big.ts", ordered[0].RelativePath)
}

func TestEntryPointSet_WalksExportsMapLeaves(t *testing.T) {
	root := t.TempDir()
	writePriorityFixture(t, root, "package.json", `{
		"exports": {
			".": "./src/index.js",
			"./sub": { "import": "./src/sub.js", "require": "./src/sub.cjs" }
		}
	}`)

	set := entryPointSet(root)
	assert.True(t, set["src/index.js"])
	assert.True(t, set["src/sub.js"])
	assert.True(t, set["src/sub.cjs"])
}
