package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bootstrapkit/tierengine/internal/types"
)

func TestBuildTier0Files_SetsIdentityAndConfidence(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	discovered := []types.DiscoveredFile{
		{AbsolutePath: "/root/src/index.ts", RelativePath: "src/index.ts", Name: "index.ts", Extension: ".ts", Directory: "src", Category: types.CategoryCode, ModTime: now},
	}

	files := BuildTier0Files(discovered, now)
	require.Len(t, files, 1)
	f := files[0]
	assert.NotEmpty(t, f.FileID)
	assert.Equal(t, 0.3, f.Confidence)
	assert.Equal(t, now, f.LastIndexed)
	assert.Equal(t, types.CategoryCode, f.Category)
	assert.False(t, f.HasTests)
}

func TestBuildTier0Files_TestCategoryMarksHasTests(t *testing.T) {
	discovered := []types.DiscoveredFile{
		{RelativePath: "src/__tests__/index.test.ts", Name: "index.test.ts", Category: types.CategoryTest},
	}
	files := BuildTier0Files(discovered, time.Now())
	require.Len(t, files, 1)
	assert.True(t, files[0].HasTests)
}

func TestBuildTier0Directories_DepthAndParent(t *testing.T) {
	discovered := []types.DiscoveredFile{
		{RelativePath: "src/utils/helper.ts", Name: "helper.ts", Directory: "src/utils", Category: types.CategoryCode},
	}

	dirs := BuildTier0Directories(discovered, time.Now())
	byPath := map[string]types.DirectoryKnowledge{}
	for _, d := range dirs {
		byPath[d.RelativePath] = d
	}

	require.Contains(t, byPath, "src")
	require.Contains(t, byPath, "src/utils")

	assert.Equal(t, 1, byPath["src"].Depth)
	assert.Nil(t, byPath["src"].Parent)

	assert.Equal(t, 2, byPath["src/utils"].Depth)
	require.NotNil(t, byPath["src/utils"].Parent)
	assert.Equal(t, "src", *byPath["src/utils"].Parent)
}

func TestBuildTier0Directories_SetsAbsolutePath(t *testing.T) {
	discovered := []types.DiscoveredFile{
		{
			AbsolutePath: "/workspace/project/src/utils/helper.ts",
			RelativePath: "src/utils/helper.ts",
			Name:         "helper.ts",
			Directory:    "src/utils",
			Category:     types.CategoryCode,
		},
	}

	dirs := BuildTier0Directories(discovered, time.Now())
	byPath := map[string]types.DirectoryKnowledge{}
	for _, d := range dirs {
		byPath[d.RelativePath] = d
	}

	require.Contains(t, byPath, "src")
	require.Contains(t, byPath, "src/utils")
	assert.Equal(t, "/workspace/project/src", byPath["src"].AbsolutePath)
	assert.Equal(t, "/workspace/project/src/utils", byPath["src/utils"].AbsolutePath)
}

func TestBuildTier0Directories_FileCountVsTotalFiles(t *testing.T) {
	discovered := []types.DiscoveredFile{
		{RelativePath: "src/a.ts", Name: "a.ts", Directory: "src"},
		{RelativePath: "src/utils/b.ts", Name: "b.ts", Directory: "src/utils"},
	}

	dirs := BuildTier0Directories(discovered, time.Now())
	byPath := map[string]types.DirectoryKnowledge{}
	for _, d := range dirs {
		byPath[d.RelativePath] = d
	}

	assert.Equal(t, 1, byPath["src"].FileCount)
	assert.Equal(t, 2, byPath["src"].TotalFiles)
	assert.Equal(t, 1, byPath["src/utils"].FileCount)
	assert.Equal(t, 1, byPath["src/utils"].TotalFiles)
}

func TestBuildTier0Directories_DetectsReadmeIndexTests(t *testing.T) {
	discovered := []types.DiscoveredFile{
		{RelativePath: "README.md", Name: "README.md", Directory: ""},
		{RelativePath: "pkg/README.md", Name: "README.md", Directory: "pkg"},
		{RelativePath: "pkg/index.ts", Name: "index.ts", Directory: "pkg"},
		{RelativePath: "pkg/x.test.ts", Name: "x.test.ts", Directory: "pkg", Category: types.CategoryTest},
	}

	dirs := BuildTier0Directories(discovered, time.Now())
	var pkg types.DirectoryKnowledge
	for _, d := range dirs {
		if d.RelativePath == "pkg" {
			pkg = d
		}
	}
	assert.True(t, pkg.HasReadme)
	assert.True(t, pkg.HasIndex)
	assert.True(t, pkg.HasTests)
}
