package tierengine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func sampleWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"main": "./src/index.js"}`)
	writeFile(t, root, "src/index.ts", "export function main() {}\nexport async function asyncMain() {}")
	writeFile(t, root, "src/config.ts", "export interface Config {}\nexport class ConfigManager {}\nexport const DEFAULT_CONFIG = {}")
	writeFile(t, root, "src/utils/helper.ts", "import { format } from './format.js'\nexport function helper() {}")
	writeFile(t, root, "src/utils/format.ts", "export function format() {}\nexport interface FormatOptions {}")
	writeFile(t, root, "src/__tests__/index.test.ts", "test('x', () => {})")
	writeFile(t, root, "README.md", "# hi")
	return root
}

func TestEngine_DefaultRun_CompletesWithExpectedFiles(t *testing.T) {
	root := sampleWorkspace(t)
	eng := New(Options{RootPath: root})

	require.NoError(t, eng.Start(context.Background()))

	status := eng.GetStatus()
	assert.True(t, status.IsComplete)
	assert.NoError(t, status.Err)

	names := make([]string, 0)
	for _, f := range eng.GetDiscoveredFiles() {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"index.ts", "config.ts", "helper.ts", "format.ts",
		"index.test.ts", "README.md", "package.json",
	}, names)

	assert.True(t, eng.IsFeatureEnabled(FeatureFileSearch))
	assert.True(t, eng.IsFeatureEnabled(FeatureSymbolSearch))
	assert.True(t, eng.IsFeatureEnabled(FeatureFullAnalysis))
}

func TestEngine_CustomBackendReceivesRecords(t *testing.T) {
	root := sampleWorkspace(t)
	backend := NewMemoryBackend()
	eng := New(Options{RootPath: root, Backend: backend})

	require.NoError(t, eng.Start(context.Background()))
	assert.NotEmpty(t, backend.Files())
	assert.NotEmpty(t, backend.Directories())
}

func TestEngine_OnTierCompleteFiresInOrder(t *testing.T) {
	root := sampleWorkspace(t)
	var mu sync.Mutex
	var seen []Tier
	eng := New(Options{
		RootPath: root,
		OnTierComplete: func(tier Tier, _ TierStats) {
			mu.Lock()
			seen = append(seen, tier)
			mu.Unlock()
		},
	})

	require.NoError(t, eng.Start(context.Background()))
	assert.Equal(t, []Tier{TierImmediate, TierFast, TierFull}, seen)
}

func TestEngine_OnProgressEndsAtOneEachTier(t *testing.T) {
	root := sampleWorkspace(t)
	var mu sync.Mutex
	last := map[Tier]float64{}
	eng := New(Options{
		RootPath: root,
		OnProgress: func(tier Tier, f float64) {
			mu.Lock()
			last[tier] = f
			mu.Unlock()
		},
	})

	require.NoError(t, eng.Start(context.Background()))
	assert.Equal(t, 1.0, last[TierImmediate])
	assert.Equal(t, 1.0, last[TierFast])
	assert.Equal(t, 1.0, last[TierFull])
}

func TestEngine_AbortMidRun_LeavesLaterTiersUnresolved(t *testing.T) {
	root := sampleWorkspace(t)
	var eng *Engine
	eng = New(Options{
		RootPath: root,
		OnTierComplete: func(tier Tier, _ TierStats) {
			if tier == TierImmediate {
				eng.Abort()
			}
		},
	})

	require.NoError(t, eng.Start(context.Background()))
	assert.LessOrEqual(t, eng.GetStatus().CurrentTier, TierFast)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, eng.WaitForTier(ctx, TierFast))
}

func TestEngine_KDLFileSuppliesDeadlineOverriddenByOptions(t *testing.T) {
	root := sampleWorkspace(t)
	writeFile(t, root, ".bootstrap.kdl", "tier0_deadline_ms 5000\ntier1_deadline_ms 9000\n")

	eng := New(Options{RootPath: root, Tier1DeadlineMs: 7000})
	require.NoError(t, eng.Start(context.Background()))
	assert.True(t, eng.GetStatus().IsComplete)
}

func TestEngine_RootPathThatDoesNotExist_StillCompletes(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	eng := New(Options{RootPath: root})

	require.NoError(t, eng.Start(context.Background()))
	assert.Empty(t, eng.GetDiscoveredFiles())
	assert.True(t, eng.GetStatus().IsComplete)
}

func TestEngine_WaitForTierBeforeStart_ResolvesOnceRunCompletes(t *testing.T) {
	root := sampleWorkspace(t)
	eng := New(Options{RootPath: root})

	done := make(chan error, 1)
	go func() {
		done <- eng.WaitForTier(context.Background(), TierFast)
	}()

	require.NoError(t, eng.Start(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waitForTier did not resolve")
	}
}

func TestVersion_IsNonEmptySemanticString(t *testing.T) {
	assert.NotEmpty(t, Version())
	assert.Contains(t, FullVersion(), Version())
}
