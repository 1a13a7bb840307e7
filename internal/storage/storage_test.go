package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return cfg
}

func samplePlan() *domain.SplitPlan {
	buckets := domain.NewBuckets(2)
	a := &domain.TimedTestClass{Name: "com.example.ATest", Duration: 30}
	b := &domain.TimedTestClass{Name: "com.example.BTest", Duration: 20}
	c := &domain.TimedTestClass{Name: "com.example.CTest", Duration: 10}
	buckets[0].Add(a)
	buckets[1].Add(b)
	buckets[1].Add(c)
	return &domain.SplitPlan{
		Exclusions: [][]string{{b.Name, c.Name}, {a.Name}},
		Buckets:    buckets,
		Stats:      domain.Stats{Classes: 3, Total: 60, Min: 30, Average: 30, Max: 30},
		Reference:  4,
	}
}

func TestSplitWriter_Write(t *testing.T) {
	cfg := testConfig(t)
	writer := NewSplitWriter(cfg)

	// Leftovers from a previous run must disappear
	require.NoError(t, os.MkdirAll(cfg.GetSplitDir(), 0755))
	stale := cfg.GetSplitFile(7)
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))
	keep := filepath.Join(cfg.GetSplitDir(), "notes.txt")
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0644))

	paths, err := writer.Write(samplePlan())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, keep)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "com.example.BTest\ncom.example.CTest\n", string(data))

	data, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "com.example.ATest\n", string(data))
}

func TestSplitWriter_WithSuffixes(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExclusionSuffixes = []string{".java", ".class"}

	paths, err := NewSplitWriter(cfg).Write(samplePlan())
	require.NoError(t, err)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "com/example/ATest.java\ncom/example/ATest.class\n", string(data))
}

func TestSplitWriter_Unpartitioned(t *testing.T) {
	cfg := testConfig(t)
	paths, err := NewSplitWriter(cfg).Write(domain.Unpartitioned())
	require.NoError(t, err)
	require.Len(t, paths, 1)

	info, err := os.Stat(paths[0])
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	assert.Equal(t, filepath.Join(cfg.GetSplitDir(), "split.0.txt"), paths[0])
}

func TestExclusionTokens(t *testing.T) {
	assert.Equal(t, []string{"a.b.C"}, ExclusionTokens("a.b.C", nil))
	assert.Equal(t, []string{"a/b/C.java"}, ExclusionTokens("a.b.C", []string{".java"}))
}

func TestJSONStorage_RoundTrip(t *testing.T) {
	cfg := testConfig(t)
	st := NewJSONStorage(cfg)
	plan := samplePlan()

	manifest := NewManifest(plan, []string{"s0", "s1"}, "run-1", 5)
	require.Len(t, manifest.Partitions, 2)
	assert.Equal(t, []string{"com.example.BTest", "com.example.CTest"}, manifest.Partitions[1].Included)
	assert.Equal(t, int64(30), manifest.Partitions[1].TotalMs)
	assert.Equal(t, 1, manifest.Partitions[1].Excluded)

	require.NoError(t, st.SavePlan(manifest))
	loaded, err := st.LoadPlan()
	require.NoError(t, err)
	assert.Equal(t, manifest, loaded)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	_, err := NewJSONStorage(testConfig(t)).LoadPlan()
	assert.Error(t, err)
}

func TestNewManifest_Unpartitioned(t *testing.T) {
	manifest := NewManifest(domain.Unpartitioned(), []string{"s0"}, "run", 1)
	require.Len(t, manifest.Partitions, 1)
	assert.Empty(t, manifest.Partitions[0].Included)
	assert.Equal(t, "s0", manifest.Partitions[0].SplitFile)
}
