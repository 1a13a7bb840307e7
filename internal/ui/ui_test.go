package ui

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"ptsplit/internal/config"
	"ptsplit/internal/discovery"
	"ptsplit/internal/domain"
)

func init() {
	color.NoColor = true
}

func sampleManifest(projectPath string) *domain.PlanManifest {
	return &domain.PlanManifest{
		RunID:     "run-1",
		Reference: 7,
		Stats:     domain.Stats{Classes: 3, Total: 3000, Min: 1000, Average: 1500, Max: 2000, StdDev: 500},
		Partitions: []domain.PartitionManifest{
			{Index: 0, SplitFile: filepath.Join(projectPath, "test-splits", "split.0.txt"), TotalMs: 2000, Included: []string{"com.example.SlowTest"}, Excluded: 2},
			{Index: 1, SplitFile: filepath.Join(projectPath, "test-splits", "split.1.txt"), TotalMs: 1000, Included: []string{"com.example.ATest", "com.example.BTest"}, Excluded: 1},
		},
	}
}

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "0s", FormatMs(0))
	assert.Equal(t, "1.5s", FormatMs(1500))
	assert.Equal(t, "2m0s", FormatMs(120000))
}

func TestFormatter_PrintPlan(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	var buf bytes.Buffer
	f := NewFormatter(cfg)
	f.SetOutput(&buf)

	f.PrintPlan(sampleManifest(cfg.ProjectPath))

	out := buf.String()
	assert.Contains(t, out, "Test Split Plan")
	assert.Contains(t, out, "#7")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "partition 0 1 classes, 2s "+filepath.Join("test-splits", "split.0.txt"))
	assert.Contains(t, out, "└── partition 1 2 classes, 1s")
}

func TestFormatter_PrintResults(t *testing.T) {
	cfg := config.New()
	var buf bytes.Buffer
	f := NewFormatter(cfg)
	f.SetOutput(&buf)

	f.PrintResults([]domain.PartitionResult{
		{Partition: 1, Success: true},
		{Partition: 2, Success: false, Error: errors.New("exit status 1"), Output: strings.Repeat("line\n", 20) + "boom\n"},
	}, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "1 partition(s) failed")
	assert.Contains(t, out, "partition 2 exit status 1")
	assert.Contains(t, out, "1.50s")
	assert.Contains(t, out, "      boom")
	assert.Equal(t, 10, strings.Count(out, "      line")+strings.Count(out, "      boom"))
}

func TestFormatter_PrintResultsAllPassed(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(config.New())
	f.SetOutput(&buf)

	f.PrintResults([]domain.PartitionResult{{Partition: 1, Success: true}}, time.Second)
	assert.Contains(t, buf.String(), "All partitions passed")
}

func TestPlanViewer_Formatting(t *testing.T) {
	manifest := sampleManifest("/work")

	pv := NewPlanViewer(discovery.NewFilter(), "")
	details := pv.formatPartitionDetails(manifest.Partitions[1])
	assert.Contains(t, details, "com.example.ATest")
	assert.Contains(t, details, "com.example.BTest")

	pv = NewPlanViewer(discovery.NewFilter(), "*BTest")
	details = pv.formatPartitionDetails(manifest.Partitions[1])
	assert.NotContains(t, details, "com.example.ATest")
	assert.Contains(t, details, "(1 of 2)")

	details = pv.formatPartitionDetails(manifest.Partitions[0])
	assert.Contains(t, details, "no test classes")

	stats := pv.formatPartitionStats(manifest.Partitions[1], manifest.Stats)
	assert.Contains(t, stats, "50% of max")

	header := pv.formatHeader(manifest)
	assert.Contains(t, header, "2 partitions, 3 classes, reference #7")
}
