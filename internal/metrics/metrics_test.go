package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptsplit/internal/domain"
)

func manifest() *domain.PlanManifest {
	return &domain.PlanManifest{
		Reference: 12,
		Stats:     domain.Stats{Classes: 5, StdDev: 10},
		Partitions: []domain.PartitionManifest{
			{Index: 0, TotalMs: 160},
			{Index: 1, TotalMs: 140},
		},
	}
}

func TestCollector_Observe(t *testing.T) {
	c := NewCollector()
	c.Observe(manifest())

	assert.Equal(t, 2.0, testutil.ToFloat64(c.partitions))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.classes))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.stddev))
	assert.Equal(t, 160.0, testutil.ToFloat64(c.bucketDuration.WithLabelValues("0")))
	assert.Equal(t, 140.0, testutil.ToFloat64(c.bucketDuration.WithLabelValues("1")))

	// A smaller plan drops stale partition series
	c.Observe(&domain.PlanManifest{Partitions: []domain.PartitionManifest{{Index: 0, TotalMs: 1}}})
	assert.Equal(t, 1, testutil.CollectAndCount(c.bucketDuration))
}

func TestWriteToTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "ptsplit.prom")
	require.NoError(t, WriteToTextfile(path, manifest()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "ptsplit_partitions 2")
	assert.Contains(t, out, `ptsplit_bucket_duration_ms{partition="1"} 140`)
	assert.Contains(t, out, "ptsplit_plan_stddev_ms 10")
	assert.Contains(t, out, "ptsplit_reference_build 12")
}
