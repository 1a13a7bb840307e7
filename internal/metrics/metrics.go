// Package metrics exports the shape of a split plan in the Prometheus text
// format so a node exporter textfile collector can pick it up.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"ptsplit/internal/domain"
)

// Collector holds the gauges describing one plan
type Collector struct {
	registry       *prometheus.Registry
	partitions     prometheus.Gauge
	classes        prometheus.Gauge
	bucketDuration *prometheus.GaugeVec
	stddev         prometheus.Gauge
	referenceBuild prometheus.Gauge
}

// NewCollector creates a Collector backed by its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		partitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ptsplit_partitions",
			Help: "Number of partitions in the last plan.",
		}),
		classes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ptsplit_test_classes",
			Help: "Number of timed test classes the last plan distributed.",
		}),
		bucketDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ptsplit_bucket_duration_ms",
			Help: "Expected duration of each partition in milliseconds.",
		}, []string{"partition"}),
		stddev: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ptsplit_plan_stddev_ms",
			Help: "Standard deviation of partition durations in milliseconds.",
		}),
		referenceBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ptsplit_reference_build",
			Help: "Build number the durations came from, 0 if none.",
		}),
	}
	c.registry.MustRegister(c.partitions, c.classes, c.bucketDuration, c.stddev, c.referenceBuild)
	return c
}

// Observe sets every gauge from manifest, replacing earlier observations
func (c *Collector) Observe(manifest *domain.PlanManifest) {
	c.partitions.Set(float64(len(manifest.Partitions)))
	c.classes.Set(float64(manifest.Stats.Classes))
	c.stddev.Set(float64(manifest.Stats.StdDev))
	c.referenceBuild.Set(float64(manifest.Reference))

	c.bucketDuration.Reset()
	for _, p := range manifest.Partitions {
		c.bucketDuration.WithLabelValues(strconv.Itoa(p.Index)).Set(float64(p.TotalMs))
	}
}

// WriteToTextfile writes the gauges of manifest to path
func WriteToTextfile(path string, manifest *domain.PlanManifest) error {
	c := NewCollector()
	c.Observe(manifest)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
