package planner

import (
	"math"

	"ptsplit/internal/domain"
)

// Encode turns bucket assignments into one exclusion list per bucket.
// Each list holds, in the order of sorted, every class not in that bucket.
func Encode(buckets []*domain.Bucket, sorted []*domain.TimedTestClass) domain.SplitPlan {
	exclusions := make([][]string, len(buckets))
	for i, b := range buckets {
		excluded := make([]string, 0, len(sorted)-len(b.Classes))
		for _, tc := range sorted {
			if tc.Bucket == b {
				continue
			}
			excluded = append(excluded, tc.Name)
		}
		exclusions[i] = excluded
	}

	stats := ComputeStats(buckets)
	stats.Classes = len(sorted)
	return domain.SplitPlan{
		Exclusions: exclusions,
		Buckets:    buckets,
		Stats:      stats,
	}
}

// ComputeStats summarizes bucket totals. The average is integer division and
// the standard deviation uses the population variance.
func ComputeStats(buckets []*domain.Bucket) domain.Stats {
	if len(buckets) == 0 {
		return domain.Stats{}
	}

	var stats domain.Stats
	stats.Min = math.MaxInt64
	stats.Max = math.MinInt64
	for _, b := range buckets {
		stats.Total += b.Total
		stats.Min = min(stats.Min, b.Total)
		stats.Max = max(stats.Max, b.Total)
	}

	n := int64(len(buckets))
	stats.Average = stats.Total / n

	var variance int64
	for _, b := range buckets {
		d := b.Total - stats.Average
		variance += d * d
	}
	variance /= n
	stats.StdDev = int64(math.Sqrt(float64(variance)))
	return stats
}
