package domain

// Stats summarizes the balance of a split plan. All values are milliseconds.
type Stats struct {
	Classes int   `json:"classes"`
	Total   int64 `json:"total_ms"`
	Min     int64 `json:"min_ms"`
	Average int64 `json:"average_ms"`
	Max     int64 `json:"max_ms"`
	StdDev  int64 `json:"stddev_ms"`
}

// SplitPlan is the output of a planning run: one exclusion list per partition
type SplitPlan struct {
	Exclusions [][]string
	Buckets    []*Bucket // nil when no history was available
	Stats      Stats
	Reference  int // Build number the durations came from, 0 if none
}

// Partitions returns the number of partitions in the plan
func (p *SplitPlan) Partitions() int {
	return len(p.Exclusions)
}

// Unpartitioned returns the plan used when no history is available:
// a single partition that excludes nothing.
func Unpartitioned() *SplitPlan {
	return &SplitPlan{Exclusions: [][]string{{}}}
}

// PlanManifest is the persisted description of the last planning run
type PlanManifest struct {
	RunID      string              `json:"run_id"`
	Reference  int                 `json:"reference_build"`
	Build      int                 `json:"build"`
	Timestamp  string              `json:"timestamp"`
	Stats      Stats               `json:"stats"`
	Partitions []PartitionManifest `json:"partitions"`
}

// PartitionManifest describes one partition of a persisted plan
type PartitionManifest struct {
	Index     int      `json:"index"`
	SplitFile string   `json:"split_file"`
	TotalMs   int64    `json:"total_ms"`
	Included  []string `json:"included"`
	Excluded  int      `json:"excluded"`
}
