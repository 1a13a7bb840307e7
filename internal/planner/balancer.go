package planner

import (
	"container/heap"
	"fmt"
	"sort"

	"ptsplit/internal/domain"
)

// bucketHeap is a min-heap of buckets ordered by total, then by index
type bucketHeap []*domain.Bucket

func (h bucketHeap) Len() int { return len(h) }

func (h bucketHeap) Less(i, j int) bool {
	if h[i].Total != h[j].Total {
		return h[i].Total < h[j].Total
	}
	return h[i].Index < h[j].Index
}

func (h bucketHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *bucketHeap) Push(x any) { *h = append(*h, x.(*domain.Bucket)) }

func (h *bucketHeap) Pop() any {
	old := *h
	n := len(old)
	b := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return b
}

// SortByDuration returns the classes in descending order of duration.
// Equal durations are ordered by name so plans are reproducible.
func SortByDuration(data map[string]*domain.TimedTestClass) []*domain.TimedTestClass {
	sorted := make([]*domain.TimedTestClass, 0, len(data))
	for _, tc := range data {
		sorted = append(sorted, tc)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Duration != sorted[j].Duration {
			return sorted[i].Duration > sorted[j].Duration
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// Balance assigns every class to one of n buckets, longest first, always
// into the bucket with the smallest running total. This is the
// longest-processing-time heuristic; its makespan is within
// 4/3 - 1/(3n) of optimal.
func Balance(sorted []*domain.TimedTestClass, n int) []*domain.Bucket {
	if n < 1 {
		panic(fmt.Sprintf("balance: partition count must be at least 1, got %d", n))
	}

	buckets := domain.NewBuckets(n)
	h := make(bucketHeap, n)
	copy(h, buckets)
	heap.Init(&h)

	for _, tc := range sorted {
		b := heap.Pop(&h).(*domain.Bucket)
		b.Add(tc)
		heap.Push(&h, b)
	}
	return buckets
}
