package domain

import "fmt"

// TimedTestClass is one test class and its duration in the reference build
type TimedTestClass struct {
	Name     string  // Fully-qualified class name
	Duration int64   // Milliseconds
	Bucket   *Bucket // Set once by the balancer
}

// Bucket accumulates test classes for one parallel partition
type Bucket struct {
	Index   int
	Total   int64
	Classes []*TimedTestClass
}

// NewBuckets creates n empty buckets indexed 0..n-1
func NewBuckets(n int) []*Bucket {
	buckets := make([]*Bucket, n)
	for i := range buckets {
		buckets[i] = &Bucket{Index: i}
	}
	return buckets
}

// Add assigns tc to the bucket. Assignment is permanent for a planning run.
func (b *Bucket) Add(tc *TimedTestClass) {
	if tc.Bucket != nil {
		panic(fmt.Sprintf("test class %s already assigned to bucket %d", tc.Name, tc.Bucket.Index))
	}
	tc.Bucket = b
	b.Total += tc.Duration
	b.Classes = append(b.Classes, tc)
}

// Names returns the names of the classes assigned to the bucket
func (b *Bucket) Names() []string {
	names := make([]string, len(b.Classes))
	for i, tc := range b.Classes {
		names[i] = tc.Name
	}
	return names
}
