package domain

import "time"

// PartitionResult represents the result of executing one partition
type PartitionResult struct {
	Partition int           // 1-based sequence number of the partition
	SplitFile string        // Exclusion file the child ran with
	Success   bool          // Whether the child exited cleanly
	Output    string        // Combined output of the child
	Error     error         // Error if execution failed
	Duration  time.Duration // Time taken to execute
}

// DatabaseSetupResult represents the result of preparing one partition database
type DatabaseSetupResult struct {
	Partition int
	Database  string
	Success   bool
	Output    string
	Error     error
}
