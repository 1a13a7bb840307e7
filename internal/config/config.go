package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"-"`
	HistoryDir  string `yaml:"history_dir"`

	// Split output settings
	SplitDir          string   `yaml:"split_dir"`
	ExclusionSuffixes []string `yaml:"exclusion_suffixes"`

	// Report settings
	ReportsDir     string   `yaml:"reports_dir"`
	ReportPattern  string   `yaml:"report_pattern"`
	ArchiveResults bool     `yaml:"archive_results"`
	PathsToIgnore  []string `yaml:"paths_to_ignore"`

	// Execution settings
	Parallelism         string   `yaml:"parallelism"`
	TestCommand         []string `yaml:"test_command"`
	SkipEmptyPartitions bool     `yaml:"skip_empty_partitions"`

	// Database settings
	DatabasePrefix string   `yaml:"database_prefix"`
	SetupCommand   []string `yaml:"setup_command"`

	// Observability
	MetricsFile string `yaml:"metrics_file"`
	LogLevel    string `yaml:"log_level"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags
type Flags struct {
	Parallelism     string
	Build           int
	Result          string
	Reports         string
	Filter          string
	NoArchive       bool
	CreateDatabases bool
	Plain           bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		HistoryDir:     DefaultHistoryDir,
		SplitDir:       DefaultSplitDir,
		ReportsDir:     DefaultReportsDir,
		ReportPattern:  DefaultReportPattern,
		ArchiveResults: true,
		Parallelism:    DefaultParallelism,
		DatabasePrefix: DefaultDatabasePrefix,
		LogLevel:       DefaultLogLevel,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// ApplyFlags copies flag overrides onto the config
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Parallelism != "" {
		c.Parallelism = flags.Parallelism
	}
	if flags.NoArchive {
		c.ArchiveResults = false
	}
}

// resolve makes p relative to the project path unless it is absolute
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectPath, p)
}

// GetHistoryDir returns the build history directory
func (c *Config) GetHistoryDir() string {
	return c.resolve(c.HistoryDir)
}

// GetSplitDir returns the directory split files are written to
func (c *Config) GetSplitDir() string {
	return c.resolve(c.SplitDir)
}

// GetSplitFile returns the exclusion file of the partition with the given index
func (c *Config) GetSplitFile(index int) string {
	return filepath.Join(c.GetSplitDir(), "split."+strconv.Itoa(index)+".txt")
}

// GetPlanPath returns the path of the plan manifest.
// Resolves to an absolute path so plan and show agree regardless of cwd.
func (c *Config) GetPlanPath() string {
	p := filepath.Join(c.GetSplitDir(), "plan.json")
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetReportsDir returns the directory partitions write their reports to
func (c *Config) GetReportsDir() string {
	if c.Flags.Reports != "" {
		return c.Flags.Reports
	}
	return c.resolve(c.ReportsDir)
}

// GetPartitionReportsDir returns the reports directory of one partition
func (c *Config) GetPartitionReportsDir(partition int) string {
	return filepath.Join(c.GetReportsDir(), fmt.Sprintf("partition-%d", partition))
}

// GetPartitionReportsGlob matches the reports directories of all partitions
func (c *Config) GetPartitionReportsGlob() string {
	return filepath.Join(c.GetReportsDir(), "partition-*")
}

// GetMetricsFile returns the Prometheus textfile path, empty when disabled
func (c *Config) GetMetricsFile() string {
	if c.MetricsFile == "" {
		return ""
	}
	return c.resolve(c.MetricsFile)
}

// GetDatabaseName returns the database name for a partition (1-based)
func (c *Config) GetDatabaseName(partition int) string {
	prefix := c.DatabasePrefix
	if env := os.Getenv("DB_DATABASE_PREFIX"); env != "" {
		prefix = env
	}
	if prefix == "" {
		prefix = DefaultDatabasePrefix
	}
	return fmt.Sprintf("%s_%d", prefix, partition)
}
