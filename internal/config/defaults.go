package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultHistoryDir is where build records and their reports are archived
	DefaultHistoryDir = ".ptsplit/history"
	// DefaultSplitDir is where split files and the plan manifest are written
	DefaultSplitDir = "test-splits"
	// DefaultReportsDir is where partitions write their JUnit reports
	DefaultReportsDir = "test-splits/reports"
	// DefaultReportPattern matches report files by base name
	DefaultReportPattern = "*.xml"
	// DefaultParallelism is the default partition policy
	DefaultParallelism = "count:4"
	// DefaultDatabasePrefix names per-partition databases <prefix>_<n>
	DefaultDatabasePrefix = "testing"
	// DefaultLogLevel is the default log level
	DefaultLogLevel = "info"
	// ConfigFileName is the optional project configuration file
	ConfigFileName = ".ptsplit.yaml"
)

// DefaultPathsToIgnore are the directories skipped when scanning for reports
var DefaultPathsToIgnore = []string{
	"node_modules",
	"vendor",
}
