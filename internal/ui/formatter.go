package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"ptsplit/internal/config"
	"ptsplit/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg, out: os.Stdout}
}

// SetOutput redirects the formatter, e.g. in tests
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

// FormatMs renders a millisecond duration the way the tables show it
func FormatMs(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func (f *Formatter) row(label string, value string, paint func(format string, a ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", label, paint("%-27s", value))
}

func (f *Formatter) separator() {
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// PrintPlan displays the statistics of a plan manifest
func (f *Formatter) PrintPlan(manifest *domain.PlanManifest) {
	stats := manifest.Stats

	fmt.Fprint(f.out, "\n")
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                       Test Split Plan                         ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	reference := "none"
	if manifest.Reference > 0 {
		reference = fmt.Sprintf("#%d", manifest.Reference)
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Partitions", fmt.Sprint(len(manifest.Partitions)), color.WhiteString)
	f.separator()
	f.row("Test Classes", fmt.Sprint(stats.Classes), color.WhiteString)
	f.separator()
	f.row("Reference Build", reference, color.WhiteString)
	f.separator()
	f.row("Total", FormatMs(stats.Total), color.WhiteString)
	f.separator()
	f.row("Min", FormatMs(stats.Min), color.GreenString)
	f.separator()
	f.row("Average", FormatMs(stats.Average), color.WhiteString)
	f.separator()
	f.row("Max", FormatMs(stats.Max), color.YellowString)
	f.separator()
	f.row("Std Deviation", FormatMs(stats.StdDev), color.WhiteString)
	f.separator()
	f.row("Run ID", manifest.RunID, color.WhiteString)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")
	fmt.Fprintln(f.out)

	f.PrintPartitions(manifest.Partitions)
}

// PrintPartitions prints one line per partition as a tree
func (f *Formatter) PrintPartitions(partitions []domain.PartitionManifest) {
	for i, p := range partitions {
		connector := "├──"
		if i == len(partitions)-1 {
			connector = "└──"
		}
		split := p.SplitFile
		if rel, err := filepath.Rel(f.config.ProjectPath, split); err == nil && !strings.HasPrefix(rel, "..") {
			split = rel
		}
		fmt.Fprintf(f.out, "%s %s %s %s\n",
			color.CyanString(connector),
			color.CyanString("partition %d", p.Index),
			color.YellowString("%d classes, %s", len(p.Included), FormatMs(p.TotalMs)),
			split,
		)
	}
}

// PrintResults displays the outcome of triggered partitions
func (f *Formatter) PrintResults(results []domain.PartitionResult, duration time.Duration) {
	var failed []domain.PartitionResult
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}

	fmt.Fprint(f.out, "\n")
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Partitions", fmt.Sprint(len(results)), color.WhiteString)
	f.separator()
	f.row("Passed Partitions", fmt.Sprint(len(results)-len(failed)), color.GreenString)
	f.separator()
	f.row("Failed Partitions", fmt.Sprint(len(failed)), color.RedString)
	f.separator()
	f.row("Duration", fmt.Sprintf("%.2fs", duration.Seconds()), color.WhiteString)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")
	fmt.Fprintln(f.out)

	if len(failed) == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All partitions passed!"))
		return
	}

	fmt.Fprintln(f.out, color.RedString("✗ %d partition(s) failed", len(failed)))
	for _, r := range failed {
		fmt.Fprintf(f.out, "  |_%s %s\n", color.RedString("partition %d", r.Partition), r.Error)
		if tail := lastLines(r.Output, 10); tail != "" {
			fmt.Fprintln(f.out, tail)
		}
	}
}

// lastLines returns up to n trailing lines of output, indented
func lastLines(output string, n int) string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, line := range lines {
		lines[i] = "      " + line
	}
	return strings.Join(lines, "\n")
}
