package cli

import "ptsplit/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath     string
	LogLevel        string
	Parallelism     string
	Build           int
	Result          string
	Reports         string
	Filter          string
	NoArchive       bool
	CreateDatabases bool
	Plain           bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Parallelism:     f.Parallelism,
		Build:           f.Build,
		Result:          f.Result,
		Reports:         f.Reports,
		Filter:          f.Filter,
		NoArchive:       f.NoArchive,
		CreateDatabases: f.CreateDatabases,
		Plain:           f.Plain,
	}
}
