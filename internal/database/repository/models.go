package repository

import "time"

// Run sources.
const (
	SourceEditor  = "editor"
	SourceConsole = "console"
	SourceCLI     = "cli"
)

// Run represents a script_runs row.
type Run struct {
	ID        string
	Source    string
	Script    string
	Code      string
	OK        bool
	Output    string
	CreatedAt time.Time
}

// Calculation represents a calculations row.
type Calculation struct {
	ID        string
	A         float64
	B         float64
	Operation string
	Result    float64
	CreatedAt time.Time
}
