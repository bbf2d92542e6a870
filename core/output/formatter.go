// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"time"

	"idle-profit/core/limit"
	"idle-profit/core/profit"
	"idle-profit/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report contains the complete calculation output for one action
type Report struct {
	// Profit is the economic result
	Profit *profit.Result `json:"profit"`

	// Limit is the inventory queue bound, when computed
	Limit *limit.Result `json:"limit,omitempty"`

	// SnapshotID identifies the market snapshot the prices came from
	SnapshotID string `json:"snapshot_id,omitempty"`

	// SnapshotAge is how old the market snapshot was
	SnapshotAge time.Duration `json:"snapshot_age,omitempty"`

	// GeneratedAt is when the report was produced
	GeneratedAt time.Time `json:"generated_at"`
}

// New returns the formatter for a format type
func New(format Format) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &CLIFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unknown output format: %s", format)
	}
}
