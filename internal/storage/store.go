// Package storage persists completed DDR runs so past reports can be
// listed and re-fetched through the API.
package storage

import (
	"context"
	"time"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

// Run is one completed report generation.
type Run struct {
	ID             string                 `json:"id"`
	CreatedAt      time.Time              `json:"created_at"`
	InspectionFile string                 `json:"inspection_file"`
	ThermalFile    string                 `json:"thermal_file"`
	Report         string                 `json:"report"`
	Merged         *model.MergedData      `json:"merged,omitempty"`
	Validation     model.ValidationResult `json:"validation"`
	ConflictCount  int                    `json:"conflict_count"`
}

// RunSummary is the listing view of a run, without the heavy payloads.
type RunSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	InspectionFile string    `json:"inspection_file"`
	ThermalFile    string    `json:"thermal_file"`
	ConflictCount  int       `json:"conflict_count"`
}

// RunStore is the persistence interface the pipeline and server depend on.
type RunStore interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}
