package pipeline

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"bdcli/internal/analytics"
	"bdcli/internal/tablestore"
	"bdcli/pkg/contracts/domain"
)

// Stage is one sequential step of the batch run. A stage reads what earlier
// stages left in the State, fully materializes its own output, and persists
// it through the State's store before the next stage starts.
type Stage interface {
	// ID returns the unique identifier for this stage
	ID() string

	// Name returns the human-readable name for this stage
	Name() string

	// Run executes the stage against the shared pipeline state
	Run(ctx context.Context, state *State) error
}

// State is the shared run state handed from stage to stage. Each field is
// written by exactly one stage and read-only afterwards.
type State struct {
	// Workbook is the open source spreadsheet. Owned by the caller.
	Workbook *excelize.File

	// Store receives every persisted table.
	Store tablestore.Store

	// Detail holds the normalized count-indicator tables, by indicator.
	Detail map[domain.Indicator]domain.DetailTable

	// Survival holds the concatenated cohort table.
	Survival domain.SurvivalTable

	// Lookup holds the full division-to-group mapping.
	Lookup []domain.LookupEntry

	// Panel holds the merged division-by-year rows.
	Panel []domain.PanelRow

	// Summary holds the aggregated group-by-year rows.
	Summary []domain.GroupYearSummary

	// Stats holds the per-group descriptive statistics.
	Stats []analytics.GroupStats

	// artifacts collects the table names written since the last drain.
	artifacts []string
}

// NewState creates pipeline state around an open workbook and a store.
func NewState(workbook *excelize.File, store tablestore.Store) *State {
	return &State{
		Workbook: workbook,
		Store:    store,
		Detail:   make(map[domain.Indicator]domain.DetailTable),
	}
}

// persist writes a table through the store and records it as an artifact of
// the running stage.
func (s *State) persist(ctx context.Context, table tablestore.Table) error {
	if err := s.Store.Write(ctx, table); err != nil {
		return err
	}
	s.artifacts = append(s.artifacts, table.Name)
	return nil
}

// drainArtifacts returns and clears the artifact names accumulated so far.
func (s *State) drainArtifacts() []string {
	out := s.artifacts
	s.artifacts = nil
	return out
}

// StageStatus represents the terminal status of a stage execution.
type StageStatus string

const (
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// StageExecution records one stage's run for the manifest.
type StageExecution struct {
	StageID   string      `json:"stage_id"`
	StageName string      `json:"stage_name"`
	Status    StageStatus `json:"status"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Duration  string      `json:"duration"`
	Artifacts []string    `json:"artifacts,omitempty"`
	Error     string      `json:"error,omitempty"`
}
