package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Well-known artifact file names. The per-indicator tables, the lookup, the
// panel and the summary are the pipeline's inter-stage interface; their names
// are part of the contract with the downstream chart renderer.
const (
	ActiveCSV     = "active_by_division.csv"
	BirthsCSV     = "births_by_division.csv"
	DeathsCSV     = "deaths_by_division.csv"
	HighGrowthCSV = "high_growth_by_division.csv"
	SurvivalCSV   = "survival_cohorts.csv"
	LookupCSV     = "division_group_lookup.csv"
	PanelCSV      = "industry_year_panel.csv"
	SummaryCSV    = "group_year_summary.csv"
	GroupStatsCSV = "group_survival_stats.csv"
	ManifestJSON  = "run_manifest.json"
)

// Paths is the single source of truth for every file location the pipeline
// touches. All paths resolve relative to the working directory unless the
// configuration supplies absolute ones.
type Paths struct {
	DataDir    string
	ReportsDir string
	LogsDir    string
	Workbook   string
}

// NewPaths builds the resolved path set from configuration.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{
		DataDir:    cfg.DataDir,
		ReportsDir: cfg.ReportsDir,
		LogsDir:    cfg.LogsDir,
		Workbook:   cfg.Workbook,
	}
}

// EnsureDirectories creates every directory the pipeline writes into.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the full path of a report artifact.
func (p *Paths) GetReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// GetLogPath returns the full path of a log file.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}
