package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest records one pipeline run: identity, stage executions and the
// artifacts each stage produced. It is diagnostic metadata, not a pipeline
// artifact, so failed runs still get one.
type Manifest struct {
	RunID       string           `json:"run_id"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Status      string           `json:"status"` // "completed" or "failed"
	Stages      []StageExecution `json:"stages"`
	Error       string           `json:"error,omitempty"`
	LastUpdated time.Time        `json:"last_updated"`
}

// recordStage appends one stage execution.
func (m *Manifest) recordStage(exec StageExecution) {
	m.Stages = append(m.Stages, exec)
	m.LastUpdated = time.Now()
}

// Save writes the manifest as indented JSON. Like every other file the run
// produces, it lands complete or not at all.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a previously saved manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
