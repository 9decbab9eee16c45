package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fincalc/pkg/core/formula"
)

// ResultsRepo stores materialized formula batch results.
type ResultsRepo struct{}

// NewResultsRepo creates a repository instance.
func NewResultsRepo() *ResultsRepo {
	return &ResultsRepo{}
}

// SavedRun identifies one persisted batch evaluation.
type SavedRun struct {
	RunID   uuid.UUID `json:"run_id"`
	Label   string    `json:"label"`
	SavedAt time.Time `json:"saved_at"`
}

// Save persists one batch result as a JSONB blob keyed by a fresh run id.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS formula_runs (
//	  run_id UUID PRIMARY KEY,
//	  label TEXT,
//	  result_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
func (r *ResultsRepo) Save(ctx context.Context, label string, result *formula.Result) (*SavedRun, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	run := &SavedRun{
		RunID:   uuid.New(),
		Label:   label,
		SavedAt: time.Now(),
	}

	query := `
		INSERT INTO formula_runs (run_id, label, result_json, created_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := pool.Exec(ctx, query, run.RunID, run.Label, jsonData, run.SavedAt); err != nil {
		return nil, fmt.Errorf("failed to save formula run: %w", err)
	}
	return run, nil
}

// Load retrieves a persisted batch result by run id.
func (r *ResultsRepo) Load(ctx context.Context, runID uuid.UUID) (*formula.Result, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	query := `SELECT result_json FROM formula_runs WHERE run_id = $1;`
	if err := pool.QueryRow(ctx, query, runID).Scan(&jsonData); err != nil {
		return nil, fmt.Errorf("failed to load formula run %s: %w", runID, err)
	}

	var result formula.Result
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}
