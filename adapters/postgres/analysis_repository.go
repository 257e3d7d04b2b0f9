package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"valuerank/domain/analysis"
	"valuerank/domain/core"
	apperrors "valuerank/internal/errors"
	"valuerank/ports"
)

// AnalysisRepositoryImpl implements AnalysisReader for PostgreSQL.
// Analyses are written once by the external analysis worker and stored as a
// JSON payload per run; this repository only ever reads them.
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisReader {
	return &AnalysisRepositoryImpl{db: db}
}

// analysisRow mirrors the run_analyses table
type analysisRow struct {
	RunID       string       `db:"run_id"`
	Payload     []byte       `db:"payload"`
	CreatedAt   time.Time    `db:"created_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

// GetRunAnalysis returns the analysis snapshot for one run
func (r *AnalysisRepositoryImpl) GetRunAnalysis(ctx context.Context, runID core.RunID) (*analysis.RunAnalysis, error) {
	var row analysisRow
	err := r.db.GetContext(ctx, &row, `
		SELECT run_id, payload, created_at, completed_at
		FROM run_analyses
		WHERE run_id = $1
	`, runID.String())

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("analysis for run " + runID.String())
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query run analysis")
	}

	return decodeRow(row)
}

// ListRunAnalyses returns the most recent analyses, newest first
func (r *AnalysisRepositoryImpl) ListRunAnalyses(ctx context.Context, limit int) ([]*analysis.RunAnalysis, error) {
	query := `
		SELECT run_id, payload, created_at, completed_at
		FROM run_analyses
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []analysisRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.Wrap(err, "failed to list run analyses")
	}

	analyses := make([]*analysis.RunAnalysis, 0, len(rows))
	for _, row := range rows {
		decoded, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, decoded)
	}
	return analyses, nil
}

// decodeRow unmarshals the stored payload, letting the row's own columns
// win over any timestamps embedded in the payload.
func decodeRow(row analysisRow) (*analysis.RunAnalysis, error) {
	var run analysis.RunAnalysis
	if err := json.Unmarshal(row.Payload, &run); err != nil {
		return nil, apperrors.Wrapf(err, "corrupt analysis payload for run %s", row.RunID)
	}

	run.RunID = core.RunID(row.RunID)
	run.CreatedAt = core.NewTimestamp(row.CreatedAt)
	if row.CompletedAt.Valid {
		run.CompletedAt = core.NewTimestamp(row.CompletedAt.Time)
	}
	return &run, nil
}
