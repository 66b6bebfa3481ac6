package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cleberrangel/progresso-api/internal/logger"
	"github.com/cleberrangel/progresso-api/internal/model"
)

// HistoryRepository persiste os relatórios gerados para consulta posterior.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository cria o repositório de histórico.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ReportSnapshot é uma entrada do histórico de relatórios.
type ReportSnapshot struct {
	ID            string          `json:"id"`
	Team          string          `json:"team"`
	Baseline      string          `json:"baseline"`
	ReferenceTime time.Time       `json:"reference_time"`
	TaskCount     int             `json:"task_count"`
	WarningCount  int             `json:"warning_count"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EnsureSchema cria a tabela de histórico quando ausente.
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS report_history (
			id            TEXT PRIMARY KEY,
			team          TEXT NOT NULL,
			baseline      TEXT NOT NULL,
			reference_ts  TIMESTAMPTZ NOT NULL,
			task_count    INTEGER NOT NULL,
			warning_count INTEGER NOT NULL,
			payload       JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("criar tabela report_history: %w", err)
	}
	return nil
}

// SaveReport grava o relatório completo como JSONB mais as colunas de
// consulta rápida.
func (r *HistoryRepository) SaveReport(ctx context.Context, report *model.Report) error {
	log := logger.Get(ctx)

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serializar relatório: %w", err)
	}

	const query = `
		INSERT INTO report_history
			(id, team, baseline, reference_ts, task_count, warning_count, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.Team, report.Baseline, report.ReferenceTime,
		report.TaskCount, len(report.Warnings), payload)
	if err != nil {
		return fmt.Errorf("inserir relatório: %w", err)
	}

	log.Info().Str("report_id", report.ID).Msg("Relatório gravado no histórico")
	return nil
}

// ListRecent retorna os relatórios mais recentes, sem o payload completo.
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]ReportSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	const query = `
		SELECT id, team, baseline, reference_ts, task_count, warning_count, created_at
		FROM report_history
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("consultar histórico: %w", err)
	}
	defer rows.Close()

	var snapshots []ReportSnapshot
	for rows.Next() {
		var s ReportSnapshot
		if err := rows.Scan(&s.ID, &s.Team, &s.Baseline, &s.ReferenceTime,
			&s.TaskCount, &s.WarningCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("ler linha do histórico: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// GetReport recupera um relatório completo pelo ID.
func (r *HistoryRepository) GetReport(ctx context.Context, id string) (*ReportSnapshot, error) {
	const query = `
		SELECT id, team, baseline, reference_ts, task_count, warning_count, payload, created_at
		FROM report_history
		WHERE id = $1`
	var s ReportSnapshot
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Team, &s.Baseline,
		&s.ReferenceTime, &s.TaskCount, &s.WarningCount, &s.Payload, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consultar relatório %s: %w", id, err)
	}
	return &s, nil
}
