package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"
)

type SubmissionArchiveRepository interface {
	Create(ctx context.Context, record *model.ArchivedSubmission) error
	Update(ctx context.Context, record *model.ArchivedSubmission) error
	GetByID(ctx context.Context, id string) (*model.ArchivedSubmission, error)
	ListByUserAndSlug(ctx context.Context, userID, slug string, limit int) ([]model.ArchivedSubmission, error)
}

type pgSubmissionArchiveRepository struct {
	db *sql.DB
}

func NewPgSubmissionArchiveRepository(db *sql.DB) SubmissionArchiveRepository {
	return &pgSubmissionArchiveRepository{db: db}
}

func (r *pgSubmissionArchiveRepository) Create(ctx context.Context, record *model.ArchivedSubmission) error {
	steps, err := json.Marshal(record.Steps)
	if err != nil {
		return fmt.Errorf("pgSubmissionArchiveRepository.Create marshal steps: %w", err)
	}

	query := `INSERT INTO submission_archive
	          (id, user_id, slug, language, upstream_id, state, status_msg, runtime, memory,
	           total_correct, total_testcases, ok, error, steps)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.Slug, record.Language, record.UpstreamID,
		record.State, record.StatusMsg, record.Runtime, record.Memory,
		record.TotalCorrect, record.TotalTestcases, record.OK, record.Error, steps,
	)
	if err != nil {
		return fmt.Errorf("pgSubmissionArchiveRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionArchiveRepository) Update(ctx context.Context, record *model.ArchivedSubmission) error {
	steps, err := json.Marshal(record.Steps)
	if err != nil {
		return fmt.Errorf("pgSubmissionArchiveRepository.Update marshal steps: %w", err)
	}

	query := `UPDATE submission_archive SET
	            upstream_id = $1, state = $2, status_msg = $3, runtime = $4, memory = $5,
	            total_correct = $6, total_testcases = $7, ok = $8, error = $9, steps = $10,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $11`
	_, err = r.db.ExecContext(ctx, query,
		record.UpstreamID, record.State, record.StatusMsg, record.Runtime, record.Memory,
		record.TotalCorrect, record.TotalTestcases, record.OK, record.Error, steps, record.ID,
	)
	if err != nil {
		return fmt.Errorf("pgSubmissionArchiveRepository.Update: %w", err)
	}
	return nil
}

func (r *pgSubmissionArchiveRepository) GetByID(ctx context.Context, id string) (*model.ArchivedSubmission, error) {
	query := `SELECT id, user_id, slug, language, upstream_id, state, status_msg, runtime, memory,
	                 total_correct, total_testcases, ok, error, steps, created_at, updated_at
	          FROM submission_archive WHERE id = $1`
	record, err := scanArchivedSubmission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionArchiveRepository.GetByID: %w", err)
	}
	return record, nil
}

func (r *pgSubmissionArchiveRepository) ListByUserAndSlug(ctx context.Context, userID, slug string, limit int) ([]model.ArchivedSubmission, error) {
	query := `SELECT id, user_id, slug, language, upstream_id, state, status_msg, runtime, memory,
	                 total_correct, total_testcases, ok, error, steps, created_at, updated_at
	          FROM submission_archive
	          WHERE user_id = $1 AND slug = $2
	          ORDER BY created_at DESC
	          LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, userID, slug, limit)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionArchiveRepository.ListByUserAndSlug: %w", err)
	}
	defer rows.Close()

	records := []model.ArchivedSubmission{}
	for rows.Next() {
		record, err := scanArchivedSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("pgSubmissionArchiveRepository.ListByUserAndSlug scan: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionArchiveRepository.ListByUserAndSlug rows: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArchivedSubmission(row rowScanner) (*model.ArchivedSubmission, error) {
	record := &model.ArchivedSubmission{}
	var steps []byte
	err := row.Scan(
		&record.ID, &record.UserID, &record.Slug, &record.Language, &record.UpstreamID,
		&record.State, &record.StatusMsg, &record.Runtime, &record.Memory,
		&record.TotalCorrect, &record.TotalTestcases, &record.OK, &record.Error,
		&steps, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &record.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal steps: %w", err)
		}
	}
	return record, nil
}
