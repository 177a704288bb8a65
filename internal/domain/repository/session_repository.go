package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"
)

// SessionRepository stores the LeetCode cookies each account bridged over
// from the browser extension.
type SessionRepository interface {
	Upsert(ctx context.Context, userID string, creds model.SessionCredentials) error
	Get(ctx context.Context, userID string) (model.SessionCredentials, error)
	Delete(ctx context.Context, userID string) error
}

type pgSessionRepository struct {
	db *sql.DB
}

func NewPgSessionRepository(db *sql.DB) SessionRepository {
	return &pgSessionRepository{db: db}
}

func (r *pgSessionRepository) Upsert(ctx context.Context, userID string, creds model.SessionCredentials) error {
	query := `INSERT INTO leetcode_sessions (user_id, session_token, csrf_token)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (user_id) DO UPDATE
	          SET session_token = EXCLUDED.session_token,
	              csrf_token = EXCLUDED.csrf_token,
	              updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, userID, creds.LeetCodeSession, creds.CSRFToken); err != nil {
		return fmt.Errorf("pgSessionRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) Get(ctx context.Context, userID string) (model.SessionCredentials, error) {
	query := `SELECT session_token, csrf_token FROM leetcode_sessions WHERE user_id = $1`
	var creds model.SessionCredentials
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&creds.LeetCodeSession, &creds.CSRFToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SessionCredentials{}, common.ErrNotFound
		}
		return model.SessionCredentials{}, fmt.Errorf("pgSessionRepository.Get: %w", err)
	}
	return creds, nil
}

func (r *pgSessionRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM leetcode_sessions WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("pgSessionRepository.Delete: %w", err)
	}
	return nil
}
