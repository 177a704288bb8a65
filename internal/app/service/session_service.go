package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"
	"potd_board/internal/domain/repository"
)

// SessionService keeps the LeetCode cookies the extension bridges over for
// each account. When an account has none, the env-provided fallback pair is
// used so a single-operator deployment works without the extension.
type SessionService struct {
	sessionRepo repository.SessionRepository
	fallback    model.SessionCredentials
}

func NewSessionService(sessionRepo repository.SessionRepository, fallback model.SessionCredentials) *SessionService {
	return &SessionService{sessionRepo: sessionRepo, fallback: fallback}
}

func (s *SessionService) Store(ctx context.Context, userID string, creds model.SessionCredentials) error {
	creds.LeetCodeSession = strings.TrimSpace(creds.LeetCodeSession)
	creds.CSRFToken = strings.TrimSpace(creds.CSRFToken)
	if !creds.Connected() {
		return fmt.Errorf("both leetcode_session and csrf_token are required: %w", common.ErrBadRequest)
	}
	if err := s.sessionRepo.Upsert(ctx, userID, creds); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *SessionService) Clear(ctx context.Context, userID string) error {
	if err := s.sessionRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Status reports the stored credentials without the env fallback, matching
// what the dashboard shows as "connected".
func (s *SessionService) Status(ctx context.Context, userID string) (*model.SessionStatus, error) {
	creds, err := s.sessionRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.SessionStatus{}, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &model.SessionStatus{
		Connected:       creds.Connected(),
		LeetCodeSession: creds.LeetCodeSession,
		CSRFToken:       creds.CSRFToken,
	}, nil
}

// Active resolves the credentials to use for upstream calls: the stored
// pair when present, otherwise the fallback.
func (s *SessionService) Active(ctx context.Context, userID string) (model.SessionCredentials, error) {
	creds, err := s.sessionRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.fallback, nil
		}
		return model.SessionCredentials{}, fmt.Errorf("failed to load session: %w", err)
	}
	if !creds.Connected() {
		return s.fallback, nil
	}
	return creds, nil
}
