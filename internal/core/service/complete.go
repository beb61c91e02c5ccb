package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/telemetry/tracer"
	"github.com/syncron/awareness-go/pkg/progresstoken"
)

// ============================================================================
// Complete Operation
// ============================================================================

// CompleteRequest finishes a session. GameScore and TotalTime are reported
// by the client and echoed back unverified.
type CompleteRequest struct {
	SessionID string
	Token     string
	GameScore float64
	TotalTime float64
	ClientIP  string
}

// CompletionStats summarizes a finished session.
type CompletionStats struct {
	GameScore   float64
	TotalTime   float64
	CompletedAt time.Time
}

// CompleteResponse contains the completion token and where to go next.
type CompleteResponse struct {
	CompletionToken string
	RedirectURL     string
	Message         string
	Stats           CompletionStats
}

// Complete mints the completion token and removes the session.
//
// Failure order: domain.ErrUnauthorized, domain.ErrSessionNotFound,
// domain.ErrPrematureCompletion. Completion is one-shot: once the session is
// deleted, later calls with the same token fail with ErrSessionNotFound.
func (s *ProgressService) Complete(ctx context.Context, req *CompleteRequest) (*CompleteResponse, error) {
	ctx, span := tracer.StartSpan(ctx, "ProgressService.Complete",
		attribute.String("session.id", req.SessionID),
	)
	defer span.End()
	log := s.log(ctx).With("session_id", req.SessionID, "client_ip", req.ClientIP)

	// 1. Authenticate the token against the path session
	claims, err := s.authenticate(log, req.SessionID, req.Token)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	// 2. The session must still be live
	session, err := s.repo.Get(ctx, req.SessionID)
	if err != nil {
		err = s.mapStoreError(err)
		tracer.RecordError(span, err)
		if errors.Is(err, domain.ErrSessionNotFound) {
			log.Warn("completion for unknown session")
		} else {
			log.Error("failed to load session", "error", err)
		}
		return nil, err
	}

	// 3. The token must show the required phases were done
	if claims.Step < s.policy.MinCompletionStep {
		err := domain.ErrPrematureCompletion.WithDetails(
			fmt.Sprintf("step %d < %d", claims.Step, s.policy.MinCompletionStep),
		)
		tracer.RecordError(span, err)
		log.Warn("premature completion attempt", "claimed_step", claims.Step)
		return nil, err
	}

	// 4. Mint the completion token before giving up the session
	now := s.now()
	token, err := s.mint(req.SessionID, progresstoken.CompletionStep, progresstoken.ExpiresAfter(now, s.policy.CompletionTTL))
	if err != nil {
		tracer.RecordError(span, err)
		log.Error("failed to sign completion token", "error", err)
		return nil, err
	}

	// 5. Delete; only one concurrent caller gets past this point
	if err := s.repo.Delete(ctx, req.SessionID); err != nil {
		err = s.mapStoreError(err)
		tracer.RecordError(span, err)
		if errors.Is(err, domain.ErrSessionNotFound) {
			log.Warn("session completed concurrently")
		} else {
			log.Error("failed to delete session", "error", err)
		}
		return nil, err
	}

	elapsed := now.Sub(session.CreatedAtTime())
	s.recorder.SessionCompleted(elapsed)
	log.Info("session completed",
		"game_score", req.GameScore,
		"total_time", req.TotalTime,
		"session_duration_ms", elapsed.Milliseconds(),
	)

	return &CompleteResponse{
		CompletionToken: token,
		RedirectURL:     s.policy.RedirectURL,
		Message:         s.policy.CompletionMessage,
		Stats: CompletionStats{
			GameScore:   req.GameScore,
			TotalTime:   req.TotalTime,
			CompletedAt: now,
		},
	}, nil
}

// ============================================================================
// Status Operation
// ============================================================================

// StatusResponse reports stored progress for a session.
type StatusResponse struct {
	SessionID    string
	CurrentStep  int
	CreatedAt    time.Time
	LastActivity time.Time
	IsActive     bool
}

// Status returns the stored progress of a session without consuming a token.
func (s *ProgressService) Status(ctx context.Context, sessionID string) (*StatusResponse, error) {
	ctx, span := tracer.StartSpan(ctx, "ProgressService.Status",
		attribute.String("session.id", sessionID),
	)
	defer span.End()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		err = s.mapStoreError(err)
		tracer.RecordError(span, err)
		return nil, err
	}

	return &StatusResponse{
		SessionID:    session.ID,
		CurrentStep:  session.CurrentStep,
		CreatedAt:    session.CreatedAtTime(),
		LastActivity: session.LastActivityTime(),
		IsActive:     session.IsActive(s.now(), s.policy.IdleTimeout),
	}, nil
}

// ActiveSessions returns the number of stored sessions.
func (s *ProgressService) ActiveSessions(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, domain.ErrStorage.WithCause(err)
	}
	return n, nil
}
