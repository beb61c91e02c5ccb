package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/telemetry/logger"
	"github.com/syncron/awareness-go/internal/telemetry/tracer"
	"github.com/syncron/awareness-go/pkg/progresstoken"
)

// TokenCodec signs and verifies progress tokens.
type TokenCodec interface {
	Sign(claims progresstoken.Claims) (string, error)
	Verify(raw string) (*progresstoken.Claims, error)
}

// Policy holds the timing and copy of the experience.
type Policy struct {
	StartTTL          time.Duration // lifetime of the token issued by Start
	ProgressTTL       time.Duration // lifetime of tokens issued by AdvanceProgress
	CompletionTTL     time.Duration // lifetime of the completion token
	IdleTimeout       time.Duration // inactivity after which a session is evicted
	MinCompletionStep int           // lowest token step Complete accepts

	WelcomeMessage    string
	CompletionMessage string
	RedirectURL       string
}

// DefaultPolicy returns the reference deployment's policy.
func DefaultPolicy() Policy {
	return Policy{
		StartTTL:          10 * time.Minute,
		ProgressTTL:       5 * time.Minute,
		CompletionTTL:     1 * time.Minute,
		IdleTimeout:       15 * time.Minute,
		MinCompletionStep: 2,
		WelcomeMessage:    "Welcome to Syncron Security Awareness Month 2025!",
		CompletionMessage: "🎉 Congratulations! You've completed Syncron Security Awareness Month 2025!",
		RedirectURL:       "https://syncron.atlassian.net/wiki/x/UwDPZg",
	}
}

// ProgressService is the session registry.
type ProgressService struct {
	repo     SessionRepository
	codec    TokenCodec
	policy   Policy
	now      func() time.Time
	logger   logger.Logger
	recorder Recorder
}

// Option configures a ProgressService.
type Option func(*ProgressService)

// WithPolicy overrides the default policy.
func WithPolicy(p Policy) Option {
	return func(s *ProgressService) { s.policy = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *ProgressService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the base logger. Request-scoped ids are added per call.
func WithLogger(l logger.Logger) Option {
	return func(s *ProgressService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the event recorder.
func WithRecorder(r Recorder) Option {
	return func(s *ProgressService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewProgressService creates a new ProgressService.
func NewProgressService(repo SessionRepository, codec TokenCodec, opts ...Option) *ProgressService {
	s := &ProgressService{
		repo:     repo,
		codec:    codec,
		policy:   DefaultPolicy(),
		now:      time.Now,
		logger:   logger.Default(),
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the active policy.
func (s *ProgressService) Policy() Policy {
	return s.policy
}

// ============================================================================
// Start Operation
// ============================================================================

// StartRequest carries caller metadata for logging.
type StartRequest struct {
	ClientIP  string
	UserAgent string
}

// StartResponse contains the new session and its first token.
type StartResponse struct {
	SessionID string
	Token     string
	ExpiresIn int // seconds
	Message   string
}

// Start creates a session at step 0 and mints its first token.
func (s *ProgressService) Start(ctx context.Context, req *StartRequest) (*StartResponse, error) {
	ctx, span := tracer.StartSpan(ctx, "ProgressService.Start")
	defer span.End()
	log := s.log(ctx)

	// 1. Create the session
	now := s.now()
	session := domain.NewSession(progresstoken.GenerateNonce(), now)
	span.SetAttributes(attribute.String("session.id", session.ID))

	if err := s.repo.Create(ctx, session); err != nil {
		tracer.RecordError(span, err)
		log.Error("failed to create session", "error", err)
		if errors.Is(err, domain.ErrSessionConflict) {
			return nil, domain.ErrInternal.WithCause(err)
		}
		return nil, domain.ErrStorage.WithCause(err)
	}

	// 2. Mint the initial token
	token, err := s.mint(session.ID, domain.InitialStep, progresstoken.ExpiresAfter(now, s.policy.StartTTL))
	if err != nil {
		tracer.RecordError(span, err)
		log.Error("failed to sign start token", "session_id", session.ID, "error", err)
		if delErr := s.repo.Delete(ctx, session.ID); delErr != nil && !errors.Is(delErr, domain.ErrSessionNotFound) {
			log.Warn("failed to roll back session", "session_id", session.ID, "error", delErr)
		}
		return nil, err
	}

	s.recorder.SessionStarted()
	log.Info("session started",
		"session_id", session.ID,
		"client_ip", req.ClientIP,
		"user_agent", req.UserAgent,
	)

	return &StartResponse{
		SessionID: session.ID,
		Token:     token,
		ExpiresIn: seconds(s.policy.StartTTL),
		Message:   s.policy.WelcomeMessage,
	}, nil
}

// ============================================================================
// AdvanceProgress Operation
// ============================================================================

// AdvanceRequest asks to move a session to Step.
type AdvanceRequest struct {
	SessionID string
	Token     string
	Step      int
	HasData   bool // the client attached step data; only logged
	ClientIP  string
}

// AdvanceResponse contains the replacement token.
type AdvanceResponse struct {
	Token     string
	Step      int
	ExpiresIn int // seconds
	Message   string
}

// AdvanceProgress records Step for the session and mints a replacement token.
//
// Failure order: domain.ErrUnauthorized (bad token or token for another
// session), domain.ErrSessionNotFound, domain.ErrInvalidTransition (checked
// against the token's step).
func (s *ProgressService) AdvanceProgress(ctx context.Context, req *AdvanceRequest) (*AdvanceResponse, error) {
	ctx, span := tracer.StartSpan(ctx, "ProgressService.AdvanceProgress",
		attribute.String("session.id", req.SessionID),
		attribute.Int("step.requested", req.Step),
	)
	defer span.End()
	log := s.log(ctx).With("session_id", req.SessionID, "requested_step", req.Step, "client_ip", req.ClientIP)

	// 1. Authenticate the token against the path session
	claims, err := s.authenticate(log, req.SessionID, req.Token)
	if err != nil {
		s.recorder.ProgressRejected(domain.GetErrorCode(err))
		tracer.RecordError(span, err)
		return nil, err
	}

	// 2. Check the step law against the token's step and record it under
	// the session's lock. The store only calls the callback for a live
	// session, so a missing session is reported before an illegal step.
	now := s.now()
	_, err = s.repo.Update(ctx, req.SessionID, func(session *domain.Session) error {
		if !progresstoken.IsValidStepProgression(claims.Step, req.Step) {
			return domain.ErrInvalidTransition.WithDetails(fmt.Sprintf("%d -> %d", claims.Step, req.Step))
		}
		session.Advance(req.Step, now)
		return nil
	})
	if err != nil {
		err = s.mapStoreError(err)
		s.recorder.ProgressRejected(domain.GetErrorCode(err))
		tracer.RecordError(span, err)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			log.Warn("progress for unknown session")
		case errors.Is(err, domain.ErrInvalidTransition):
			log.Warn("invalid step progression", "claimed_step", claims.Step)
		default:
			log.Error("failed to record progress", "error", err)
		}
		return nil, err
	}

	// 3. Mint the replacement token
	token, err := s.mint(req.SessionID, req.Step, progresstoken.ExpiresAfter(now, s.policy.ProgressTTL))
	if err != nil {
		tracer.RecordError(span, err)
		log.Error("failed to sign progress token", "error", err)
		return nil, err
	}

	s.recorder.ProgressAccepted(req.Step)
	log.Info("progress updated", "previous_step", claims.Step, "data", dataPresence(req.HasData))

	return &AdvanceResponse{
		Token:     token,
		Step:      req.Step,
		ExpiresIn: seconds(s.policy.ProgressTTL),
		Message:   fmt.Sprintf("Step %d completed", req.Step),
	}, nil
}

// ============================================================================
// Helpers
// ============================================================================

// authenticate verifies raw and checks it was issued for sessionID. Every
// failure collapses to domain.ErrUnauthorized; the reason is only logged
// and recorded.
func (s *ProgressService) authenticate(log logger.Logger, sessionID, raw string) (*progresstoken.Claims, error) {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		reason := string(progresstoken.ReasonOf(err))
		if reason == "" {
			reason = "unknown"
		}
		s.recorder.TokenRejected(reason)
		log.Warn("token verification failed", "reason", reason)
		return nil, domain.ErrUnauthorized
	}

	if claims.SessionID != sessionID {
		s.recorder.TokenRejected("session_mismatch")
		log.Warn("token session mismatch", "claimed_session_id", claims.SessionID)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

func (s *ProgressService) mint(sessionID string, step int, exp time.Time) (string, error) {
	token, err := s.codec.Sign(progresstoken.Claims{
		SessionID: sessionID,
		Step:      step,
		Nonce:     progresstoken.GenerateNonce(),
		ExpiresAt: exp,
	})
	if err != nil {
		return "", domain.ErrTokenEncoding.WithCause(err)
	}
	return token, nil
}

// mapStoreError passes domain errors through and wraps anything else as a
// storage failure.
func (s *ProgressService) mapStoreError(err error) error {
	if domain.IsDomainError(err, "") {
		return err
	}
	return domain.ErrStorage.WithCause(err)
}

func (s *ProgressService) log(ctx context.Context) logger.Logger {
	return logger.Enrich(ctx, s.logger)
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

func dataPresence(has bool) string {
	if has {
		return "provided"
	}
	return "none"
}
