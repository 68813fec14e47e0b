package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// DeletePolicy decides what happens to tickets when their session is deleted.
type DeletePolicy string

const (
	// DeleteBlock refuses to delete a session that has tickets.
	DeleteBlock DeletePolicy = "block"
	// DeleteCascade deletes the session and its tickets together.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteRetain deletes only the session, leaving orphaned tickets that
	// no longer appear in the ticket report.
	DeleteRetain DeletePolicy = "retain"
)

// ParseDeletePolicy converts a policy name; the empty string yields def.
func ParseDeletePolicy(s string, def DeletePolicy) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return def, nil
	case DeleteBlock, DeleteCascade, DeleteRetain:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// SessionInput is the admin form for a new session.  Date and time are
// stored as text without validation.
type SessionInput struct {
	Title       string
	Description string
	Date        string
	Time        string
}

// CatalogService lists, creates and deletes sessions.  Restricting create
// and delete to administrators is the caller's job.
type CatalogService struct {
	sessions *repository.SessionRepo
	log      *zap.Logger
}

func NewCatalogService(sessions *repository.SessionRepo, log *zap.Logger) *CatalogService {
	return &CatalogService{sessions: sessions, log: log}
}

// ListSessions returns all sessions in insertion order.
func (s *CatalogService) ListSessions(ctx context.Context) ([]model.Session, error) {
	list, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return list, nil
}

// GetSession returns one session or ErrSessionNotFound.
func (s *CatalogService) GetSession(ctx context.Context, id uint64) (*model.Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// CreateSession stores a new session and returns its ID.
func (s *CatalogService) CreateSession(ctx context.Context, in SessionInput) (uint64, error) {
	id, err := s.sessions.Create(ctx, model.Session{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
	})
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	s.log.Info("session created", zap.Uint64("session_id", id), zap.String("title", in.Title))
	return id, nil
}

// DeleteSession removes a session according to policy.
func (s *CatalogService) DeleteSession(ctx context.Context, id uint64, policy DeletePolicy) error {
	var err error
	switch policy {
	case DeleteBlock:
		err = s.sessions.DeleteIfUnsold(ctx, id)
	case DeleteCascade:
		err = s.sessions.DeleteCascade(ctx, id)
	case DeleteRetain:
		err = s.sessions.Delete(ctx, id)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, policy)
	}
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return ErrSessionNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrSessionHasTickets
	default:
		return fmt.Errorf("delete session: %w", err)
	}
	s.log.Info("session deleted", zap.Uint64("session_id", id), zap.String("policy", string(policy)))
	return nil
}
