package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/seating"
)

// TicketEvents receives a notification for every committed ticket.
type TicketEvents interface {
	TicketPurchased(ctx context.Context, ev queue.TicketPurchasedEvent) error
}

// BookingService computes seat occupancy and sells tickets.  A seat is sold
// at most once per session; the store's (movie_id, seat_number) constraint
// decides any race the occupancy check misses.
type BookingService struct {
	sessions *repository.SessionRepo
	tickets  *repository.TicketRepo
	events   TicketEvents
	log      *zap.Logger
	now      func() time.Time
}

// NewBookingService wires the booking operations.  events may be nil.
func NewBookingService(sessions *repository.SessionRepo, tickets *repository.TicketRepo, events TicketEvents, log *zap.Logger) *BookingService {
	return &BookingService{sessions: sessions, tickets: tickets, events: events, log: log, now: time.Now}
}

// SetClock replaces the clock used for purchase dates.
func (s *BookingService) SetClock(now func() time.Time) { s.now = now }

// OccupiedSeats returns the labels already ticketed for the session.
func (s *BookingService) OccupiedSeats(ctx context.Context, sessionID uint64) ([]string, error) {
	seats, err := s.tickets.OccupiedSeats(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("occupied seats: %w", err)
	}
	return seats, nil
}

// AvailableGrid returns the 5x10 free/occupied map of an existing session.
func (s *BookingService) AvailableGrid(ctx context.Context, sessionID uint64) (seating.Grid, error) {
	if _, err := s.session(ctx, sessionID); err != nil {
		return seating.Grid{}, err
	}
	occupied, err := s.OccupiedSeats(ctx, sessionID)
	if err != nil {
		return seating.Grid{}, err
	}
	return seating.NewGrid(occupied), nil
}

// Purchase sells seat in the client's selected session to the client's user.
// The ticket is dated with the current UTC day.  On any error no ticket row exists.
func (s *BookingService) Purchase(ctx context.Context, cc ClientContext, seat string) (*model.Ticket, error) {
	if cc.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	if cc.SessionID == 0 {
		return nil, ErrSessionNotSelected
	}
	seat = strings.TrimSpace(seat)
	if seat == "" {
		return nil, ErrNoSeatSelected
	}
	if !seating.Valid(seat) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeat, seat)
	}
	sess, err := s.session(ctx, cc.SessionID)
	if err != nil {
		return nil, err
	}

	taken, err := s.tickets.SeatTaken(ctx, cc.SessionID, seat)
	if err != nil {
		return nil, fmt.Errorf("check seat: %w", err)
	}
	if taken {
		return nil, ErrSeatAlreadyTaken
	}

	now := s.now()
	t := &model.Ticket{
		UserID:       cc.UserID,
		MovieID:      cc.SessionID,
		SeatNumber:   seat,
		PurchaseDate: now.UTC().Format("2006-01-02"),
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSeatAlreadyTaken
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.log.Info("ticket purchased",
		zap.Uint64("ticket_id", t.ID),
		zap.Uint64("user_id", t.UserID),
		zap.Uint64("session_id", t.MovieID),
		zap.String("seat", t.SeatNumber),
		zap.Bool("by_admin", cc.IsAdmin()))

	s.publish(ctx, t, sess, now)
	return t, nil
}

// UserTickets lists the tickets bought by userID.
func (s *BookingService) UserTickets(ctx context.Context, userID uint64) ([]model.UserTicket, error) {
	list, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return list, nil
}

func (s *BookingService) session(ctx context.Context, id uint64) (*model.Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// publish is best effort: the ticket is already committed.
func (s *BookingService) publish(ctx context.Context, t *model.Ticket, sess *model.Session, at time.Time) {
	if s.events == nil {
		return
	}
	ev := queue.TicketPurchasedEvent{
		EventID:      uuid.NewString(),
		TicketID:     t.ID,
		UserID:       t.UserID,
		SessionID:    t.MovieID,
		MovieTitle:   sess.Title,
		SessionDate:  sess.Date,
		SessionTime:  sess.Time,
		Seat:         t.SeatNumber,
		PurchaseDate: t.PurchaseDate,
		PurchasedAt:  at.UTC().Format(time.RFC3339),
	}
	if err := s.events.TicketPurchased(ctx, ev); err != nil {
		s.log.Warn("ticket event not published", zap.Uint64("ticket_id", t.ID), zap.Error(err))
	}
}
