package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-ticket-booking/internal/database"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// TicketRepo provides access to the tickets table.  The store enforces one
// ticket per (movie_id, seat_number); Create reports a violation of that
// constraint as ErrDuplicate.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// OccupiedSeats returns the seat labels already ticketed for a session,
// ordered by ticket id.
func (r *TicketRepo) OccupiedSeats(ctx context.Context, movieID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_number FROM tickets WHERE movie_id = ? ORDER BY id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := []string{}
	for rows.Next() {
		var s sql.NullString
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		if s.Valid {
			seats = append(seats, s.String)
		}
	}
	return seats, rows.Err()
}

// SeatTaken reports whether a ticket exists for the seat in the session.
func (r *TicketRepo) SeatTaken(ctx context.Context, movieID uint64, seat string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM tickets WHERE movie_id = ? AND seat_number = ? LIMIT 1`, movieID, seat).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts t in a single statement and fills in its ID.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (user_id, movie_id, seat_number, purchase_date) VALUES (?, ?, ?, ?)`,
		t.UserID, t.MovieID, t.SeatNumber, t.PurchaseDate)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID loads a single ticket regardless of whether its session or user
// still exists.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, movie_id, seat_number, purchase_date FROM tickets WHERE id = ?`, id).
		Scan(&t.ID, &t.UserID, &t.MovieID, &t.SeatNumber, &t.PurchaseDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByUser returns a user's tickets, newest first.  Tickets whose session
// was deleted are included with empty session fields.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.UserTicket, error) {
	const q = `SELECT t.id, t.user_id, t.movie_id, t.seat_number, t.purchase_date,
                      COALESCE(m.title, ''), COALESCE(m.date, ''), COALESCE(m.time, '')
               FROM tickets t
               LEFT JOIN movies m ON m.id = t.movie_id
               WHERE t.user_id = ?
               ORDER BY t.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.UserTicket{}
	for rows.Next() {
		var ut model.UserTicket
		if err := rows.Scan(&ut.ID, &ut.UserID, &ut.MovieID, &ut.SeatNumber, &ut.PurchaseDate,
			&ut.MovieTitle, &ut.MovieDate, &ut.MovieTime); err != nil {
			return nil, err
		}
		out = append(out, ut)
	}
	return out, rows.Err()
}
