package repository

// A session is a scheduled movie showing and lives in the `movies` table;
// tickets point at it through tickets.movie_id.

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

const sessionColumns = `id, title, COALESCE(description, ''), COALESCE(date, ''), COALESCE(time, '')`

// SessionRepo manages persistence for sessions.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session and returns the generated ID.  Date and time
// are stored as given.
func (r *SessionRepo) Create(ctx context.Context, s model.Session) (uint64, error) {
	const q = `INSERT INTO movies (title, description, date, time) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Title, s.Description, s.Date, s.Time)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID retrieves a session by its ID.  It returns ErrNotFound if there is
// no matching row.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM movies WHERE id = ?`
	var s model.Session
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Title, &s.Description, &s.Date, &s.Time)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all sessions in insertion order.  When none exist it returns
// an empty slice and nil error.
func (r *SessionRepo) List(ctx context.Context) ([]model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM movies ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Session{}
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Date, &s.Time); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes only the session row.  Tickets referencing it are left in
// place as orphans.  ErrNotFound is returned when the session does not exist.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIfUnsold removes the session provided no ticket references it.  The
// check and the delete run in one transaction.  It returns ErrNotFound for a
// missing session and ErrConflict when tickets exist.
func (r *SessionRepo) DeleteIfUnsold(ctx context.Context, id uint64) error {
	return r.withSession(ctx, id, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE movie_id = ?`, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
		return err
	})
}

// DeleteCascade removes the session together with all of its tickets.
func (r *SessionRepo) DeleteCascade(ctx context.Context, id uint64) error {
	return r.withSession(ctx, id, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE movie_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
		return err
	})
}

// withSession runs fn inside a transaction after verifying the session
// exists.  The transaction is committed only when fn succeeds.
func (r *SessionRepo) withSession(ctx context.Context, id uint64, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return fn(tx)
}
