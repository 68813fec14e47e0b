package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// ReportRepo runs the read-only joins behind the admin statistics.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// TicketRows joins tickets with their purchaser and session.  Inner joins
// drop tickets whose user or session no longer exists.
func (r *ReportRepo) TicketRows(ctx context.Context) ([]model.TicketReportRow, error) {
	const q = `SELECT tickets.id, users.full_name, movies.title, tickets.seat_number, tickets.purchase_date
               FROM tickets
               JOIN users ON tickets.user_id = users.id
               JOIN movies ON tickets.movie_id = movies.id
               ORDER BY tickets.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.TicketReportRow{}
	for rows.Next() {
		var row model.TicketReportRow
		if err := rows.Scan(&row.TicketID, &row.FullName, &row.MovieTitle, &row.SeatNumber, &row.PurchaseDate); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
