package model

// Ticket records one purchased seat for one session.  Tickets are never
// updated.  For a given MovieID each SeatNumber appears at most once.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – purchaser.
//  MovieID      – session the seat belongs to.
//  SeatNumber   – "<row>-<column>" label.
//  PurchaseDate – "YYYY-MM-DD" date of purchase.
type Ticket struct {
	ID           uint64 `json:"id"`            // tickets.id
	UserID       uint64 `json:"user_id"`       // tickets.user_id
	MovieID      uint64 `json:"movie_id"`      // tickets.movie_id
	SeatNumber   string `json:"seat_number"`   // tickets.seat_number
	PurchaseDate string `json:"purchase_date"` // tickets.purchase_date
}

// TicketReportRow is one line of the ticket statistics export: a ticket
// joined with its purchaser and session.
type TicketReportRow struct {
	TicketID     uint64 `json:"ticket_id"`
	FullName     string `json:"user_full_name"`
	MovieTitle   string `json:"movie_title"`
	SeatNumber   string `json:"seat_number"`
	PurchaseDate string `json:"purchase_date"`
}

// UserTicket is a ticket as shown to its purchaser.  The session fields are
// empty when the session has since been deleted and the ticket was retained.
type UserTicket struct {
	Ticket
	MovieTitle string `json:"movie_title"`
	MovieDate  string `json:"movie_date"`
	MovieTime  string `json:"movie_time"`
}
