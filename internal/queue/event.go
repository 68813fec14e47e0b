// Package queue defines the ticket events exchanged over the message broker,
// the publisher used by the booking service and the audit consumer.
package queue

// TicketQueue is the durable queue carrying TicketPurchasedEvent messages.
const TicketQueue = "ticket.purchased"

// TicketPurchasedEvent is published after a ticket row has been committed.
// It carries enough detail for the audit log without querying the store.
type TicketPurchasedEvent struct {
	EventID      string `json:"event_id"`
	TicketID     uint64 `json:"ticket_id"`
	UserID       uint64 `json:"user_id"`
	SessionID    uint64 `json:"session_id"`
	MovieTitle   string `json:"movie_title"`
	SessionDate  string `json:"session_date"`
	SessionTime  string `json:"session_time"`
	Seat         string `json:"seat"`
	PurchaseDate string `json:"purchase_date"`
	PurchasedAt  string `json:"purchased_at"`
}
