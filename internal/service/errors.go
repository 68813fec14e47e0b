// Package service implements the identity, catalog, booking and reporting
// operations on top of the repositories.  Services never keep state between
// calls: every operation re-reads the store.
package service

import "errors"

var (
	// ErrDuplicateLogin is returned by Register when the username is taken.
	ErrDuplicateLogin = errors.New("login already exists")
	// ErrNotAuthenticated is returned when a ClientContext carries no user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionNotSelected is returned by Purchase when no session was chosen.
	ErrSessionNotSelected = errors.New("no session selected")
	// ErrNoSeatSelected is returned by Purchase for an empty seat label.
	ErrNoSeatSelected = errors.New("no seat selected")
	// ErrInvalidSeat is returned for labels outside the 5x10 grid.
	ErrInvalidSeat = errors.New("invalid seat")
	// ErrSeatAlreadyTaken is returned when the seat is ticketed for the session.
	ErrSeatAlreadyTaken = errors.New("seat already taken")
	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionHasTickets is returned when the block policy refuses a delete.
	ErrSessionHasTickets = errors.New("session has tickets")
	// ErrInvalidPolicy is returned for an unknown delete policy name.
	ErrInvalidPolicy = errors.New("invalid delete policy")
)
