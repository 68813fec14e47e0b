package service

import "github.com/iliyamo/cinema-ticket-booking/internal/model"

// ClientContext identifies who is acting and which session they picked.  It
// is built per request by the presentation layer and passed explicitly into
// each call that needs it.
type ClientContext struct {
	UserID    uint64
	Role      string
	SessionID uint64
}

// WithSession returns a copy of c with the selected session set.
func (c ClientContext) WithSession(id uint64) ClientContext {
	c.SessionID = id
	return c
}

// IsAdmin reports whether the acting user is an administrator.
func (c ClientContext) IsAdmin() bool { return c.Role == model.RoleAdmin }
