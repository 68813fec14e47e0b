package model

// Session is a scheduled movie showing, stored in the `movies` table.  Date
// and time are kept as the text the administrator entered; duplicates of
// (title, date, time) are allowed.
type Session struct {
	ID          uint64 `json:"id"`          // movies.id
	Title       string `json:"title"`       // movies.title
	Description string `json:"description"` // movies.description
	Date        string `json:"date"`        // movies.date
	Time        string `json:"time"`        // movies.time
}
