package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

type seedUser struct {
	FullName, Username, Password, Phone, Email, BirthDate, Role string
}

var seedUsers = []seedUser{
	{"Admin User", "admin", "adminpass", "1234567890", "admin@example.com", "1980-01-01", model.RoleAdmin},
	{"John Doe", "johndoe", "password123", "0987654321", "john@example.com", "1990-05-15", model.RoleUser},
}

var seedSessions = []model.Session{
	{Title: "Фильм 1", Description: "Захватывающий приключенческий фильм.", Date: "2024-11-26", Time: "18:00"},
	{Title: "Фильм 2", Description: "Драматическая история.", Date: "2024-11-27", Time: "20:00"},
}

// Seed inserts the sample accounts and sessions if they are absent.  Users
// are matched by username, sessions by (title, date, time), so running it any
// number of times leaves exactly one copy of each.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int) error {
	for _, u := range seedUsers {
		hash, err := utils.HashPassword(u.Password, bcryptCost)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO users (full_name, username, password, phone, email, birth_date, role) VALUES (?,?,?,?,?,?,?)`,
			u.FullName, u.Username, hash, u.Phone, u.Email, u.BirthDate, u.Role)
		if err != nil && !IsUniqueViolation(err) {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, s := range seedSessions {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM movies WHERE title = ? AND date = ? AND time = ?`,
			s.Title, s.Date, s.Time).Scan(&n); err != nil {
			return fmt.Errorf("seed session lookup: %w", err)
		}
		if n > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movies (title, description, date, time) VALUES (?,?,?,?)`,
			s.Title, s.Description, s.Date, s.Time); err != nil {
			return fmt.Errorf("seed session %s: %w", s.Title, err)
		}
	}
	return tx.Commit()
}
