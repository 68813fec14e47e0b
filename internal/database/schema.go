package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLite keeps foreign keys declared but unenforced (the driver default), so
// a session can be removed while its tickets are retained.  The seat
// uniqueness index is created separately so that database files written
// before it existed pick it up on the next start.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		birth_date TEXT,
		role TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		date TEXT,
		time TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		movie_id INTEGER,
		seat_number TEXT,
		purchase_date TEXT,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(movie_id) REFERENCES movies(id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_tickets_movie_seat ON tickets(movie_id, seat_number)`,
}

// MySQL enforces foreign keys, so tickets.movie_id carries only an index:
// the retain delete policy must be able to leave orphans behind.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL,
		username VARCHAR(191) NOT NULL,
		password VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NULL,
		email VARCHAR(255) NULL,
		birth_date VARCHAR(32) NULL,
		role VARCHAR(16) NOT NULL,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		date VARCHAR(32) NULL,
		time VARCHAR(32) NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NULL,
		movie_id BIGINT UNSIGNED NULL,
		seat_number VARCHAR(16) NULL,
		purchase_date VARCHAR(32) NULL,
		UNIQUE KEY uq_tickets_movie_seat (movie_id, seat_number),
		KEY idx_tickets_user (user_id),
		CONSTRAINT fk_tickets_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the users, movies and tickets tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := sqliteSchema
	if driver == DriverMySQL {
		stmts = mysqlSchema
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
