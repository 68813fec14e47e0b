package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Options selects and addresses the store.  Path is used by SQLite; the
// remaining fields by MySQL.
type Options struct {
	Driver string
	Path   string
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
}

// Open connects to the configured store and verifies the connection.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch o.Driver {
	case DriverSQLite, "":
		db, err = sql.Open(DriverSQLite, sqliteDSN(o.Path))
		if err != nil {
			return nil, err
		}
		// One local file, one writer.  This also keeps ":memory:" databases
		// alive across calls since every query shares the connection.
		db.SetMaxOpenConns(1)
	case DriverMySQL:
		db, err = sql.Open(DriverMySQL, mysqlDSN(o))
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported driver %q", o.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = "cinema.db"
	}
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000"
}

func mysqlDSN(o Options) string {
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Pass
	cfg.Net = "tcp"
	cfg.Addr = o.Host + ":" + o.Port
	cfg.DBName = o.Name
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// IsUniqueViolation reports whether err is a unique or primary key
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
