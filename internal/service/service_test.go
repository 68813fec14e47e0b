package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-ticket-booking/internal/database"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/seating"
)

type recordingEvents struct {
	mu     sync.Mutex
	events []queue.TicketPurchasedEvent
	err    error
}

func (r *recordingEvents) TicketPurchased(_ context.Context, ev queue.TicketPurchasedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

type testEnv struct {
	db        *sql.DB
	identity  *IdentityService
	catalog   *CatalogService
	booking   *BookingService
	reporting *ReportingService
	events    *recordingEvents
	tickets   *repository.TicketRepo
	today     string
}

// setupTestEnv builds every service over a seeded in-memory SQLite store.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Options{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(ctx, db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(ctx, db, bcrypt.MinCost); err != nil {
		t.Fatalf("seed: %v", err)
	}

	log := zap.NewNop()
	events := &recordingEvents{}
	sessions := repository.NewSessionRepo(db)
	tickets := repository.NewTicketRepo(db)
	booking := NewBookingService(sessions, tickets, events, log)
	fixed := time.Date(2024, 11, 20, 15, 4, 5, 0, time.UTC)
	booking.SetClock(func() time.Time { return fixed })

	return &testEnv{
		db:        db,
		identity:  NewIdentityService(repository.NewUserRepo(db), bcrypt.MinCost, log),
		catalog:   NewCatalogService(sessions, log),
		booking:   booking,
		reporting: NewReportingService(repository.NewReportRepo(db), filepath.Join(t.TempDir(), "ticket_stats.xlsx"), log),
		events:    events,
		tickets:   tickets,
		today:     "2024-11-20",
	}
}

func (e *testEnv) register(t *testing.T, fullName, login string) uint64 {
	t.Helper()
	id, err := e.identity.Register(context.Background(), RegisterInput{FullName: fullName, Username: login, Password: "pw"})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", login, err)
	}
	return id
}

func (e *testEnv) session(t *testing.T, title string) uint64 {
	t.Helper()
	id, err := e.catalog.CreateSession(context.Background(), SessionInput{Title: title, Date: "2025-01-01", Time: "19:00"})
	if err != nil {
		t.Fatalf("CreateSession(%s) error = %v", title, err)
	}
	return id
}

func TestAuthenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	u, err := env.identity.Authenticate(ctx, "admin", "adminpass")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if u == nil || u.Role != "admin" {
		t.Fatalf("Authenticate(admin) = %+v, want admin record", u)
	}

	for _, tc := range []struct{ login, secret string }{
		{"admin", "wrong"},
		{"nobody", "adminpass"},
		{"", ""},
	} {
		u, err := env.identity.Authenticate(ctx, tc.login, tc.secret)
		if err != nil {
			t.Errorf("Authenticate(%q) error = %v", tc.login, err)
		}
		if u != nil {
			t.Errorf("Authenticate(%q, %q) = %+v, want absent", tc.login, tc.secret, u)
		}
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.identity.Register(ctx, RegisterInput{FullName: "A", Username: "bob", Password: "x"})
	if err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err = env.identity.Register(ctx, RegisterInput{FullName: "B", Username: "bob", Password: "y"})
	if !errors.Is(err, ErrDuplicateLogin) {
		t.Fatalf("second Register() error = %v, want ErrDuplicateLogin", err)
	}

	u, err := env.identity.Authenticate(ctx, "bob", "x")
	if err != nil || u == nil {
		t.Fatalf("Authenticate(bob, x) = %v, %v", u, err)
	}
	if u.ID != first || u.FullName != "A" || u.Role != "user" {
		t.Errorf("first user changed: %+v", u)
	}
	if u, _ := env.identity.Authenticate(ctx, "bob", "y"); u != nil {
		t.Error("second secret authenticates")
	}
}

func TestRegisterAllowsEmptyFields(t *testing.T) {
	env := setupTestEnv(t)
	if _, err := env.identity.Register(context.Background(), RegisterInput{Username: "blank"}); err != nil {
		t.Fatalf("Register() with empty fields error = %v", err)
	}
	users, err := env.identity.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 3 {
		t.Errorf("users = %d, want 3", len(users))
	}
}

func TestSessionsCatalog(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	a := env.session(t, "Dup")
	b := env.session(t, "Dup")
	if a == b {
		t.Fatal("duplicate sessions share an ID")
	}

	list, err := env.catalog.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("sessions = %d, want 4", len(list))
	}
	if list[0].Title != "Фильм 1" || list[3].ID != b {
		t.Errorf("order = %+v", list)
	}

	if _, err := env.catalog.GetSession(ctx, 9999); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSession(9999) error = %v, want ErrSessionNotFound", err)
	}
}

func TestPurchasePreconditions(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "U", "u")
	s := env.session(t, "S")

	tests := []struct {
		name string
		cc   ClientContext
		seat string
		want error
	}{
		{"no user", ClientContext{SessionID: s}, "1-1", ErrNotAuthenticated},
		{"no session", ClientContext{UserID: u}, "1-1", ErrSessionNotSelected},
		{"no seat", ClientContext{UserID: u, SessionID: s}, "  ", ErrNoSeatSelected},
		{"bad seat", ClientContext{UserID: u, SessionID: s}, "6-1", ErrInvalidSeat},
		{"missing session", ClientContext{UserID: u, SessionID: 9999}, "1-1", ErrSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.booking.Purchase(ctx, tt.cc, tt.seat); !errors.Is(err, tt.want) {
				t.Errorf("Purchase() error = %v, want %v", err, tt.want)
			}
		})
	}
	seats, _ := env.booking.OccupiedSeats(ctx, s)
	if len(seats) != 0 {
		t.Errorf("rejected purchases left tickets: %v", seats)
	}
}

func TestPurchaseConflict(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "U1", "u1")
	u2 := env.register(t, "U2", "u2")
	s1 := env.session(t, "S1")

	tk, err := env.booking.Purchase(ctx, ClientContext{UserID: u1}.WithSession(s1), "1-1")
	if err != nil {
		t.Fatalf("first Purchase() error = %v", err)
	}
	if tk.ID == 0 || tk.PurchaseDate != env.today {
		t.Errorf("ticket = %+v", tk)
	}

	_, err = env.booking.Purchase(ctx, ClientContext{UserID: u2, SessionID: s1}, "1-1")
	if !errors.Is(err, ErrSeatAlreadyTaken) {
		t.Fatalf("second Purchase() error = %v, want ErrSeatAlreadyTaken", err)
	}

	seats, err := env.booking.OccupiedSeats(ctx, s1)
	if err != nil {
		t.Fatalf("OccupiedSeats() error = %v", err)
	}
	if len(seats) != 1 || seats[0] != "1-1" {
		t.Errorf("OccupiedSeats() = %v, want [1-1]", seats)
	}
	if len(env.events.events) != 1 || env.events.events[0].TicketID != tk.ID {
		t.Errorf("events = %+v", env.events.events)
	}
}

func TestPurchaseIndependentSessions(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u1 := env.register(t, "U1", "u1")
	s1 := env.session(t, "S1")
	s2 := env.session(t, "S2")

	for _, s := range []uint64{s1, s2} {
		if _, err := env.booking.Purchase(ctx, ClientContext{UserID: u1, SessionID: s}, "1-1"); err != nil {
			t.Fatalf("Purchase(session %d) error = %v", s, err)
		}
	}
}

func TestPurchaseFirstWriterWins(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	s := env.session(t, "Rush")
	users := make([]uint64, 8)
	for i := range users {
		users[i] = env.register(t, "U", "rush"+string(rune('a'+i)))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		lost int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u uint64) {
			defer wg.Done()
			_, err := env.booking.Purchase(ctx, ClientContext{UserID: u, SessionID: s}, "3-3")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrSeatAlreadyTaken):
				lost++
			default:
				t.Errorf("Purchase() unexpected error = %v", err)
			}
		}(u)
	}
	wg.Wait()
	if ok != 1 || lost != len(users)-1 {
		t.Errorf("winners = %d, losers = %d", ok, lost)
	}
}

func TestPurchaseSucceedsWhenEventsFail(t *testing.T) {
	env := setupTestEnv(t)
	env.events.err = errors.New("broker down")
	u := env.register(t, "U", "u")
	s := env.session(t, "S")

	if _, err := env.booking.Purchase(context.Background(), ClientContext{UserID: u, SessionID: s}, "2-2"); err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
}

func TestAvailableGrid(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "U", "u")
	s := env.session(t, "S")

	for _, seat := range []string{"1-1", "5-10"} {
		if _, err := env.booking.Purchase(ctx, ClientContext{UserID: u, SessionID: s}, seat); err != nil {
			t.Fatalf("Purchase(%s) error = %v", seat, err)
		}
	}
	g, err := env.booking.AvailableGrid(ctx, s)
	if err != nil {
		t.Fatalf("AvailableGrid() error = %v", err)
	}
	if g[0][0].Status != seating.Occupied || g[4][9].Status != seating.Occupied || g[0][1].Status != seating.Free {
		t.Errorf("grid corners wrong: %+v %+v %+v", g[0][0], g[4][9], g[0][1])
	}
	if len(g.FreeSeats()) != seating.Capacity-2 {
		t.Errorf("free = %d", len(g.FreeSeats()))
	}
	if _, err := env.booking.AvailableGrid(ctx, 9999); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AvailableGrid(9999) error = %v", err)
	}
}

func TestDeleteSessionPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("block", func(t *testing.T) {
		env := setupTestEnv(t)
		u := env.register(t, "U", "u")
		s := env.session(t, "S")
		empty := env.session(t, "Empty")
		if _, err := env.booking.Purchase(ctx, ClientContext{UserID: u, SessionID: s}, "1-1"); err != nil {
			t.Fatal(err)
		}
		if err := env.catalog.DeleteSession(ctx, s, DeleteBlock); !errors.Is(err, ErrSessionHasTickets) {
			t.Errorf("DeleteSession(sold) error = %v, want ErrSessionHasTickets", err)
		}
		if _, err := env.catalog.GetSession(ctx, s); err != nil {
			t.Errorf("blocked session was removed: %v", err)
		}
		if err := env.catalog.DeleteSession(ctx, empty, DeleteBlock); err != nil {
			t.Errorf("DeleteSession(unsold) error = %v", err)
		}
	})

	t.Run("cascade", func(t *testing.T) {
		env := setupTestEnv(t)
		u := env.register(t, "U", "u")
		s := env.session(t, "S")
		tk, err := env.booking.Purchase(ctx, ClientContext{UserID: u, SessionID: s}, "1-1")
		if err != nil {
			t.Fatal(err)
		}
		if err := env.catalog.DeleteSession(ctx, s, DeleteCascade); err != nil {
			t.Fatalf("DeleteSession() error = %v", err)
		}
		if _, err := env.tickets.GetByID(ctx, tk.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("ticket survived cascade: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		env := setupTestEnv(t)
		for _, p := range []DeletePolicy{DeleteBlock, DeleteCascade, DeleteRetain} {
			if err := env.catalog.DeleteSession(ctx, 9999, p); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("%s: error = %v, want ErrSessionNotFound", p, err)
			}
		}
	})

	t.Run("invalid policy", func(t *testing.T) {
		env := setupTestEnv(t)
		if err := env.catalog.DeleteSession(ctx, 1, DeletePolicy("sometimes")); !errors.Is(err, ErrInvalidPolicy) {
			t.Errorf("error = %v, want ErrInvalidPolicy", err)
		}
	})
}

func TestParseDeletePolicy(t *testing.T) {
	if p, err := ParseDeletePolicy("", DeleteBlock); err != nil || p != DeleteBlock {
		t.Errorf("empty = %q, %v", p, err)
	}
	if p, err := ParseDeletePolicy(" Cascade ", DeleteBlock); err != nil || p != DeleteCascade {
		t.Errorf("Cascade = %q, %v", p, err)
	}
	if _, err := ParseDeletePolicy("drop", DeleteBlock); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("drop error = %v", err)
	}
}

func TestTicketReportExcludesOrphans(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "Ivan Petrov", "ivan")
	s := env.session(t, "Solaris")

	tk, err := env.booking.Purchase(ctx, ClientContext{UserID: u, SessionID: s}, "2-5")
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}

	rows, err := env.reporting.TicketReport(ctx)
	if err != nil {
		t.Fatalf("TicketReport() error = %v", err)
	}
	matches := 0
	for _, r := range rows {
		if r.TicketID == tk.ID {
			matches++
			if r.FullName != "Ivan Petrov" || r.MovieTitle != "Solaris" || r.SeatNumber != "2-5" || r.PurchaseDate != env.today {
				t.Errorf("row = %+v", r)
			}
		}
	}
	if matches != 1 {
		t.Fatalf("report rows for ticket = %d, want 1", matches)
	}

	if err := env.catalog.DeleteSession(ctx, s, DeleteRetain); err != nil {
		t.Fatalf("DeleteSession(retain) error = %v", err)
	}
	rows, err = env.reporting.TicketReport(ctx)
	if err != nil {
		t.Fatalf("TicketReport() error = %v", err)
	}
	for _, r := range rows {
		if r.TicketID == tk.ID {
			t.Errorf("orphaned ticket %d still reported", tk.ID)
		}
	}
	if _, err := env.tickets.GetByID(ctx, tk.ID); err != nil {
		t.Errorf("orphaned ticket row missing: %v", err)
	}

	mine, err := env.booking.UserTickets(ctx, u)
	if err != nil {
		t.Fatalf("UserTickets() error = %v", err)
	}
	if len(mine) != 1 || mine[0].MovieTitle != "" {
		t.Errorf("UserTickets() = %+v, want one orphan with empty title", mine)
	}
}

func TestExportTicketReport(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "U", "u")
	s := env.session(t, "S")
	if _, err := env.booking.Purchase(ctx, ClientContext{UserID: u, SessionID: s}, "4-4"); err != nil {
		t.Fatal(err)
	}

	res, err := env.reporting.ExportTicketReport(ctx)
	if err != nil {
		t.Fatalf("ExportTicketReport() error = %v", err)
	}
	if res.Rows != 1 || res.Path != env.reporting.ExportPath() {
		t.Errorf("result = %+v", res)
	}
}

func TestAuthenticateLegacyPlaintextRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cinema.db")
	db, err := database.Open(ctx, database.Options{Driver: database.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// A file left by the desktop client: same users table, secrets in plain text.
	for _, q := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			phone TEXT,
			email TEXT,
			birth_date TEXT,
			role TEXT NOT NULL
		)`,
		`INSERT INTO users (full_name, username, password, phone, email, birth_date, role)
		 VALUES ('Admin User', 'admin', 'adminpass', '1234567890', 'admin@example.com', '1980-01-01', 'admin')`,
	} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			t.Fatalf("prepare legacy file: %v", err)
		}
	}
	if err := database.Migrate(ctx, db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(ctx, db, bcrypt.MinCost); err != nil {
		t.Fatalf("seed: %v", err)
	}

	identity := NewIdentityService(repository.NewUserRepo(db), bcrypt.MinCost, zap.NewNop())

	if u, err := identity.Authenticate(ctx, "admin", "adminpas"); err != nil || u != nil {
		t.Errorf("Authenticate(prefix secret) = %+v, %v, want absent", u, err)
	}
	u, err := identity.Authenticate(ctx, "admin", "adminpass")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if u == nil || u.Role != "admin" {
		t.Fatalf("Authenticate(admin, adminpass) = %+v, want admin record", u)
	}

	var stored string
	if err := db.QueryRowContext(ctx, `SELECT password FROM users WHERE username = 'admin'`).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored == "adminpass" || bcrypt.CompareHashAndPassword([]byte(stored), []byte("adminpass")) != nil {
		t.Errorf("stored credential = %q, want a bcrypt hash of the secret", stored)
	}
	if u, _ := identity.Authenticate(ctx, "admin", "adminpass"); u == nil {
		t.Error("Authenticate() fails after the upgrade")
	}
	if u, _ := identity.Authenticate(ctx, "admin", stored); u != nil {
		t.Error("the stored hash itself authenticates")
	}
}

func TestPurchaseDateIsUTCDay(t *testing.T) {
	env := setupTestEnv(t)
	late := time.Date(2024, 11, 20, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	env.booking.SetClock(func() time.Time { return late })
	u := env.register(t, "U", "u")
	s := env.session(t, "S")

	tk, err := env.booking.Purchase(context.Background(), ClientContext{UserID: u, SessionID: s}, "1-1")
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	if tk.PurchaseDate != "2024-11-21" {
		t.Errorf("PurchaseDate = %q, want 2024-11-21", tk.PurchaseDate)
	}
}

func TestPurchaseLogsActingRole(t *testing.T) {
	env := setupTestEnv(t)
	core, logs := observer.New(zap.InfoLevel)
	booking := NewBookingService(repository.NewSessionRepo(env.db), env.tickets, nil, zap.New(core))
	s := env.session(t, "S")

	admin, err := env.identity.Authenticate(context.Background(), "admin", "adminpass")
	if err != nil || admin == nil {
		t.Fatalf("Authenticate(admin) = %v, %v", admin, err)
	}
	cc := ClientContext{UserID: admin.ID, Role: admin.Role, SessionID: s}
	if _, err := booking.Purchase(context.Background(), cc, "5-5"); err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}

	entries := logs.FilterMessage("ticket purchased").All()
	if len(entries) != 1 {
		t.Fatalf("purchase log lines = %d, want 1", len(entries))
	}
	if got, ok := entries[0].ContextMap()["by_admin"].(bool); !ok || !got {
		t.Errorf("by_admin = %v, want true", entries[0].ContextMap()["by_admin"])
	}
}
