package model

// Roles stored in users.role.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account as stored in the `users` table.  Password holds
// the bcrypt hash of the credential and is never serialized.
//
// Fields:
//  ID        – primary key identifier.
//  FullName  – display name used on tickets and reports.
//  Username  – unique login.
//  Password  – bcrypt hash of the secret.
//  Phone     – free-form phone number.
//  Email     – free-form email address.
//  BirthDate – "YYYY-MM-DD" text, unvalidated.
//  Role      – admin or user.
type User struct {
	ID        uint64 `json:"id"`         // users.id
	FullName  string `json:"full_name"`  // users.full_name
	Username  string `json:"username"`   // users.username
	Password  string `json:"-"`          // users.password
	Phone     string `json:"phone"`      // users.phone
	Email     string `json:"email"`      // users.email
	BirthDate string `json:"birth_date"` // users.birth_date
	Role      string `json:"role"`       // users.role
}
