package types

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// IsStaff reports whether the role may act on other people's bookings.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleInstructor
}

// User represents an account in the system.
// It contains identity, role, diving profile, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. It is unique and compared
	// byte-for-byte, exactly as stored.
	Email string `json:"email" db:"email"`

	// Role indicates the user's authorization level.
	// New registrations are always customers.
	Role Role `json:"role" db:"role"`

	// Phone is an optional contact number.
	Phone *string `json:"phone" db:"phone"`

	// CertificationLevel is the highest dive certification the user holds,
	// if any (e.g., "Open Water Diver").
	CertificationLevel *string `json:"certification_level" db:"certification_level"`

	// TotalDives counts the dives the user has completed with the school.
	TotalDives int `json:"total_dives" db:"total_dives"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
