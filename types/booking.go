package types

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known booking states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// PaymentStatus is tracked outside this API; bookings only record it.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Booking represents a request to join a course.
// Course name and price are copied from the course when the booking is
// created, so later catalog edits never rewrite booking history.
type Booking struct {
	// ID is the unique identifier of the booking.
	ID int `json:"id" db:"id"`

	// UserID links the booking to an account when it was created by a
	// signed-in user. Older rows are matched by email instead.
	UserID *int `json:"user_id" db:"user_id"`

	// Name, Email, and Phone identify the person who asked for the booking.
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
	Phone string `json:"phone" db:"phone"`

	// CourseID references the course at the time of booking.
	CourseID string `json:"course_id" db:"course_id"`

	// CourseName is the course title at the time of booking.
	CourseName string `json:"course_name" db:"course_name"`

	// CoursePrice is the course price label at the time of booking.
	CoursePrice string `json:"course_price" db:"course_price"`

	// PreferredDate is the requested start date as sent by the client.
	PreferredDate string `json:"preferred_date" db:"preferred_date"`

	// Experience holds free-text notes about prior diving experience.
	Experience string `json:"experience" db:"experience"`

	// MedicalCleared records that the requester acknowledged the
	// medical requirements.
	MedicalCleared bool `json:"medical_cleared" db:"medical_cleared"`

	Status        BookingStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BookingStats summarizes bookings by status.
type BookingStats struct {
	Total     int `json:"total_bookings"`
	Pending   int `json:"pending_bookings"`
	Confirmed int `json:"confirmed_bookings"`
	Cancelled int `json:"cancelled_bookings"`
}
