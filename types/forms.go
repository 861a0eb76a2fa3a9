package types

import (
	"encoding/json"
	"time"
)

// DefaultContactSubject is used when an inquiry arrives without a subject.
const DefaultContactSubject = "General Inquiry"

// ContactInquiry is a message left through the contact form.
type ContactInquiry struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MedicalForm is a completed medical questionnaire for a booking.
type MedicalForm struct {
	ID        int    `json:"id" db:"id"`
	BookingID int    `json:"booking_id" db:"booking_id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`

	// MedicalAnswers is stored exactly as submitted. The API never looks
	// inside it.
	MedicalAnswers json.RawMessage `json:"medical_answers" db:"medical_answers"`

	// PhysicianApproval is set when a physician signed off on the answers.
	PhysicianApproval bool `json:"physician_approval" db:"physician_approval"`

	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
