package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/reefdive/apiserver/types"
)

// ContactRepository handles persistence for contact inquiries.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a ContactRepository.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, inquiry types.ContactInquiry) (types.ContactInquiry, error) {
	inquiry.CreatedAt = time.Now().UTC()
	if inquiry.Subject == "" {
		inquiry.Subject = types.DefaultContactSubject
	}

	const query = `
		INSERT INTO contact_inquiries (name, email, phone, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Subject,
		inquiry.Message,
		inquiry.CreatedAt,
	).Scan(&inquiry.ID); err != nil {
		return types.ContactInquiry{}, err
	}
	return inquiry, nil
}

func (r *ContactRepository) Get(ctx context.Context, id int) (types.ContactInquiry, error) {
	const query = `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_inquiries
		WHERE id = $1`
	var inquiry types.ContactInquiry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inquiry.ID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.Subject,
		&inquiry.Message,
		&inquiry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ContactInquiry{}, ErrNotFound
		}
		return types.ContactInquiry{}, err
	}
	return inquiry, nil
}

func (r *ContactRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM contact_inquiries`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// MedicalFormRepository handles persistence for medical questionnaires.
type MedicalFormRepository struct {
	db *sql.DB
}

// NewMedicalFormRepository creates a MedicalFormRepository.
func NewMedicalFormRepository(db *sql.DB) *MedicalFormRepository {
	return &MedicalFormRepository{db: db}
}

func (r *MedicalFormRepository) Create(ctx context.Context, form types.MedicalForm) (types.MedicalForm, error) {
	form.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO medical_forms (booking_id, name, email, medical_answers, physician_approval, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		form.BookingID,
		form.Name,
		form.Email,
		string(form.MedicalAnswers),
		form.PhysicianApproval,
		form.Completed,
		form.CreatedAt,
	).Scan(&form.ID); err != nil {
		return types.MedicalForm{}, err
	}
	return form, nil
}

func (r *MedicalFormRepository) Get(ctx context.Context, id int) (types.MedicalForm, error) {
	const query = `
		SELECT id, booking_id, name, email, medical_answers, physician_approval, completed, created_at
		FROM medical_forms
		WHERE id = $1`
	var form types.MedicalForm
	var answers string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&form.ID,
		&form.BookingID,
		&form.Name,
		&form.Email,
		&answers,
		&form.PhysicianApproval,
		&form.Completed,
		&form.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.MedicalForm{}, ErrNotFound
		}
		return types.MedicalForm{}, err
	}
	form.MedicalAnswers = json.RawMessage(answers)
	return form, nil
}
