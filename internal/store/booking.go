package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/reefdive/apiserver/types"
)

const bookingColumns = `id, user_id, name, email, phone, course_id, course_name, course_price,
		preferred_date, experience, medical_cleared, status, payment_status, created_at, updated_at`

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a BookingRepository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking. Empty status fields fall back to pending/unpaid.
func (r *BookingRepository) Create(ctx context.Context, booking types.Booking) (types.Booking, error) {
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.Status == "" {
		booking.Status = types.BookingPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = types.PaymentUnpaid
	}

	const query = `
		INSERT INTO bookings (
			user_id, name, email, phone, course_id, course_name, course_price,
			preferred_date, experience, medical_cleared, status, payment_status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		booking.UserID,
		booking.Name,
		booking.Email,
		booking.Phone,
		booking.CourseID,
		booking.CourseName,
		booking.CoursePrice,
		booking.PreferredDate,
		booking.Experience,
		booking.MedicalCleared,
		string(booking.Status),
		string(booking.PaymentStatus),
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID); err != nil {
		return types.Booking{}, err
	}
	return booking, nil
}

func (r *BookingRepository) Get(ctx context.Context, id int) (types.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Booking{}, ErrNotFound
		}
		return types.Booking{}, err
	}
	return booking, nil
}

// List returns every booking, newest first, optionally filtered by status.
// The result is not paginated.
func (r *BookingRepository) List(ctx context.Context, status types.BookingStatus) ([]types.Booking, error) {
	if status == "" {
		const query = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC`
		return r.query(ctx, query)
	}
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query, string(status))
}

// ListRecent returns the newest bookings across all customers.
func (r *BookingRepository) ListRecent(ctx context.Context, limit int) ([]types.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.query(ctx, query, limit)
}

// ListForOwner returns the newest bookings that belong to a user. Rows that
// predate the user_id column are matched on email.
func (r *BookingRepository) ListForOwner(ctx context.Context, userID int, email string, limit int) ([]types.Booking, error) {
	const query = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 OR (user_id IS NULL AND email = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	return r.query(ctx, query, userID, email, limit)
}

// UpdateStatus sets the lifecycle status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int, status types.BookingStatus) (types.Booking, error) {
	const query = `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return types.Booking{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Booking{}, err
	}
	if affected == 0 {
		return types.Booking{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Stats counts all bookings by status.
func (r *BookingRepository) Stats(ctx context.Context) (types.BookingStats, error) {
	const query = `SELECT status, COUNT(1) FROM bookings GROUP BY status`
	return r.stats(ctx, query)
}

// StatsForOwner counts the bookings of one user by status.
func (r *BookingRepository) StatsForOwner(ctx context.Context, userID int, email string) (types.BookingStats, error) {
	const query = `
		SELECT status, COUNT(1)
		FROM bookings
		WHERE user_id = $1 OR (user_id IS NULL AND email = $2)
		GROUP BY status`
	return r.stats(ctx, query, userID, email)
}

func (r *BookingRepository) stats(ctx context.Context, query string, args ...any) (types.BookingStats, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.BookingStats{}, err
	}
	defer rows.Close()

	var stats types.BookingStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return types.BookingStats{}, err
		}
		stats.Total += count
		switch types.BookingStatus(status) {
		case types.BookingPending:
			stats.Pending = count
		case types.BookingConfirmed:
			stats.Confirmed = count
		case types.BookingCancelled:
			stats.Cancelled = count
		}
	}
	if err := rows.Err(); err != nil {
		return types.BookingStats{}, err
	}
	return stats, nil
}

func (r *BookingRepository) query(ctx context.Context, query string, args ...any) ([]types.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]types.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func scanBooking(row rowScanner) (types.Booking, error) {
	var booking types.Booking
	var userID sql.NullInt64
	var status, paymentStatus string
	if err := row.Scan(
		&booking.ID,
		&userID,
		&booking.Name,
		&booking.Email,
		&booking.Phone,
		&booking.CourseID,
		&booking.CourseName,
		&booking.CoursePrice,
		&booking.PreferredDate,
		&booking.Experience,
		&booking.MedicalCleared,
		&status,
		&paymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return types.Booking{}, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		booking.UserID = &id
	}
	booking.Status = types.BookingStatus(status)
	booking.PaymentStatus = types.PaymentStatus(paymentStatus)
	return booking, nil
}
