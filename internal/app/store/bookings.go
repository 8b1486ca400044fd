package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, user_id, school_id, service_id, instructor_id, vehicle_id, start_date,
	status, total_amount::text, notes, full_name, email, phone_number, address, payment_method,
	invoice_number, invoice_date, notification_sent, created_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.SchoolID,
		&b.ServiceID,
		&b.InstructorID,
		&b.VehicleID,
		&b.StartDate,
		&b.Status,
		&b.TotalAmount,
		&b.Notes,
		&b.FullName,
		&b.Email,
		&b.PhoneNumber,
		&b.Address,
		&b.PaymentMethod,
		&b.InvoiceNumber,
		&b.InvoiceDate,
		&b.NotificationSent,
		&b.CreatedAt,
	)
	return b, err
}

// CreateBookingParams are the insert values for a new booking. Status starts
// as pending; the invoice fields are filled in by SetBookingInvoice once the
// booking id is known.
type CreateBookingParams struct {
	UserID        int32
	SchoolID      int32
	ServiceID     int32
	InstructorID  pgtype.Int4
	VehicleID     pgtype.Int4
	StartDate     time.Time
	TotalAmount   string
	Notes         pgtype.Text
	FullName      pgtype.Text
	Email         pgtype.Text
	PhoneNumber   pgtype.Text
	Address       pgtype.Text
	PaymentMethod pgtype.Text
}

// CreateBooking inserts a new pending booking and returns the stored row.
func (s *Store) CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO bookings (user_id, school_id, service_id, instructor_id, vehicle_id, start_date,
			total_amount, notes, full_name, email, phone_number, address, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13, 'pending')
		RETURNING `+bookingColumns,
		arg.UserID, arg.SchoolID, arg.ServiceID, arg.InstructorID, arg.VehicleID, arg.StartDate,
		arg.TotalAmount, arg.Notes, arg.FullName, arg.Email, arg.PhoneNumber, arg.Address, arg.PaymentMethod,
	)
	return scanBooking(row)
}

// SetBookingInvoice stamps the invoice number and issue date onto a booking.
func (s *Store) SetBookingInvoice(ctx context.Context, id int32, invoiceNumber string, invoiceDate time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE bookings SET invoice_number = $2, invoice_date = $3 WHERE id = $1`,
		id, invoiceNumber, invoiceDate)
	return err
}

// MarkBookingNotified records that the confirmation email was submitted.
func (s *Store) MarkBookingNotified(ctx context.Context, id int32) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE bookings SET notification_sent = true WHERE id = $1`, id)
	return err
}

// GetBookingByID fetches one booking by id.
func (s *Store) GetBookingByID(ctx context.Context, id int32) (Booking, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

func scanBookingDetail(row interface{ Scan(dest ...any) error }) (BookingDetail, error) {
	var d BookingDetail
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.SchoolID,
		&d.ServiceID,
		&d.InstructorID,
		&d.VehicleID,
		&d.StartDate,
		&d.Status,
		&d.TotalAmount,
		&d.Notes,
		&d.FullName,
		&d.Email,
		&d.PhoneNumber,
		&d.Address,
		&d.PaymentMethod,
		&d.InvoiceNumber,
		&d.InvoiceDate,
		&d.NotificationSent,
		&d.CreatedAt,
		&d.SchoolName,
		&d.ServiceName,
	)
	return d, err
}

const bookingDetailQuery = `
	SELECT b.id, b.user_id, b.school_id, b.service_id, b.instructor_id, b.vehicle_id, b.start_date,
		b.status, b.total_amount::text, b.notes, b.full_name, b.email, b.phone_number, b.address,
		b.payment_method, b.invoice_number, b.invoice_date, b.notification_sent, b.created_at,
		ds.name, sv.name
	FROM bookings b
	JOIN driving_schools ds ON ds.id = b.school_id
	JOIN services sv ON sv.id = b.service_id`

// ListBookingsByUser returns a user's bookings, newest first, with the school
// and service names joined in.
func (s *Store) ListBookingsByUser(ctx context.Context, userID int32) ([]BookingDetail, error) {
	rows, err := s.pool.Query(ctx,
		bookingDetailQuery+` WHERE b.user_id = $1 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows, scanBookingDetail)
}

// ListBookingsBySchool returns a school's most recent bookings.
func (s *Store) ListBookingsBySchool(ctx context.Context, schoolID int32, limit int32) ([]BookingDetail, error) {
	rows, err := s.pool.Query(ctx,
		bookingDetailQuery+` WHERE b.school_id = $1 ORDER BY b.created_at DESC LIMIT $2`, schoolID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows, scanBookingDetail)
}

// CountBookings returns the total number of bookings.
func (s *Store) CountBookings(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n)
	return n, err
}
