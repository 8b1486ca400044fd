package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"kwakhanya/internal/app/db"
	"kwakhanya/internal/app/invoice"
	"kwakhanya/internal/app/mailer"
	"kwakhanya/internal/app/storage"
	"kwakhanya/internal/app/store"
	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/logx"
	"kwakhanya/internal/pkg/req"
	"kwakhanya/internal/pkg/resp"
)

type CreateBookingInput struct {
	SchoolID      int32  `json:"schoolId"`
	ServiceID     int32  `json:"serviceId"`
	InstructorID  int32  `json:"instructorId"`
	VehicleID     int32  `json:"vehicleId"`
	StartDate     string `json:"startDate"`
	Notes         string `json:"notes"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

// HandleCreateBooking creates a pending booking for the authenticated
// account, stamps its invoice, archives the invoice document, and sends the
// confirmation email. The booking amount always comes from the stored
// service price, never from the client.
func HandleCreateBooking(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireAuth(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CreateBookingInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		startDate, err := time.Parse("2006-01-02", input.StartDate)
		if err != nil || startDate.Before(time.Now().Truncate(24*time.Hour)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrBookingDateInvalid))
			return
		}

		service, err := deps.Store.GetServiceByID(r.Context(), input.ServiceID)
		if err != nil || !service.IsActive || service.SchoolID != input.SchoolID {
			resp.RespondError(w, r, errs.NewError(errs.ErrServiceNotFound))
			return
		}

		school, err := deps.Store.GetSchoolByID(r.Context(), input.SchoolID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrSchoolNotFound))
			return
		}

		booking, err := deps.Store.CreateBooking(r.Context(), store.CreateBookingParams{
			UserID:        identity.UserID,
			SchoolID:      school.ID,
			ServiceID:     service.ID,
			InstructorID:  pgtype.Int4{Int32: input.InstructorID, Valid: input.InstructorID > 0},
			VehicleID:     pgtype.Int4{Int32: input.VehicleID, Valid: input.VehicleID > 0},
			StartDate:     startDate,
			TotalAmount:   service.Price,
			Notes:         pgtype.Text{String: input.Notes, Valid: input.Notes != ""},
			FullName:      pgtype.Text{String: input.FullName, Valid: input.FullName != ""},
			Email:         pgtype.Text{String: input.Email, Valid: input.Email != ""},
			PhoneNumber:   pgtype.Text{String: input.PhoneNumber, Valid: input.PhoneNumber != ""},
			Address:       pgtype.Text{String: input.Address, Valid: input.Address != ""},
			PaymentMethod: pgtype.Text{String: input.PaymentMethod, Valid: input.PaymentMethod != ""},
		})
		if err != nil {
			// Instructor and vehicle ids are not pre-checked, so a stale
			// reference surfaces here as a foreign key violation.
			if db.IsForeignKeyViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			logx.Error(err, "failed to create booking", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// The invoice number embeds the booking id, so it is stamped in a
		// second step once the insert has assigned one.
		issued := time.Now().UTC()
		invoiceNumber := invoice.Number(booking.ID, issued)
		if err := deps.Store.SetBookingInvoice(r.Context(), booking.ID, invoiceNumber, issued); err != nil {
			logx.Error(err, "failed to stamp invoice onto booking", "booking_id", booking.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		booking.InvoiceNumber = pgtype.Text{String: invoiceNumber, Valid: true}
		booking.InvoiceDate = pgtype.Timestamptz{Time: issued, Valid: true}

		go archiveInvoice(deps, booking, school, service, issued)
		go sendBookingConfirmation(deps, booking)

		resp.RespondSuccess(w, r, map[string]any{
			"booking": booking,
		})
	}
}

// archiveInvoice renders the invoice document and uploads it to object
// storage. Failures are logged, never surfaced to the customer.
func archiveInvoice(deps *AppDeps, booking store.Booking, school store.School, service store.Service, issued time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	details := invoice.Details{
		InvoiceNumber: booking.InvoiceNumber.String,
		DateIssued:    issued,
		DueDate:       invoice.DueDate(issued),
		Booking:       booking,
		School:        school,
		Service:       service,
		BankAccount:   invoice.DefaultBankAccount,
	}

	html, err := details.RenderHTML()
	if err != nil {
		logx.Error(err, "failed to render invoice for archive", "booking_id", booking.ID)
		return
	}

	key := storage.InvoiceKey(booking.InvoiceNumber.String)
	if err := deps.StorageService.UploadHTML(ctx, key, html); err != nil {
		logx.Error(err, "failed to archive invoice", "booking_id", booking.ID, "key", key)
	}
}

// sendBookingConfirmation delivers the confirmation email and marks the
// booking notified on success.
func sendBookingConfirmation(deps *AppDeps, booking store.Booking) {
	msg := mailer.BookingConfirmation(booking, deps.Config.AdminEmail)
	if err := deps.Mailer.Send(msg); err != nil {
		logx.Error(err, "failed to send booking confirmation", "booking_id", booking.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := deps.Store.MarkBookingNotified(ctx, booking.ID); err != nil {
		logx.Error(err, "failed to mark booking notified", "booking_id", booking.ID)
	}
}

// HandleListBookings returns the authenticated account's bookings, newest
// first, with school and service names embedded.
func HandleListBookings(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireAuth(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		bookings, err := deps.Store.ListBookingsByUser(r.Context(), identity.UserID)
		if err != nil {
			logx.Error(err, "failed to list bookings", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"bookings": bookings,
		})
	}
}

// HandleGetInvoice renders the HTML invoice for a booking. Accessible to the
// booking owner, the booked school, and platform admins.
func HandleGetInvoice(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireAuth(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		id, customErr := urlParamID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		booking, err := deps.Store.GetBookingByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				resp.RespondError(w, r, errs.NewError(errs.ErrBookingNotFound))
				return
			}
			logx.Error(err, "failed to fetch booking", "booking_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		school, err := deps.Store.GetSchoolByID(r.Context(), booking.SchoolID)
		if err != nil {
			logx.Error(err, "failed to fetch school for invoice", "booking_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !canViewBooking(identity, booking, school) {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		service, err := deps.Store.GetServiceByID(r.Context(), booking.ServiceID)
		if err != nil {
			logx.Error(err, "failed to fetch service for invoice", "booking_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		issued := time.Now().UTC()
		if booking.InvoiceDate.Valid {
			issued = booking.InvoiceDate.Time
		}

		details := invoice.Details{
			InvoiceNumber: booking.InvoiceNumber.String,
			DateIssued:    issued,
			DueDate:       invoice.DueDate(issued),
			Booking:       booking,
			School:        school,
			Service:       service,
			BankAccount:   invoice.DefaultBankAccount,
		}

		html, err := details.RenderHTML()
		if err != nil {
			logx.Error(err, "failed to render invoice", "booking_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html))
	}
}

func canViewBooking(identity *jwt.Payload, booking store.Booking, school store.School) bool {
	if identity.IsAdmin() {
		return true
	}
	if booking.UserID == identity.UserID {
		return true
	}
	return identity.Role == jwt.RoleSchool && school.UserID == identity.UserID
}
