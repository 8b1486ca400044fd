package mailer

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"kwakhanya/internal/app/store"
)

const adminAddr = "admin@kwakhanyadrivers.co.za"

func TestBookingConfirmation(t *testing.T) {
	b := store.Booking{
		ID:            12,
		TotalAmount:   "1500.00",
		Email:         pgtype.Text{String: "learner@example.com", Valid: true},
		InvoiceNumber: pgtype.Text{String: "KDT-202506-000012", Valid: true},
	}

	msg := BookingConfirmation(b, adminAddr)

	assert.Equal(t, "learner@example.com", msg.To)
	assert.Equal(t, "Booking Confirmation - KDT-202506-000012", msg.Subject)
	assert.Contains(t, msg.HTML, "R1500.00")
	assert.Contains(t, msg.Text, "Booking ID: 12")
}

func TestBookingConfirmationFallsBackToAdmin(t *testing.T) {
	msg := BookingConfirmation(store.Booking{ID: 3}, adminAddr)

	assert.Equal(t, adminAddr, msg.To)
}

func TestSchoolRegistration(t *testing.T) {
	s := store.School{
		Name:          "Sunrise Driving Academy",
		ContactPerson: "Sipho Dlamini",
		City:          "Durban",
	}

	msg := SchoolRegistration(s, adminAddr)

	assert.Equal(t, adminAddr, msg.To)
	assert.Equal(t, "New School Registration - Sunrise Driving Academy", msg.Subject)
	assert.Contains(t, msg.HTML, "Sipho Dlamini")
	assert.Contains(t, msg.HTML, "Durban")
}

func TestConsoleSendNeverFails(t *testing.T) {
	assert.NoError(t, Console{}.Send(Message{To: "a@b.c", Subject: "hi"}))
}
