package mailer

import (
	"fmt"

	"kwakhanya/internal/app/store"
)

// BookingConfirmation is sent to the customer once a booking gets its
// invoice. Falls back to the admin address when the booking has no email.
func BookingConfirmation(b store.Booking, adminEmail string) Message {
	to := adminEmail
	if b.Email.Valid && b.Email.String != "" {
		to = b.Email.String
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Booking Confirmation - %s", b.InvoiceNumber.String),
		Text:    fmt.Sprintf("Your driving lesson booking has been confirmed. Booking ID: %d", b.ID),
		HTML: fmt.Sprintf(`<h2>Booking Confirmation</h2>
<p>Your driving lesson booking has been confirmed.</p>
<p><strong>Booking ID:</strong> %d</p>
<p><strong>Invoice Number:</strong> %s</p>
<p><strong>Total Amount:</strong> R%s</p>`,
			b.ID, b.InvoiceNumber.String, b.TotalAmount),
	}
}

// SchoolRegistration notifies the platform admin that a new school signed up.
func SchoolRegistration(s store.School, adminEmail string) Message {
	return Message{
		To:      adminEmail,
		Subject: fmt.Sprintf("New School Registration - %s", s.Name),
		Text:    fmt.Sprintf("A new driving school has registered: %s", s.Name),
		HTML: fmt.Sprintf(`<h2>New School Registration</h2>
<p><strong>School Name:</strong> %s</p>
<p><strong>Contact Person:</strong> %s</p>
<p><strong>City:</strong> %s</p>`,
			s.Name, s.ContactPerson, s.City),
	}
}

// PaymentConfirmation is sent to the customer when a payment is recorded.
func PaymentConfirmation(b store.Booking, adminEmail string) Message {
	to := adminEmail
	if b.Email.Valid && b.Email.String != "" {
		to = b.Email.String
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Payment Confirmation - %s", b.InvoiceNumber.String),
		Text:    fmt.Sprintf("Payment received for booking %d", b.ID),
		HTML: fmt.Sprintf(`<h2>Payment Confirmation</h2>
<p>Payment has been received for your booking.</p>
<p><strong>Booking ID:</strong> %d</p>
<p><strong>Amount Paid:</strong> R%s</p>`,
			b.ID, b.TotalAmount),
	}
}
