package invoice

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kwakhanya/internal/app/store"
)

func TestNumber(t *testing.T) {
	issued := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "KDT-202506-000042", Number(42, issued))
	assert.Equal(t, "KDT-202512-123456", Number(123456, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDueDate(t *testing.T) {
	issued := time.Date(2025, 6, 28, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 7, 5, 9, 0, 0, 0, time.UTC), DueDate(issued))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R1500.00", FormatCurrency("1500.00"))
	assert.Equal(t, "R99.90", FormatCurrency(" 99.9 "))
	assert.Equal(t, "R0.00", FormatCurrency("not-a-number"))
	assert.Equal(t, "R0.00", FormatCurrency(""))
}

func TestRenderHTML(t *testing.T) {
	issued := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	d := Details{
		InvoiceNumber: Number(7, issued),
		DateIssued:    issued,
		DueDate:       DueDate(issued),
		Booking: store.Booking{
			ID:          7,
			TotalAmount: "2500.50",
			FullName:    pgtype.Text{String: "Thandi Nkosi", Valid: true},
			Email:       pgtype.Text{String: "thandi@example.com", Valid: true},
		},
		School: store.School{
			Name:          "Sunrise Driving Academy",
			Address:       "12 Main Rd",
			City:          "Cape Town",
			ContactNumber: "021 555 0100",
		},
		Service: store.Service{
			Name: "Code 10 Package",
		},
		BankAccount: DefaultBankAccount,
	}

	html, err := d.RenderHTML()
	require.NoError(t, err)

	assert.Contains(t, html, "KDT-202506-000007")
	assert.Contains(t, html, "Thandi Nkosi")
	assert.Contains(t, html, "Sunrise Driving Academy")
	assert.Contains(t, html, "R2500.50")
	assert.Contains(t, html, "2025-06-15")
	assert.Contains(t, html, "2025-06-22")
	assert.Contains(t, html, DefaultBankAccount.AccountNumber)
}

func TestRenderHTMLEscapesClientInput(t *testing.T) {
	d := Details{
		InvoiceNumber: "KDT-202506-000001",
		DateIssued:    time.Now(),
		DueDate:       time.Now(),
		Booking: store.Booking{
			TotalAmount: "100",
			FullName:    pgtype.Text{String: "<script>alert(1)</script>", Valid: true},
		},
		BankAccount: DefaultBankAccount,
	}

	html, err := d.RenderHTML()
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
