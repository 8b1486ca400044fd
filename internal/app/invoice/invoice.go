/*
Package invoice generates invoice numbers, payment terms, and printable HTML
invoices for confirmed bookings.
*/
package invoice

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"kwakhanya/internal/app/store"
)

const (
	// NumberPrefix starts every invoice number.
	NumberPrefix = "KDT"

	// PaymentTermDays is the number of days before an issued invoice is due.
	PaymentTermDays = 7
)

// BankAccount is the beneficiary account printed on every invoice.
type BankAccount struct {
	BankName      string
	AccountNumber string
	AccountType   string
	BranchCode    string
	AccountHolder string
}

// DefaultBankAccount is the platform's collection account.
var DefaultBankAccount = BankAccount{
	BankName:      "First National Bank",
	AccountNumber: "1234567890",
	AccountType:   "Business Cheque",
	BranchCode:    "250655",
	AccountHolder: "Kwakhanya Drivers Training",
}

// Details carries everything the HTML invoice renders.
type Details struct {
	InvoiceNumber string
	DateIssued    time.Time
	DueDate       time.Time
	Booking       store.Booking
	School        store.School
	Service       store.Service
	BankAccount   BankAccount
	Notes         string
}

// Number builds the invoice number for a booking: the platform prefix, the
// issue year and month, and the booking id padded to six digits.
func Number(bookingID int32, issued time.Time) string {
	return fmt.Sprintf("%s-%d%02d-%06d", NumberPrefix, issued.Year(), int(issued.Month()), bookingID)
}

// DueDate returns the payment deadline for an invoice issued at the given time.
func DueDate(issued time.Time) time.Time {
	return issued.AddDate(0, 0, PaymentTermDays)
}

// FormatCurrency renders a decimal amount string as South African rand.
// Unparseable input falls back to R0.00.
func FormatCurrency(amount string) string {
	n, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		n = 0
	}
	return fmt.Sprintf("R%.2f", n)
}

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"currency": FormatCurrency,
	"date":     func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(invoiceHTML))

// RenderHTML renders the invoice document. Client-supplied strings are
// escaped by html/template.
func (d Details) RenderHTML() (string, error) {
	var sb strings.Builder
	if err := invoiceTmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("failed to render invoice %s: %w", d.InvoiceNumber, err)
	}
	return sb.String(), nil
}

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Invoice {{.InvoiceNumber}}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 20px; }
    .header { display: flex; justify-content: space-between; margin-bottom: 30px; }
    .company-info { text-align: left; }
    .invoice-info { text-align: right; }
    .billing-details { display: flex; justify-content: space-between; margin: 30px 0; }
    .services-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    .services-table th, .services-table td { border: 1px solid #ddd; padding: 10px; text-align: left; }
    .services-table th { background-color: #f5f5f5; }
    .totals { text-align: right; margin: 20px 0; }
    .payment-info { margin: 30px 0; padding: 20px; background-color: #f9f9f9; }
    .footer { margin-top: 50px; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="header">
    <div class="company-info">
      <h1>Kwakhanya Drivers Training</h1>
      <p>Professional Driving Instruction</p>
    </div>
    <div class="invoice-info">
      <h2>INVOICE</h2>
      <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
      <p><strong>Date:</strong> {{date .DateIssued}}</p>
      <p><strong>Due Date:</strong> {{date .DueDate}}</p>
    </div>
  </div>

  <div class="billing-details">
    <div>
      <h3>Bill To:</h3>
      <p>{{if .Booking.FullName.Valid}}{{.Booking.FullName.String}}{{else}}Customer{{end}}</p>
      <p>{{.Booking.Email.String}}</p>
      <p>{{.Booking.PhoneNumber.String}}</p>
      <p>{{.Booking.Address.String}}</p>
    </div>
    <div>
      <h3>Driving School:</h3>
      <p>{{.School.Name}}</p>
      <p>{{.School.Address}}</p>
      <p>{{.School.City}}</p>
      <p>{{.School.ContactNumber}}</p>
    </div>
  </div>

  <table class="services-table">
    <thead>
      <tr>
        <th>Service</th>
        <th>Description</th>
        <th>Amount</th>
      </tr>
    </thead>
    <tbody>
      <tr>
        <td>{{.Service.Name}}</td>
        <td>{{if .Service.Description.Valid}}{{.Service.Description.String}}{{else}}Driving lessons{{end}}</td>
        <td>{{currency .Booking.TotalAmount}}</td>
      </tr>
    </tbody>
  </table>

  <div class="totals">
    <p><strong>Total Due: {{currency .Booking.TotalAmount}}</strong></p>
  </div>

  <div class="payment-info">
    <h3>Payment Details</h3>
    <p><strong>Bank:</strong> {{.BankAccount.BankName}}</p>
    <p><strong>Account Holder:</strong> {{.BankAccount.AccountHolder}}</p>
    <p><strong>Account Number:</strong> {{.BankAccount.AccountNumber}}</p>
    <p><strong>Account Type:</strong> {{.BankAccount.AccountType}}</p>
    <p><strong>Branch Code:</strong> {{.BankAccount.BranchCode}}</p>
    <p><strong>Reference:</strong> {{.InvoiceNumber}}</p>
  </div>

  {{if .Notes}}<p>{{.Notes}}</p>{{end}}

  <div class="footer">
    <p>Payment is due within {{.TermDays}} days of the invoice date. Thank you for your business.</p>
  </div>
</body>
</html>
`

// TermDays exposes the payment term to the template.
func (d Details) TermDays() int { return PaymentTermDays }
