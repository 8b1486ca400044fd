package mailer

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Sendgrid delivers messages through the SendGrid v3 API.
type Sendgrid struct {
	key  string
	from *sgmail.Email
}

var _ Mailer = (*Sendgrid)(nil)

// NewSendgrid returns a mailer sending from the given address.
func NewSendgrid(apiKey, fromName, fromEmail string) *Sendgrid {
	return &Sendgrid{
		key:  apiKey,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

func (s *Sendgrid) Send(msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("failed to send email %q: %w", msg.Subject, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email %q: status %d: %s", msg.Subject, res.StatusCode, res.Body)
	}
	return nil
}
