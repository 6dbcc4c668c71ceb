package mailingservices

import (
	"context"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/techagentng/complaintx/logging"
)

// Mailgun sends transactional emails. With no API key configured every send
// becomes a logged no-op.
type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init() {
	domain := os.Getenv("MG_DOMAIN")
	apiKey := os.Getenv("MG_PUBLIC_API_KEY")
	m.From = os.Getenv("EMAIL_FROM")
	if domain == "" || apiKey == "" {
		logging.Sugar.Warn("mailgun not configured, emails disabled")
		return
	}
	m.Client = mailgun.NewMailgun(domain, apiKey)
}

// SendEmail delivers one plain-text email, best effort
func (m *Mailgun) SendEmail(recipient, subject, body string) error {
	if m.Client == nil {
		return nil
	}

	message := m.Client.NewMessage(m.From, subject, body, recipient)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	return err
}
