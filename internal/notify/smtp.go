package notify

import (
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/cleared-dev/splitbill/internal/config"
)

// implicitTLSPort is the SMTPS port; other ports use STARTTLS.
const implicitTLSPort = 465

// SMTPSender sends mail through an authenticated SMTP server.
type SMTPSender struct {
	host  string
	port  int
	creds config.Credentials
}

// NewSMTPSender creates a sender for host:port using creds.
func NewSMTPSender(host string, port int, creds config.Credentials) *SMTPSender {
	return &SMTPSender{host: host, port: port, creds: creds}
}

// Send delivers msg.
func (s *SMTPSender) Send(msg Message) error {
	if s.creds.Username == "" || s.creds.Password == "" {
		return fmt.Errorf("SMTP credentials missing: set SMTP_USERNAME and SMTP_PASSWORD")
	}
	if msg.From == "" {
		msg.From = s.creds.Username
	}
	m, err := Build(msg)
	if err != nil {
		return err
	}

	c, err := mail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client %s: %w", s.host, err)
	}
	if err := c.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", s.host, s.port, err)
	}
	return nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.creds.Username),
		mail.WithPassword(s.creds.Password),
	}
	if s.port == implicitTLSPort {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	// Port last: the TLS options above reset it to their defaults.
	return append(opts, mail.WithPort(s.port))
}

// Build turns msg into a MIME message with Date, Message-ID and encoded
// headers.
func Build(msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("no recipients configured")
	}
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
