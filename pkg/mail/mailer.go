package mail

import (
	"bytes"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"time"
)

// Message is a plain text email
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Bytes returns the message in wire format
func (m Message) Bytes() []byte {
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "From: %s\r\n", m.From)
	fmt.Fprintf(buf, "To: %s\r\n", m.To)
	fmt.Fprintf(buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(m.Body)
	return buf.Bytes()
}

// Mailer delivers messages
type Mailer interface {
	Send(m Message) error
}

// SMTPMailer delivers messages through an SMTP server
type SMTPMailer struct {
	Addr string
	Auth smtp.Auth
}

// NewSMTPMailer creates a mailer for the server at addr
//
// If user is empty, no authentication is used.
func NewSMTPMailer(addr, user, password string) (*SMTPMailer, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP address %q: %v", addr, err)
	}
	m := &SMTPMailer{Addr: addr}
	if user != "" {
		m.Auth = smtp.PlainAuth("", user, password, host)
	}
	return m, nil
}

func (s *SMTPMailer) Send(m Message) error {
	return smtp.SendMail(s.Addr, s.Auth, m.From, []string{m.To}, m.Bytes())
}
