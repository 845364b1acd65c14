// Package mail delivers the few messages the dev server sends to users.
// Messages go out over SMTP when a relay is configured and are otherwise
// written out for the developer to read.
package mail

import (
	"io"
	"sync"

	"gopkg.in/gomail.v2"
)

type Message struct {
	To      []string
	Subject string
	Body    string
}

type Sender interface {
	Send(message *Message) error
}

func newMessage(from string, message *Message, settings ...gomail.MessageSetting) *gomail.Message {
	msg := gomail.NewMessage(settings...)
	if from != "" {
		msg.SetHeader("From", from)
	}
	msg.SetHeader("To", message.To...)
	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/plain", message.Body)
	return msg
}

// WriterSender prints every message to w as a MIME message followed by a
// separator line. Bodies are left unencoded so links stay copyable.
type WriterSender struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

func (s *WriterSender) Send(message *Message) error {
	msg := newMessage("", message, gomail.SetEncoding(gomail.Unencoded))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := msg.WriteTo(s.w); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, "\r\n---\r\n")
	return err
}

type SMTPSender struct {
	*gomail.Dialer
	From string
}

func (s *SMTPSender) Send(message *Message) error {
	return s.DialAndSend(newMessage(s.From, message))
}

func NewSMTPSender(dialer *gomail.Dialer, from string) *SMTPSender {
	return &SMTPSender{
		Dialer: dialer,
		From:   from,
	}
}
