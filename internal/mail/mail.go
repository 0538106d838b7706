// Package mail abstracts the delivery of confirmation codes. The API
// only needs a fire-and-forget sender; actual SMTP wiring lives
// outside this service.
package mail

import "log"

type Sender interface {
	SendConfirmationCode(email, code string) error
}

// LogSender writes the message to the server log instead of sending
// it. Useful for development and for the handler tests.
type LogSender struct{}

func (LogSender) SendConfirmationCode(email, code string) error {
	log.Printf("mail to %s: your confirmation code is %s", email, code)
	return nil
}

// CaptureSender records the last message for inspection in tests.
type CaptureSender struct {
	Email string
	Code  string
}

func (s *CaptureSender) SendConfirmationCode(email, code string) error {
	s.Email = email
	s.Code = code
	return nil
}
