package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/BruksfildServices01/care-scheduler/internal/config"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
)

type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends plain-text mail. Auth is used only when a user is set.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	host := strings.TrimSpace(cfg.SMTPHost)
	s := &SMTPSender{
		addr: fmt.Sprintf("%s:%s", host, strings.TrimSpace(cfg.SMTPPort)),
		from: strings.TrimSpace(cfg.MailFrom),
	}
	if cfg.SMTPUser != "" {
		s.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, host)
	}
	return s
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

type NoopSender struct{}

func (NoopSender) Send(string, string, string) error { return nil }

// New picks SMTP when a host is configured.
func New(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		return NoopSender{}
	}
	return NewSMTPSender(cfg)
}

// Async delivers mail in the background. Failures are logged and never
// reach the caller.
type Async struct {
	sender Sender
	wg     sync.WaitGroup
}

func NewAsync(sender Sender) *Async {
	return &Async{sender: sender}
}

func (a *Async) Send(to, subject, body string) {
	if a == nil || to == "" {
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.sender.Send(to, subject, body); err != nil {
			logger.LogError("mailer", "Send", subject, to, err)
		}
	}()
}

// Wait blocks until in-flight sends finish.
func (a *Async) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
