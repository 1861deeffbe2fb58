// Package mail entrega los códigos de un solo uso por correo.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
	"github.com/jhoicas/stockmaster-api/pkg/config"
)

// ErrNotConfigured el canal de correo no tiene servidor SMTP.
var ErrNotConfigured = errors.New("servicio de email no configurado")

var (
	_ auth.CodeSender = (*SMTPSender)(nil)
	_ auth.CodeSender = NoopSender{}
)

// SMTPSender envía el código vía SMTP con gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el emisor a partir de la configuración.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendCode arma y envía el mensaje. gomail no acepta contexto: solo se respeta la cancelación previa.
func (s *SMTPSender) SendCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := BuildMessage(s.from, email, code, ttl)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar OTP a %s: %w", email, err)
	}
	return nil
}

// BuildMessage arma el correo con el código en texto plano y HTML.
func BuildMessage(from, to, code string, ttl time.Duration) *gomail.Message {
	minutes := int(ttl / time.Minute)
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your StockMaster OTP Code")
	m.SetBody("text/plain", fmt.Sprintf("Your OTP code is: %s\nThis code expires in %d minutes.", code, minutes))
	m.AddAlternative("text/html", fmt.Sprintf(
		"<h2>Your OTP code</h2><p style=\"font-size:24px;font-weight:bold;letter-spacing:4px\">%s</p>"+
			"<p>This code expires in %d minutes.</p>", code, minutes))
	return m
}

// NoopSender canal sin configurar: siempre falla, así el código se devuelve en la respuesta.
type NoopSender struct{}

// SendCode devuelve ErrNotConfigured.
func (NoopSender) SendCode(context.Context, string, string, time.Duration) error {
	return ErrNotConfigured
}

// NewSender elige SMTP si hay servidor configurado, si no NoopSender.
func NewSender(cfg config.MailConfig) auth.CodeSender {
	if cfg.Configured() {
		return NewSMTPSender(cfg)
	}
	return NoopSender{}
}
