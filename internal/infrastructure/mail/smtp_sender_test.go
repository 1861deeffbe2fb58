package mail_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/infrastructure/mail"
	"github.com/jhoicas/stockmaster-api/pkg/config"
)

func TestNewSender_WithoutHostIsNoop(t *testing.T) {
	s := mail.NewSender(config.MailConfig{From: "noreply@x.com"})
	err := s.SendCode(context.Background(), "a@b.com", "123456", 10*time.Minute)
	assert.ErrorIs(t, err, mail.ErrNotConfigured)
}

func TestNewSender_WithHostIsSMTP(t *testing.T) {
	s := mail.NewSender(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "noreply@x.com"})
	_, ok := s.(*mail.SMTPSender)
	assert.True(t, ok)
}

func TestBuildMessage_ContainsCode(t *testing.T) {
	m := mail.BuildMessage("noreply@x.com", "a@b.com", "654321", 10*time.Minute)
	assert.Equal(t, []string{"a@b.com"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "654321")
	assert.Contains(t, buf.String(), "10 minutes")
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := mail.NewSMTPSender(config.MailConfig{Host: "127.0.0.1", Port: 1, From: "noreply@x.com"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.SendCode(ctx, "a@b.com", "123456", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
