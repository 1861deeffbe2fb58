package auth_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/otp"
)

// captureSender guarda el último código enviado; err simula un canal caído.
type captureSender struct {
	email, code string
	err         error
}

func (s *captureSender) SendCode(_ context.Context, email, code string, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.email, s.code = email, code
	return nil
}

const (
	testEmail    = "ana@stockmaster.com"
	testPassword = "secreto123"
)

func setup(t *testing.T, sender auth.CodeSender) (*auth.AuthUseCase, repository.Repositories) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	_, err := usecase.NewUserUseCase(repos.Users).Register(context.Background(), dto.RegisterRequest{Email: testEmail, Password: testPassword, Role: "manager"})
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(repos.Users, otp.NewMemoryStore(5), sender, auth.Config{OTPTTL: 10 * time.Minute, OTPLength: 6}, zerolog.Nop())
	return uc, repos
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestLogin_EnviaCodigo(t *testing.T) {
	sender := &captureSender{}
	uc, _ := setup(t, sender)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ANA@stockmaster.com ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "Password correct! OTP sent to ana@stockmaster.com.", resp.Message)
	assert.Equal(t, 600, resp.ExpiresIn)
	assert.Nil(t, resp.OTP, "con canal de envío el código no viaja en la respuesta")
	assert.Equal(t, testEmail, sender.email)
	assert.Regexp(t, sixDigits, sender.code)
}

func TestLogin_CanalCaidoDevuelveCodigo(t *testing.T) {
	uc, _ := setup(t, &captureSender{err: errors.New("smtp down")})

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	require.NotNil(t, resp.OTP)
	assert.Regexp(t, sixDigits, *resp.OTP)
	assert.Equal(t, "Password correct! OTP: "+*resp.OTP+" (Email service not configured)", resp.Message)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := setup(t, &captureSender{})
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: testEmail, Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	_, err2 := uc.Login(ctx, dto.LoginRequest{Email: "nadie@stockmaster.com", Password: testPassword})
	assert.ErrorIs(t, err2, domain.ErrAuthentication)
	assert.Equal(t, err.Error(), err2.Error(), "no se distingue usuario inexistente de password incorrecto")
}

func TestVerifyOTP_FlujoCompleto(t *testing.T) {
	sender := &captureSender{}
	uc, _ := setup(t, sender)
	ctx := context.Background()
	_, err := uc.Login(ctx, dto.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	_, err = uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: testEmail, OTP: "no-es"})
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	resp, err := uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: testEmail, OTP: sender.code})
	require.NoError(t, err)
	assert.Equal(t, "2FA verified! Login successful!", resp.Message)
	assert.Equal(t, "manager", resp.Role)
	assert.NotEmpty(t, resp.UserID)

	_, err = uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: testEmail, OTP: sender.code})
	assert.ErrorIs(t, err, domain.ErrAuthentication, "el código es de un solo uso")
}

func TestVerifyOTP_SinCodigoEmitido(t *testing.T) {
	uc, _ := setup(t, &captureSender{})
	_, err := uc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: testEmail, OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	_, err = uc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: testEmail})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerifyOTP_CodigoVencido(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	_, err := usecase.NewUserUseCase(repos.Users).Register(context.Background(), dto.RegisterRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	now := time.Now()
	otps := otp.NewMemoryStore(5).WithClock(func() time.Time { return now })
	sender := &captureSender{}
	uc := auth.NewAuthUseCase(repos.Users, otps, sender, auth.Config{OTPTTL: 10 * time.Minute, OTPLength: 6}, zerolog.Nop())
	ctx := context.Background()
	_, err = uc.Login(ctx, dto.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: testEmail, OTP: sender.code})
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestRequestOTP(t *testing.T) {
	sender := &captureSender{}
	uc, _ := setup(t, sender)
	ctx := context.Background()

	resp, err := uc.RequestOTP(ctx, dto.RequestOTPRequest{Email: testEmail})
	require.NoError(t, err)
	assert.Equal(t, "OTP sent to ana@stockmaster.com.", resp.Message)

	_, err = uc.RequestOTP(ctx, dto.RequestOTPRequest{Email: "nadie@stockmaster.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmail_MismaNormalizacionEnLosTresPasos(t *testing.T) {
	sender := &captureSender{}
	uc, _ := setup(t, sender)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "  Ana@StockMaster.COM", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, testEmail, sender.email)

	resp, err := uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ANA@stockmaster.com ", OTP: sender.code})
	require.NoError(t, err)
	assert.Equal(t, testEmail, resp.Email)

	_, err = uc.RequestOTP(ctx, dto.RequestOTPRequest{Email: " ana@STOCKMASTER.com"})
	require.NoError(t, err)

	for _, raw := range []string{"", "no-es-email", "Ana <ana@stockmaster.com>"} {
		_, err = uc.Login(ctx, dto.LoginRequest{Email: raw, Password: testPassword})
		assert.ErrorIs(t, err, domain.ErrValidation, "login %q", raw)
		_, err = uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: raw, OTP: "123456"})
		assert.ErrorIs(t, err, domain.ErrValidation, "verify %q", raw)
		_, err = uc.RequestOTP(ctx, dto.RequestOTPRequest{Email: raw})
		assert.ErrorIs(t, err, domain.ErrValidation, "request %q", raw)
	}
}

func TestConsumeResult_String(t *testing.T) {
	assert.Equal(t, "valid", auth.ConsumeValid.String())
	assert.Equal(t, "mismatch", auth.ConsumeMismatch.String())
	assert.Equal(t, "expired", auth.ConsumeExpired.String())
	assert.Equal(t, "missing", auth.ConsumeMissing.String())
}
