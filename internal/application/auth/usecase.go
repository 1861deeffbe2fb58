package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/pkg/metrics"
)

// Config parámetros del segundo factor.
type Config struct {
	OTPTTL    time.Duration
	OTPLength int
}

// AuthUseCase login en dos pasos: password (bcrypt) y luego código de un solo uso.
type AuthUseCase struct {
	users  repository.UserRepository
	otps   OTPStore
	sender CodeSender
	cfg    Config
	log    zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, otps OTPStore, sender CodeSender, cfg Config, log zerolog.Logger) *AuthUseCase {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = 6
	}
	return &AuthUseCase{users: users, otps: otps, sender: sender, cfg: cfg, log: log}
}

// Login verifica email/password y emite un código. Usuario inexistente y password
// incorrecto devuelven el mismo ErrAuthentication.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.OTPResponse, error) {
	email, err := usecase.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: email o password inválidos", domain.ErrAuthentication)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: email o password inválidos", domain.ErrAuthentication)
	}
	return uc.issue(ctx, email, "Password correct! ")
}

// RequestOTP emite un código sin password. Usuario inexistente → ErrNotFound.
func (uc *AuthUseCase) RequestOTP(ctx context.Context, in dto.RequestOTPRequest) (*dto.OTPResponse, error) {
	email, err := usecase.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario no registrado", domain.ErrNotFound)
	}
	return uc.issue(ctx, email, "")
}

// VerifyOTP consume el código. Cualquier fallo (incorrecto, vencido, inexistente) es
// ErrAuthentication; si el usuario desapareció entre pasos, ErrNotFound.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	email, err := usecase.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.OTP)
	if code == "" {
		return nil, fmt.Errorf("%w: otp es obligatorio", domain.ErrValidation)
	}
	result, err := uc.otps.Consume(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if result != ConsumeValid {
		metrics.OTPEvents.WithLabelValues("rejected").Inc()
		uc.log.Info().Str("email", email).Str("result", result.String()).Msg("OTP rechazado")
		return nil, fmt.Errorf("%w: OTP inválido o vencido", domain.ErrAuthentication)
	}
	metrics.OTPEvents.WithLabelValues("verified").Inc()

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario no encontrado", domain.ErrNotFound)
	}
	return &dto.LoginResponse{
		Message: "2FA verified! Login successful!",
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
	}, nil
}

// issue genera y guarda el código e intenta enviarlo. Si el envío falla, el código
// viaja en la respuesta.
func (uc *AuthUseCase) issue(ctx context.Context, email, prefix string) (*dto.OTPResponse, error) {
	code, err := generateCode(uc.cfg.OTPLength)
	if err != nil {
		return nil, err
	}
	if err := uc.otps.Put(ctx, email, code, uc.cfg.OTPTTL); err != nil {
		return nil, err
	}
	metrics.OTPEvents.WithLabelValues("issued").Inc()

	resp := &dto.OTPResponse{Email: email, ExpiresIn: int(uc.cfg.OTPTTL / time.Second)}
	if err := uc.sender.SendCode(ctx, email, code, uc.cfg.OTPTTL); err != nil {
		metrics.OTPEvents.WithLabelValues("fallback").Inc()
		uc.log.Warn().Err(err).Str("email", email).Msg("envío de OTP falló: se devuelve en la respuesta")
		resp.Message = fmt.Sprintf("%sOTP: %s (Email service not configured)", prefix, code)
		resp.OTP = &code
		return resp, nil
	}
	metrics.OTPEvents.WithLabelValues("delivered").Inc()
	resp.Message = fmt.Sprintf("%sOTP sent to %s.", prefix, email)
	return resp, nil
}

var ten = big.NewInt(10)

// generateCode código numérico de n dígitos con crypto/rand.
func generateCode(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generar OTP: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
