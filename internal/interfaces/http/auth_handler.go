package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/pkg/jwt"
)

// SessionConfig emisión de JWT tras el segundo factor. Secret vacío = sin token.
type SessionConfig struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// AuthHandler maneja login en dos pasos y registro.
type AuthHandler struct {
	uc      *auth.AuthUseCase
	users   *usecase.UserUseCase
	session SessionConfig
	log     zerolog.Logger
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase, users *usecase.UserUseCase, session SessionConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, users: users, session: session, log: log}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, role (staff por defecto)"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	// Sin JWT el registro es anónimo: no puede crear administradores.
	if h.session.Secret == "" && strings.EqualFold(strings.TrimSpace(in.Role), entity.RoleAdmin) {
		h.log.Warn().Str("email", in.Email).Msg("registro anónimo de admin rechazado")
		return fmt.Errorf("%w: sin JWT_SECRET no se pueden registrar administradores", domain.ErrForbidden)
	}
	out, err := h.users.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Paso 1: email y password
// @Description  Acepta body JSON o query params. Si las credenciales son correctas emite un OTP de 10 minutos.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  false  "Credenciales"
// @Success      200   {object}  dto.OTPResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if in.Email == "" {
		if err := c.QueryParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RequestOTP godoc
// @Summary      Solicitar OTP sin password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestOTPRequest  true  "Email registrado"
// @Success      200   {object}  dto.OTPResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var in dto.RequestOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RequestOTP(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// VerifyOTP godoc
// @Summary      Paso 2: verificar OTP
// @Description  Un código válido solo sirve una vez. Devuelve token si hay JWT configurado.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyOTPRequest  true  "email y otp"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.VerifyOTP(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    CodeInvalidOTP,
				Message: "Invalid or expired OTP. Please login again.",
			})
		}
		return err
	}
	if h.session.Secret != "" {
		token, err := jwt.Generate(h.session.Secret, jwt.Principal{UserID: out.UserID, Email: out.Email, Role: out.Role}, h.session.Issuer, h.session.ExpMinutes)
		if err != nil {
			return err
		}
		out.Token = token
	}
	return c.JSON(out)
}
