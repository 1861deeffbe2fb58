package dto

import "time"

// RegisterRequest entrada para registro: password en texto, se hashea en el use case.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest primer factor. Se acepta por body JSON o query params.
type LoginRequest struct {
	Email    string `json:"email" query:"email"`
	Password string `json:"password" query:"password"`
}

// RequestOTPRequest solicitud de código sin password.
type RequestOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest segundo factor.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// OTPResponse código emitido. OTP solo viene cuando el envío falló.
type OTPResponse struct {
	Message   string  `json:"message"`
	Email     string  `json:"email"`
	ExpiresIn int     `json:"expires_in"`
	OTP       *string `json:"otp"`
}

// LoginResponse principal autenticado; Token solo si hay JWT configurado.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Token   string `json:"token,omitempty"`
}
