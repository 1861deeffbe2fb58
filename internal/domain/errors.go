package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Se envuelven con fmt.Errorf("%w: ...") para dar contexto; los handlers usan errors.Is.
var (
	// ErrValidation entrada mal formada o sin campos obligatorios.
	ErrValidation = errors.New("entrada inválida")
	// ErrNotFound identificador desconocido (o producto dado de baja).
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrAuthentication credenciales u OTP inválidos; no distingue cuál factor falló.
	ErrAuthentication = errors.New("autenticación fallida")
	// ErrConflict clave única duplicada (SKU, email).
	ErrConflict = errors.New("conflicto con el estado actual")
	// ErrForbidden el principal no tiene el rol requerido.
	ErrForbidden = errors.New("acceso denegado")
)
