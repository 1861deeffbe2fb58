package entity

import "time"

// Roles válidos para User (enum plano, sin jerarquía).
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
}

// ValidRole reporta si r es un rol conocido.
func ValidRole(r string) bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}
