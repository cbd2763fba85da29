package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User representa un usuario del sistema. Se usa solo para atribución de facturas y movimientos.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Email        string
	Role         string
	Active       bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}
