package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin            = "admin"
	RoleTechnician       = "technician"
	RoleTechnicalAdvisor = "technical_advisor"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema. La identidad la gestiona auth; el libro solo guarda el ID.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, technician, technical_advisor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole informa si role es uno de los roles soportados.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTechnician, RoleTechnicalAdvisor:
		return true
	}
	return false
}

// IsActive informa si el usuario puede operar.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
