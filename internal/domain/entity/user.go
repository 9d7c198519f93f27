package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User usuario del sistema (personal interno, no clientes).
type User struct {
	ID           string
	Name         string
	Email        string // único
	PasswordHash string
	Role         string // admin, staff
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
