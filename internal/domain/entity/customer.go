package entity

import "time"

// Customer cliente que compra productos.
type Customer struct {
	ID        string
	Name      string
	Email     string // único
	Phone     string
	Address   Address
	Status    string // Active, Inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
