package entity

import "time"

// Estados de proveedor.
const (
	SupplierActive      = "Active"
	SupplierInactive    = "Inactive"
	SupplierPending     = "Pending"
	SupplierBlacklisted = "Blacklisted"
)

// Supplier proveedor de productos.
type Supplier struct {
	ID          string
	CompanyName string // único
	Email       string // único
	Phone       string
	Address     Address
	Categories  []string // p.ej. "Raw Materials", "Electronics"
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidSupplierStatus indica si s es un estado de proveedor conocido.
func ValidSupplierStatus(s string) bool {
	return s == SupplierActive || s == SupplierInactive || s == SupplierPending || s == SupplierBlacklisted
}
