package dto

import "time"

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	CompanyName string     `json:"company_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     AddressDTO `json:"address"`
	Categories  []string   `json:"categories"`
	Status      string     `json:"status"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	CompanyName *string     `json:"company_name"`
	Email       *string     `json:"email"`
	Phone       *string     `json:"phone"`
	Address     *AddressDTO `json:"address"`
	Categories  []string    `json:"categories"`
	Status      *string     `json:"status"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          string     `json:"id"`
	CompanyName string     `json:"company_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     AddressDTO `json:"address"`
	Categories  []string   `json:"categories"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
