package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest entrada para registrar una compra.
// Status vacío equivale a Received (la mercancía ya llegó).
type CreatePurchaseRequest struct {
	SupplierID string          `json:"supplier_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	RefNo      string          `json:"ref_no"`
	Status     string          `json:"status"`
}

// UpdatePurchaseRequest entrada para actualizar una compra. Cambios de
// Status o Quantity reconcilian el stock con la diferencia, no con el total.
type UpdatePurchaseRequest struct {
	Quantity *int64           `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
	Status   *string          `json:"status"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	SupplierID   string          `json:"supplier_id"`
	ProductID    string          `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	RefNo        string          `json:"ref_no"`
	Status       string          `json:"status"`
	PurchaseDate time.Time       `json:"purchase_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
