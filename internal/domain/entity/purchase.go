package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchasePending   = "Pending"
	PurchaseReceived  = "Received"
	PurchaseCancelled = "Cancelled"
)

// Purchase representa una compra a proveedor (entrada de stock).
// Afecta inventario únicamente mientras está en estado Received.
type Purchase struct {
	ID           string
	SupplierID   string
	ProductID    string
	Quantity     int64
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	RefNo        string // único, "PUR-<unix>" si no se envía
	Status       string
	PurchaseDate time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidPurchaseStatus indica si s es un estado de compra conocido.
func ValidPurchaseStatus(s string) bool {
	return s == PurchasePending || s == PurchaseReceived || s == PurchaseCancelled
}

// EffectiveQuantity devuelve la cantidad que la compra aporta al stock:
// +Quantity mientras está Received, 0 en cualquier otro estado.
func (p *Purchase) EffectiveQuantity() int64 {
	if p.Status == PurchaseReceived {
		return p.Quantity
	}
	return 0
}
