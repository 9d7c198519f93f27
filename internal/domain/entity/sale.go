package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SalePending   = "Pending"
	SaleCompleted = "Completed"
	SaleCancelled = "Cancelled"
)

// Sale representa una venta a cliente (salida de stock).
// Afecta inventario únicamente mientras está en estado Completed.
// Las ventas generadas al entregar una orden llevan el invoice_no derivado
// del número de orden; su efecto sobre stock queda registrado bajo la orden,
// no bajo la venta.
type Sale struct {
	ID          string
	CustomerID  string
	ProductID   string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	InvoiceNo   string // "INV-<unix>" si no se envía; las ventas de una orden comparten el suyo
	Status      string
	SaleDate    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidSaleStatus indica si s es un estado de venta conocido.
func ValidSaleStatus(s string) bool {
	return s == SalePending || s == SaleCompleted || s == SaleCancelled
}

// EffectiveQuantity devuelve la cantidad que la venta descuenta del stock:
// -Quantity mientras está Completed, 0 en cualquier otro estado.
func (s *Sale) EffectiveQuantity() int64 {
	if s.Status == SaleCompleted {
		return -s.Quantity
	}
	return 0
}
