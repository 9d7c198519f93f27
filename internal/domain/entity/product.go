package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Product representa un producto o SKU del inventario.
// Quantity es una proyección del kardex: solo el motor de reconciliación
// (application/kardex) puede modificarla; el CRUD de productos la trata como lectura.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	CategoryID  string
	SupplierID  string
	Price       decimal.Decimal // precio de venta
	CostPrice   decimal.Decimal // costo de compra
	Quantity    int64           // stock actual == suma de deltas en stock_movements
	Status      string          // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
