package entity

import (
	"fmt"
	"time"
)

// Tipos de origen de un movimiento de kardex. SourceTypeProduct registra el
// stock inicial declarado al crear el producto (source_id = product_id).
const (
	SourceTypeProduct  = "product"
	SourceTypePurchase = "purchase"
	SourceTypeSale     = "sale"
	SourceTypeOrder    = "order"
)

// StockMovement es una entrada del kardex: la aplicación de un delta con signo
// sobre el stock de un producto, atribuible a exactamente una entidad origen.
// El log es append-only; las correcciones se hacen con movimientos de signo
// contrario, nunca editando filas. Invariante: para todo producto,
// products.quantity == SUM(delta) de sus movimientos.
type StockMovement struct {
	ID         string
	ProductID  string
	Delta      int64  // positivo entrada, negativo salida
	SourceType string // purchase, sale, order
	SourceID   string // ID de la entidad origen; para órdenes "orderID#línea"
	AppliedAt  time.Time
	CreatedBy  string // UserID, vacío para procesos internos
}

// OrderLineSourceID construye la clave de idempotencia de una línea de orden.
func OrderLineSourceID(orderID string, line int) string {
	return fmt.Sprintf("%s#%d", orderID, line)
}
