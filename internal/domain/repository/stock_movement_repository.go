package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del kardex.
// El log es append-only: solo Create; las reversas son movimientos nuevos.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// NetDeltaBySource devuelve la suma de deltas registrados para un origen.
	// Es la base de la idempotencia: efecto ya aplicado == delta neto distinto de cero.
	NetDeltaBySource(sourceType, sourceID string) (int64, error)
	// SumByProduct devuelve la suma de todos los deltas de un producto
	// (debe coincidir con products.quantity en todo momento).
	SumByProduct(productID string) (int64, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
}
