package kardex

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Source identifica la entidad origen de un efecto sobre stock.
// El par (Type, ID) es la clave de idempotencia del kardex.
type Source struct {
	Type string // entity.SourceTypePurchase | SourceTypeSale | SourceTypeOrder
	ID   string
}

// Ledger es el único componente autorizado a modificar products.quantity.
// Opera sobre repositorios atados a la transacción del caller (patrón
// TxRunner), de modo que el cambio de estado de la entidad origen y el
// movimiento de stock se confirman o revierten juntos.
//
// Todo pasa por Reconcile: en lugar de ramas separadas para "cambió el
// estado", "cambió la cantidad", etc., el caller declara el efecto neto
// objetivo del origen y el ledger aplica solo la diferencia contra lo ya
// registrado. Un objetivo igual al efecto vigente es un no-op exitoso
// (reintento duplicado), no un error.
type Ledger struct{}

// NewLedger construye el motor de reconciliación.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Reconcile lleva el efecto neto del origen src sobre productID al valor
// target, bloqueando la fila del producto (SELECT FOR UPDATE) antes de leer
// el delta neto vigente. Devuelve el delta aplicado (0 si no había nada que
// hacer).
//
// El guard de stock negativo aplica únicamente cuando el objetivo empuja el
// efecto neto más abajo de cero (una salida nueva o ampliada). Encoger o
// revertir un efecto positivo ya aplicado nunca falla por stock insuficiente,
// aunque deje la cantidad bajo cero: esa compra ya se vendió y el faltante
// debe quedar visible, no bloqueado.
func (l *Ledger) Reconcile(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	target int64,
	src Source,
	actor string,
) (int64, error) {
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}

	current, err := movRepo.NetDeltaBySource(src.Type, src.ID)
	if err != nil {
		return 0, err
	}
	diff := target - current
	if diff == 0 {
		// Efecto ya aplicado (reintento) o nada que registrar.
		return 0, nil
	}

	if target < 0 && target < current && product.Quantity+diff < 0 {
		return 0, domain.ErrInsufficientStock
	}

	if err := productRepo.UpdateQuantity(productID, product.Quantity+diff); err != nil {
		return 0, err
	}
	mov := &entity.StockMovement{
		ProductID:  productID,
		Delta:      diff,
		SourceType: src.Type,
		SourceID:   src.ID,
		AppliedAt:  time.Now(),
		CreatedBy:  actor,
	}
	if err := movRepo.Create(mov); err != nil {
		return 0, err
	}
	return diff, nil
}

// Apply registra el efecto completo delta del origen src. Idempotente: si el
// efecto ya está aplicado con el mismo valor, es un no-op exitoso.
func (l *Ledger) Apply(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	delta int64,
	src Source,
	actor string,
) (int64, error) {
	return l.Reconcile(movRepo, productRepo, productID, delta, src, actor)
}

// Reverse anula todo efecto previamente registrado por src (efecto neto a
// cero). No-op si el origen nunca registró movimientos. Nunca devuelve
// ErrInsufficientStock.
func (l *Ledger) Reverse(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	src Source,
	actor string,
) (int64, error) {
	return l.Reconcile(movRepo, productRepo, productID, 0, src, actor)
}
