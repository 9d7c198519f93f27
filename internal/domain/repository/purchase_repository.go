package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para Purchase.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// transiciones concurrentes sobre la misma compra.
	GetForUpdate(id string) (*entity.Purchase, error)
	Update(purchase *entity.Purchase) error
	List(limit, offset int) ([]*entity.Purchase, error)
	Delete(id string) error
}
