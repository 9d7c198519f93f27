package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateQuantity es de uso exclusivo del motor de kardex; el CRUD no lo llama.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar las mutaciones de stock dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateQuantity(id string, quantity int64) error
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
