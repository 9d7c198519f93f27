package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) para
	// serializar transiciones concurrentes; las líneas se leen después.
	GetForUpdate(id string) (*entity.Order, error)
	Update(order *entity.Order) error
	// List filtra por estado si status no es vacío.
	List(status string, limit, offset int) ([]*entity.Order, error)
	Delete(id string) error
}
