package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// transiciones concurrentes sobre la misma venta.
	GetForUpdate(id string) (*entity.Sale, error)
	// ExistsByInvoiceNo se usa como chequeo de idempotencia al entregar
	// órdenes: el invoice_no de las ventas generadas es determinístico.
	ExistsByInvoiceNo(invoiceNo string) (bool, error)
	Update(sale *entity.Sale) error
	List(limit, offset int) ([]*entity.Sale, error)
	Delete(id string) error
}
