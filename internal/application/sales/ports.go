package sales

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de estado de la
// venta y el movimiento de kardex se confirmen juntos.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación PDF de una factura de venta.
type InvoicePDFGenerator interface {
	GenerateSaleInvoice(in InvoicePDFInput) ([]byte, error)
}
