package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, customer_id, product_id, quantity, unit_price, total_amount, invoice_no, status, sale_date, created_at, updated_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una venta. El invoice_no no es único: las ventas
// generadas al entregar una orden comparten el de la orden.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerID, sale.ProductID, sale.Quantity,
		sale.UnitPrice, sale.TotalAmount, sale.InvoiceNo, sale.Status,
		sale.SaleDate, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSaleRow(r.q.QueryRow(context.Background(), query, id), "get sale")
}

// GetForUpdate obtiene la venta y bloquea su fila (SELECT FOR UPDATE).
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	return scanSaleRow(r.q.QueryRow(context.Background(), query, id), "get sale for update")
}

// ExistsByInvoiceNo indica si ya existe una venta con ese invoice_no.
func (r *SaleRepo) ExistsByInvoiceNo(invoiceNo string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM sales WHERE invoice_no = $1)`, invoiceNo,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by invoice_no: %w", err)
	}
	return exists, nil
}

// Update actualiza una venta existente.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET customer_id = $2, product_id = $3, quantity = $4,
			unit_price = $5, total_amount = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerID, sale.ProductID, sale.Quantity,
		sale.UnitPrice, sale.TotalAmount, sale.Status, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List lista ventas con paginación, más recientes primero.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY sale_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.ProductID, &s.Quantity, &s.UnitPrice,
			&s.TotalAmount, &s.InvoiceNo, &s.Status, &s.SaleDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina una venta por ID.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

func scanSaleRow(row pgx.Row, op string) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CustomerID, &s.ProductID, &s.Quantity, &s.UnitPrice,
		&s.TotalAmount, &s.InvoiceNo, &s.Status, &s.SaleDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
