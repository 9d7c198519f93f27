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

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, order_number, customer_id, status, payment_method, payment_status,
	shipping_street, shipping_city, shipping_state, shipping_zip, shipping_country,
	billing_street, billing_city, billing_state, billing_zip, billing_country,
	expected_delivery_date, total_amount, tax_amount, shipping_cost, notes,
	tracking_number, order_date, created_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas viven en order_items; toda escritura de líneas va en la misma
// transacción que la cabecera.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la orden y sus líneas.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.CustomerID, order.Status,
		order.PaymentMethod, order.PaymentStatus,
		order.ShippingAddress.Street, order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.ZipCode, order.ShippingAddress.Country,
		order.BillingAddress.Street, order.BillingAddress.City, order.BillingAddress.State,
		order.BillingAddress.ZipCode, order.BillingAddress.Country,
		order.ExpectedDeliveryDate, order.TotalAmount, order.TaxAmount, order.ShippingCost,
		order.Notes, order.TrackingNumber, order.OrderDate, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(order.ID, order.Items)
}

// GetByID obtiene una orden con sus líneas.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrderRow(r.q.QueryRow(context.Background(), query, id), "get order")
	if err != nil || order == nil {
		return order, err
	}
	order.Items, err = r.loadItems(id)
	return order, err
}

// GetForUpdate obtiene la orden bloqueando su fila (SELECT FOR UPDATE) y
// carga las líneas después. El lock sobre la cabecera serializa las
// transiciones concurrentes sobre la misma orden.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	order, err := scanOrderRow(r.q.QueryRow(context.Background(), query, id), "get order for update")
	if err != nil || order == nil {
		return order, err
	}
	order.Items, err = r.loadItems(id)
	return order, err
}

// Update actualiza la cabecera y reemplaza las líneas.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, payment_method = $3, payment_status = $4,
			shipping_street = $5, shipping_city = $6, shipping_state = $7, shipping_zip = $8, shipping_country = $9,
			billing_street = $10, billing_city = $11, billing_state = $12, billing_zip = $13, billing_country = $14,
			expected_delivery_date = $15, total_amount = $16, tax_amount = $17, shipping_cost = $18,
			notes = $19, tracking_number = $20, updated_at = $21
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.PaymentMethod, order.PaymentStatus,
		order.ShippingAddress.Street, order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.ZipCode, order.ShippingAddress.Country,
		order.BillingAddress.Street, order.BillingAddress.City, order.BillingAddress.State,
		order.BillingAddress.ZipCode, order.BillingAddress.Country,
		order.ExpectedDeliveryDate, order.TotalAmount, order.TaxAmount, order.ShippingCost,
		order.Notes, order.TrackingNumber, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return r.insertItems(order.ID, order.Items)
}

// List lista órdenes con sus líneas; filtra por estado si status no es vacío.
func (r *OrderRepo) List(status string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY order_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if o.Items, err = r.loadItems(o.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Delete elimina una orden y sus líneas.
func (r *OrderRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) insertItems(orderID string, items []entity.OrderItem) error {
	for i, item := range items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO order_items (order_id, line, product_id, quantity, unit_price, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, i, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// loadItems carga las líneas en el orden en que fueron creadas. El índice de
// línea es parte de la clave de idempotencia del kardex, así que el orden
// debe ser estable.
func (r *OrderRepo) loadItems(orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT product_id, quantity, unit_price, total_price
		 FROM order_items WHERE order_id = $1 ORDER BY line ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrderRow(row pgx.Row, op string) (*entity.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status,
		&o.PaymentMethod, &o.PaymentStatus,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.ZipCode, &o.ShippingAddress.Country,
		&o.BillingAddress.Street, &o.BillingAddress.City, &o.BillingAddress.State,
		&o.BillingAddress.ZipCode, &o.BillingAddress.Country,
		&o.ExpectedDeliveryDate, &o.TotalAmount, &o.TaxAmount, &o.ShippingCost,
		&o.Notes, &o.TrackingNumber, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
