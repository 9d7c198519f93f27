package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReportsRepository = (*ReportsRepo)(nil)

// ReportsRepo consultas de solo lectura para reportes de ventas, inventario y órdenes.
// Solo cuenta ventas Completed: Pending y Cancelled no son ingreso.
type ReportsRepo struct {
	pool *pgxpool.Pool
}

// NewReportsRepository construye el adaptador de reportes.
func NewReportsRepository(pool *pgxpool.Pool) *ReportsRepo {
	return &ReportsRepo{pool: pool}
}

// GetSalesSummary devuelve los totales de venta del período.
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *ReportsRepo) GetSalesSummary(ctx context.Context, from, to *time.Time) (*repository.SalesSummaryResult, error) {
	query := `
	SELECT
	    COALESCE(SUM(total_amount), 0)           AS total_sales,
	    COUNT(*)                                 AS sale_count,
	    COALESCE(AVG(total_amount), 0)           AS average_sale,
	    COALESCE(SUM(quantity), 0)               AS total_quantity,
	    COUNT(DISTINCT customer_id)              AS unique_customers
	FROM sales
	WHERE status = $1` + salesDateFilter(from, to, 2)

	args := []any{entity.SaleCompleted}
	args = appendDateArgs(args, from, to)

	var res repository.SalesSummaryResult
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&res.TotalSales, &res.SaleCount, &res.AverageSale, &res.TotalQuantity, &res.UniqueCustomers,
	)
	if err != nil {
		return nil, fmt.Errorf("reports.GetSalesSummary: %w", err)
	}
	return &res, nil
}

// GetSalesByProduct agrupa ventas Completed por producto, mayor ingreso primero.
func (r *ReportsRepo) GetSalesByProduct(ctx context.Context, from, to *time.Time) ([]repository.ProductSalesResult, error) {
	query := `
	SELECT
	    s.product_id,
	    p.name                       AS product_name,
	    SUM(s.quantity)              AS total_quantity,
	    SUM(s.total_amount)          AS total_revenue,
	    COUNT(*)                     AS sale_count
	FROM sales s
	JOIN products p ON p.id = s.product_id
	WHERE s.status = $1` + salesDateFilterPrefixed(from, to, 2, "s") + `
	GROUP BY s.product_id, p.name
	ORDER BY total_revenue DESC`

	args := []any{entity.SaleCompleted}
	args = appendDateArgs(args, from, to)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports.GetSalesByProduct: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductSalesResult
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.TotalQuantity,
			&row.TotalRevenue, &row.SaleCount); err != nil {
			return nil, fmt.Errorf("reports.GetSalesByProduct scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSalesByCustomer agrupa ventas Completed por cliente, mayor gasto primero.
func (r *ReportsRepo) GetSalesByCustomer(ctx context.Context, from, to *time.Time) ([]repository.CustomerSalesResult, error) {
	query := `
	SELECT
	    s.customer_id,
	    c.name                       AS customer_name,
	    c.email                      AS customer_email,
	    SUM(s.total_amount)          AS total_spent,
	    COUNT(*)                     AS sale_count,
	    AVG(s.total_amount)          AS average_sale
	FROM sales s
	JOIN customers c ON c.id = s.customer_id
	WHERE s.status = $1` + salesDateFilterPrefixed(from, to, 2, "s") + `
	GROUP BY s.customer_id, c.name, c.email
	ORDER BY total_spent DESC`

	args := []any{entity.SaleCompleted}
	args = appendDateArgs(args, from, to)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports.GetSalesByCustomer: %w", err)
	}
	defer rows.Close()

	var results []repository.CustomerSalesResult
	for rows.Next() {
		var row repository.CustomerSalesResult
		if err := rows.Scan(&row.CustomerID, &row.CustomerName, &row.CustomerEmail,
			&row.TotalSpent, &row.SaleCount, &row.AverageSale); err != nil {
			return nil, fmt.Errorf("reports.GetSalesByCustomer scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetInventoryReport devuelve el inventario valorizado producto por producto.
func (r *ReportsRepo) GetInventoryReport(ctx context.Context) ([]repository.InventoryRowResult, error) {
	const query = `
	SELECT
	    id, sku, name, quantity, price, cost_price,
	    quantity * cost_price AS stock_value
	FROM products
	WHERE status = 'active'
	ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.GetInventoryReport: %w", err)
	}
	defer rows.Close()

	var results []repository.InventoryRowResult
	for rows.Next() {
		var row repository.InventoryRowResult
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.Quantity,
			&row.Price, &row.CostPrice, &row.StockValue); err != nil {
			return nil, fmt.Errorf("reports.GetInventoryReport scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetOrderStats agrupa órdenes por estado con su valor total.
func (r *ReportsRepo) GetOrderStats(ctx context.Context) ([]repository.OrderStatusStatResult, error) {
	const query = `
	SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
	FROM orders
	GROUP BY status
	ORDER BY status ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.GetOrderStats: %w", err)
	}
	defer rows.Close()

	var results []repository.OrderStatusStatResult
	for rows.Next() {
		var row repository.OrderStatusStatResult
		if err := rows.Scan(&row.Status, &row.Count, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("reports.GetOrderStats scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func salesDateFilter(from, to *time.Time, pos int) string {
	return salesDateFilterPrefixed(from, to, pos, "")
}

// salesDateFilterPrefixed arma el filtro de fechas con placeholders a partir
// de pos; alias prefija la columna cuando la consulta hace JOIN.
func salesDateFilterPrefixed(from, to *time.Time, pos int, alias string) string {
	col := "sale_date"
	if alias != "" {
		col = alias + ".sale_date"
	}
	filter := ""
	if from != nil {
		filter += fmt.Sprintf(" AND %s >= $%d", col, pos)
		pos++
	}
	if to != nil {
		filter += fmt.Sprintf(" AND %s <= $%d", col, pos)
	}
	return filter
}

func appendDateArgs(args []any, from, to *time.Time) []any {
	if from != nil {
		args = append(args, *from)
	}
	if to != nil {
		args = append(args, *to)
	}
	return args
}
