package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult resultado crudo del resumen de ventas de un período.
// Lo produce la DB; el use case lo convierte en DTO.
type SalesSummaryResult struct {
	TotalSales      decimal.Decimal
	SaleCount       int
	AverageSale     decimal.Decimal
	TotalQuantity   int64
	UniqueCustomers int
}

// ProductSalesResult ventas agrupadas por producto.
type ProductSalesResult struct {
	ProductID     string
	ProductName   string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
	SaleCount     int
}

// CustomerSalesResult ventas agrupadas por cliente.
type CustomerSalesResult struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	TotalSpent    decimal.Decimal
	SaleCount     int
	AverageSale   decimal.Decimal
}

// InventoryRowResult fila del reporte de inventario valorizado.
type InventoryRowResult struct {
	ProductID  string
	SKU        string
	Name       string
	Quantity   int64
	Price      decimal.Decimal
	CostPrice  decimal.Decimal
	StockValue decimal.Decimal // quantity * cost_price
}

// OrderStatusStatResult conteo y valor de órdenes por estado.
type OrderStatusStatResult struct {
	Status     string
	Count      int
	TotalValue decimal.Decimal
}

// ReportsRepository define las consultas de lectura para reportes.
// Las implementaciones son read-only (no modifican datos).
type ReportsRepository interface {
	// GetSalesSummary devuelve totales de venta del período. from/to nil = sin filtro.
	GetSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummaryResult, error)
	// GetSalesByProduct devuelve ventas por producto ordenadas por ingreso descendente.
	GetSalesByProduct(ctx context.Context, from, to *time.Time) ([]ProductSalesResult, error)
	// GetSalesByCustomer devuelve ventas por cliente ordenadas por gasto descendente.
	GetSalesByCustomer(ctx context.Context, from, to *time.Time) ([]CustomerSalesResult, error)
	// GetInventoryReport devuelve el inventario valorizado producto por producto.
	GetInventoryReport(ctx context.Context) ([]InventoryRowResult, error)
	// GetOrderStats agrupa órdenes por estado con su valor total.
	GetOrderStats(ctx context.Context) ([]OrderStatusStatResult, error)
}
