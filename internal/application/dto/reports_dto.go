package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportPeriod rango de fechas del reporte.
type ReportPeriod struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// SalesSummaryDTO resumen del período.
type SalesSummaryDTO struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	SaleCount       int             `json:"sale_count"`
	AverageSale     decimal.Decimal `json:"average_sale"`
	TotalQuantity   int64           `json:"total_quantity"`
	UniqueCustomers int             `json:"unique_customers"`
}

// ProductSalesDTO ventas por producto.
type ProductSalesDTO struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	SaleCount     int             `json:"sale_count"`
}

// CustomerSalesDTO ventas por cliente.
type CustomerSalesDTO struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	SaleCount     int             `json:"sale_count"`
	AverageSale   decimal.Decimal `json:"average_sale"`
}

// SalesReportResponse reporte de ventas completo.
type SalesReportResponse struct {
	Summary         SalesSummaryDTO    `json:"summary"`
	SalesByProduct  []ProductSalesDTO  `json:"sales_by_product"`
	SalesByCustomer []CustomerSalesDTO `json:"sales_by_customer"`
	Period          ReportPeriod       `json:"period"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// InventoryRowDTO fila del reporte de inventario.
type InventoryRowDTO struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	StockValue decimal.Decimal `json:"stock_value"`
	LowStock   bool            `json:"low_stock"`
}

// InventoryReportResponse inventario valorizado.
type InventoryReportResponse struct {
	Items       []InventoryRowDTO `json:"items"`
	TotalValue  decimal.Decimal   `json:"total_value"`
	TotalUnits  int64             `json:"total_units"`
	LowStock    int               `json:"low_stock_count"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// OrderStatusStatDTO órdenes por estado.
type OrderStatusStatDTO struct {
	Status     string          `json:"status"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// OrderStatsResponse estadísticas de órdenes.
type OrderStatsResponse struct {
	Stats       []OrderStatusStatDTO `json:"stats"`
	TotalOrders int                  `json:"total_orders"`
	Revenue     decimal.Decimal      `json:"revenue"` // solo órdenes entregadas
	GeneratedAt time.Time            `json:"generated_at"`
}
