package reports

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Umbral bajo el cual un producto se marca en el reporte de inventario.
const lowStockThreshold = 10

// UseCase consultas de reportes: ventas, inventario valorizado y estadísticas
// de órdenes. Todas son de solo lectura.
type UseCase struct {
	reportsRepo repository.ReportsRepository
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(reportsRepo repository.ReportsRepository) *UseCase {
	return &UseCase{reportsRepo: reportsRepo}
}

// GetSalesReport arma el reporte de ventas del período: resumen, ventas por
// producto y ventas por cliente. from/to nil significa sin filtro.
func (uc *UseCase) GetSalesReport(ctx context.Context, from, to *time.Time) (*dto.SalesReportResponse, error) {
	summary, err := uc.reportsRepo.GetSalesSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byProduct, err := uc.reportsRepo.GetSalesByProduct(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byCustomer, err := uc.reportsRepo.GetSalesByCustomer(ctx, from, to)
	if err != nil {
		return nil, err
	}

	products := make([]dto.ProductSalesDTO, 0, len(byProduct))
	for _, p := range byProduct {
		products = append(products, dto.ProductSalesDTO{
			ProductID:     p.ProductID,
			ProductName:   p.ProductName,
			TotalQuantity: p.TotalQuantity,
			TotalRevenue:  p.TotalRevenue,
			SaleCount:     p.SaleCount,
		})
	}
	customers := make([]dto.CustomerSalesDTO, 0, len(byCustomer))
	for _, c := range byCustomer {
		customers = append(customers, dto.CustomerSalesDTO{
			CustomerID:    c.CustomerID,
			CustomerName:  c.CustomerName,
			CustomerEmail: c.CustomerEmail,
			TotalSpent:    c.TotalSpent,
			SaleCount:     c.SaleCount,
			AverageSale:   c.AverageSale,
		})
	}

	return &dto.SalesReportResponse{
		Summary: dto.SalesSummaryDTO{
			TotalSales:      summary.TotalSales,
			SaleCount:       summary.SaleCount,
			AverageSale:     summary.AverageSale,
			TotalQuantity:   summary.TotalQuantity,
			UniqueCustomers: summary.UniqueCustomers,
		},
		SalesByProduct:  products,
		SalesByCustomer: customers,
		Period:          dto.ReportPeriod{StartDate: from, EndDate: to},
		GeneratedAt:     time.Now(),
	}, nil
}

// GetInventoryReport devuelve el inventario valorizado y marca los productos
// con stock por debajo del umbral.
func (uc *UseCase) GetInventoryReport(ctx context.Context) (*dto.InventoryReportResponse, error) {
	rows, err := uc.reportsRepo.GetInventoryReport(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.InventoryRowDTO, 0, len(rows))
	totalValue := decimal.Zero
	var totalUnits int64
	lowStock := 0
	for _, r := range rows {
		low := r.Quantity < lowStockThreshold
		if low {
			lowStock++
		}
		totalValue = totalValue.Add(r.StockValue)
		totalUnits += r.Quantity
		items = append(items, dto.InventoryRowDTO{
			ProductID:  r.ProductID,
			SKU:        r.SKU,
			Name:       r.Name,
			Quantity:   r.Quantity,
			Price:      r.Price,
			CostPrice:  r.CostPrice,
			StockValue: r.StockValue,
			LowStock:   low,
		})
	}

	return &dto.InventoryReportResponse{
		Items:       items,
		TotalValue:  totalValue,
		TotalUnits:  totalUnits,
		LowStock:    lowStock,
		GeneratedAt: time.Now(),
	}, nil
}

// GetOrderStats agrupa órdenes por estado. Revenue suma únicamente el valor
// de las órdenes entregadas.
func (uc *UseCase) GetOrderStats(ctx context.Context) (*dto.OrderStatsResponse, error) {
	stats, err := uc.reportsRepo.GetOrderStats(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.OrderStatusStatDTO, 0, len(stats))
	total := 0
	revenue := decimal.Zero
	for _, s := range stats {
		total += s.Count
		if s.Status == entity.OrderDelivered {
			revenue = revenue.Add(s.TotalValue)
		}
		out = append(out, dto.OrderStatusStatDTO{
			Status:     s.Status,
			Count:      s.Count,
			TotalValue: s.TotalValue,
		})
	}

	return &dto.OrderStatsResponse{
		Stats:       out,
		TotalOrders: total,
		Revenue:     revenue,
		GeneratedAt: time.Now(),
	}, nil
}
