package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase ciclo de vida de ventas: Pending, Completed, Cancelled.
// Una venta afecta inventario mientras está Completed; el kardex se
// reconcilia contra la cantidad efectiva resultante de cada operación.
type UseCase struct {
	txRunner    TxRunner
	ledger      *kardex.Ledger
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	ledger *kardex.Ledger,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

// Create registra una venta. Status vacío equivale a Completed (venta de
// mostrador). Para ventas Completed se verifica el stock disponible antes de
// persistir nada; el guard del kardex vuelve a validar dentro de la
// transacción, con la fila del producto bloqueada.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.CustomerID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.SaleCompleted
	}
	if !entity.ValidSaleStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	// Pre-chequeo: una venta Completed debe rechazarse antes de crear el
	// registro si no hay stock.
	if status == entity.SaleCompleted && product.Quantity < in.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	now := time.Now()
	invoiceNo := in.InvoiceNo
	if invoiceNo == "" {
		invoiceNo = fmt.Sprintf("INV-%d", now.UnixMilli())
	}
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		CustomerID:  in.CustomerID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalAmount: in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity)),
		InvoiceNo:   invoiceNo,
		Status:      status,
		SaleDate:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		_, err := uc.ledger.Reconcile(movRepo, productRepo, sale.ProductID,
			sale.EffectiveQuantity(), saleSource(sale.ID), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Update modifica cantidad, precio o estado de la venta y reconcilia el
// kardex contra la nueva cantidad efectiva en la misma transacción. Ampliar
// una venta Completed sin stock suficiente falla con ErrInsufficientStock y
// no persiste nada.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Status != nil && !entity.ValidSaleStatus(*in.Status) {
		return nil, domain.ErrInvalidInput
	}

	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		sale, err = saleRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if in.Quantity != nil {
			sale.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			sale.UnitPrice = *in.UnitPrice
		}
		if in.Status != nil {
			sale.Status = *in.Status
		}
		sale.TotalAmount = sale.UnitPrice.Mul(decimal.NewFromInt(sale.Quantity))
		sale.UpdatedAt = time.Now()
		if err := saleRepo.Update(sale); err != nil {
			return err
		}
		_, err = uc.ledger.Reconcile(movRepo, productRepo, sale.ProductID,
			sale.EffectiveQuantity(), saleSource(sale.ID), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// TransitionStatus cambia solo el estado. Las tres transiciones son libres
// entre sí; repetir el estado vigente es un reintento y no hace nada.
func (uc *UseCase) TransitionStatus(ctx context.Context, userID, id, status string) (*dto.SaleResponse, error) {
	if !entity.ValidSaleStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	return uc.Update(ctx, userID, id, dto.UpdateSaleRequest{Status: &status})
}

// Delete revierte el efecto de stock que la venta haya causado y la elimina,
// en una sola transacción. Las ventas generadas por entrega de orden no
// registran movimientos propios, así que su borrado no devuelve stock.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		product, err := productRepo.GetByID(sale.ProductID)
		if err != nil {
			return err
		}
		if product != nil {
			if _, err := uc.ledger.Reverse(movRepo, productRepo, sale.ProductID,
				saleSource(sale.ID), userID); err != nil {
				return err
			}
		}
		return saleRepo.Delete(id)
	})
}

// GetByID obtiene una venta por ID.
func (uc *UseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// List lista ventas con paginación.
func (uc *UseCase) List(limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.saleRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func saleSource(id string) kardex.Source {
	return kardex.Source{Type: entity.SourceTypeSale, ID: id}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		ProductID:   s.ProductID,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalAmount: s.TotalAmount,
		InvoiceNo:   s.InvoiceNo,
		Status:      s.Status,
		SaleDate:    s.SaleDate,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
