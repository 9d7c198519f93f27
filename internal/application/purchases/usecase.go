package purchases

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

// UseCase ciclo de vida de compras: Pending, Received, Cancelled.
// Una compra afecta inventario mientras está Received; todo create/update/
// delete reconcilia el kardex contra la cantidad efectiva resultante, de modo
// que editar la cantidad estando Received aplica solo la diferencia.
type UseCase struct {
	txRunner     TxRunner
	ledger       *kardex.Ledger
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	ledger *kardex.Ledger,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
	}
}

// Create registra una compra. Status vacío equivale a Received: la entrada
// de stock se aplica en la misma transacción que inserta la compra.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.PurchaseReceived
	}
	if !entity.ValidPurchaseStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	refNo := in.RefNo
	if refNo == "" {
		refNo = fmt.Sprintf("PUR-%d", now.UnixMilli())
	}
	purchase := &entity.Purchase{
		ID:           uuid.New().String(),
		SupplierID:   in.SupplierID,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		TotalCost:    in.UnitCost.Mul(decimal.NewFromInt(in.Quantity)),
		RefNo:        refNo,
		Status:       status,
		PurchaseDate: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		_, err := uc.ledger.Reconcile(movRepo, productRepo, purchase.ProductID,
			purchase.EffectiveQuantity(), purchaseSource(purchase.ID), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// Update modifica cantidad, costo o estado de la compra y reconcilia el
// kardex contra la nueva cantidad efectiva en la misma transacción.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Status != nil && !entity.ValidPurchaseStatus(*in.Status) {
		return nil, domain.ErrInvalidInput
	}

	var purchase *entity.Purchase
	err := uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		purchase, err = purchaseRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if in.Quantity != nil {
			purchase.Quantity = *in.Quantity
		}
		if in.UnitCost != nil {
			purchase.UnitCost = *in.UnitCost
		}
		if in.Status != nil {
			purchase.Status = *in.Status
		}
		purchase.TotalCost = purchase.UnitCost.Mul(decimal.NewFromInt(purchase.Quantity))
		purchase.UpdatedAt = time.Now()
		if err := purchaseRepo.Update(purchase); err != nil {
			return err
		}
		_, err = uc.ledger.Reconcile(movRepo, productRepo, purchase.ProductID,
			purchase.EffectiveQuantity(), purchaseSource(purchase.ID), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// TransitionStatus cambia solo el estado. Las tres transiciones son libres
// entre sí; repetir el estado vigente es un reintento y no hace nada.
func (uc *UseCase) TransitionStatus(ctx context.Context, userID, id, status string) (*dto.PurchaseResponse, error) {
	if !entity.ValidPurchaseStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	return uc.Update(ctx, userID, id, dto.UpdatePurchaseRequest{Status: &status})
}

// Delete revierte el efecto de stock que la compra haya causado y la elimina,
// en una sola transacción. La reversa nunca falla por stock insuficiente.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		purchase, err := purchaseRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		// Si el producto ya no existe no hay stock que ajustar.
		product, err := productRepo.GetByID(purchase.ProductID)
		if err != nil {
			return err
		}
		if product != nil {
			if _, err := uc.ledger.Reverse(movRepo, productRepo, purchase.ProductID,
				purchaseSource(purchase.ID), userID); err != nil {
				return err
			}
		}
		return purchaseRepo.Delete(id)
	})
}

// GetByID obtiene una compra por ID.
func (uc *UseCase) GetByID(id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, nil
	}
	return toPurchaseResponse(purchase), nil
}

// List lista compras con paginación.
func (uc *UseCase) List(limit, offset int) (*dto.PurchaseListResponse, error) {
	list, err := uc.purchaseRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func purchaseSource(id string) kardex.Source {
	return kardex.Source{Type: entity.SourceTypePurchase, ID: id}
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		ProductID:    p.ProductID,
		Quantity:     p.Quantity,
		UnitCost:     p.UnitCost,
		TotalCost:    p.TotalCost,
		RefNo:        p.RefNo,
		Status:       p.Status,
		PurchaseDate: p.PurchaseDate,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
