package kardex

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// QueryUseCase consultas de lectura del kardex.
type QueryUseCase struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *QueryUseCase {
	return &QueryUseCase{movRepo: movRepo, productRepo: productRepo}
}

// GetProductKardex devuelve los movimientos de un producto junto con su
// stock vigente.
func (uc *QueryUseCase) GetProductKardex(productID string, limit, offset int) (*dto.StockMovementListResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Delta:      m.Delta,
			SourceType: m.SourceType,
			SourceID:   m.SourceID,
			AppliedAt:  m.AppliedAt,
			CreatedBy:  m.CreatedBy,
		})
	}
	return &dto.StockMovementListResponse{
		ProductID: productID,
		Quantity:  product.Quantity,
		Items:     items,
		Page:      dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}
