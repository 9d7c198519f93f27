package orders

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

// Impuesto y envío de las órdenes (mismos valores del sistema original:
// 10% sobre el neto y tarifa plana de envío).
var (
	orderTaxRate      = decimal.NewFromFloat(0.10)
	orderShippingCost = decimal.NewFromInt(10)
)

// UseCase ciclo de vida de órdenes: Pending → Confirmed → Processing →
// Shipped → Delivered, con Cancelled alcanzable desde cualquier estado no
// terminal. Solo la transición a Delivered afecta stock: descuenta cada
// línea vía kardex y genera una venta Completed por línea con invoice_no
// determinístico. Cancelar o borrar una orden nunca revierte stock, porque
// antes de Delivered nada se descontó y después de Delivered la entrega es
// un hecho físico consumado.
type UseCase struct {
	txRunner     TxRunner
	ledger       *kardex.Ledger
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	ledger *kardex.Ledger,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

// Create crea una orden en estado Pending. Valida cliente, productos y
// disponibilidad (solo pre-chequeo: nada se descuenta hasta Delivered).
// Las líneas sin precio toman el precio vigente del producto.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	var netTotal decimal.Decimal
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.Quantity < it.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		unitPrice := it.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		totalPrice := unitPrice.Mul(decimal.NewFromInt(it.Quantity))
		items = append(items, entity.OrderItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
		})
		netTotal = netTotal.Add(totalPrice)
	}

	taxAmount := netTotal.Mul(orderTaxRate)
	now := time.Now()
	order := &entity.Order{
		ID:                   uuid.New().String(),
		OrderNumber:          fmt.Sprintf("ORD-%d", now.UnixMilli()),
		CustomerID:           in.CustomerID,
		Items:                items,
		Status:               entity.OrderPending,
		PaymentMethod:        in.PaymentMethod,
		PaymentStatus:        entity.PaymentPending,
		ShippingAddress:      toAddress(in.ShippingAddress),
		BillingAddress:       toAddress(in.BillingAddress),
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		TotalAmount:          netTotal.Add(taxAmount).Add(orderShippingCost),
		TaxAmount:            taxAmount,
		ShippingCost:         orderShippingCost,
		Notes:                in.Notes,
		OrderDate:            now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// TransitionStatus mueve la orden según la tabla de transiciones. Pedir el
// estado vigente es un reintento y devuelve la orden sin tocar nada (la
// entrega repetida tampoco duplica ventas: el invoice_no derivado de la
// orden ya existe).
func (uc *UseCase) TransitionStatus(ctx context.Context, userID, id string, in dto.TransitionOrderRequest) (*dto.OrderResponse, error) {
	if !entity.ValidOrderStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}

	var order *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		order, err = orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == in.Status {
			// Reintento del mismo cambio de estado: no-op.
			return nil
		}
		if !entity.CanTransitionOrder(order.Status, in.Status) {
			return domain.ErrInvalidTransition
		}

		if in.Status == entity.OrderDelivered {
			if err := uc.deliver(orderRepo, saleRepo, productRepo, movRepo, order, userID); err != nil {
				return err
			}
		}

		order.Status = in.Status
		if in.TrackingNumber != "" {
			order.TrackingNumber = in.TrackingNumber
		}
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// deliver descuenta el stock de cada línea y genera las ventas de la orden.
// El chequeo del invoice_no corta todo el bloque si la entrega ya fue
// procesada; los movimientos por línea quedan además protegidos por la
// idempotencia del kardex ("orderID#línea").
func (uc *UseCase) deliver(
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	order *entity.Order,
	userID string,
) error {
	exists, err := saleRepo.ExistsByInvoiceNo(order.InvoiceNo())
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	now := time.Now()
	for i, item := range order.Items {
		src := kardex.Source{
			Type: entity.SourceTypeOrder,
			ID:   entity.OrderLineSourceID(order.ID, i),
		}
		if _, err := uc.ledger.Apply(movRepo, productRepo, item.ProductID,
			-item.Quantity, src, userID); err != nil {
			return err
		}
		sale := &entity.Sale{
			ID:          uuid.New().String(),
			CustomerID:  order.CustomerID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalAmount: item.TotalPrice,
			InvoiceNo:   order.InvoiceNo(),
			Status:      entity.SaleCompleted,
			SaleDate:    now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePaymentStatus cambia solo el estado de pago; nunca toca stock.
func (uc *UseCase) UpdatePaymentStatus(ctx context.Context, id string, in dto.UpdatePaymentStatusRequest) (*dto.OrderResponse, error) {
	if !entity.ValidPaymentStatus(in.PaymentStatus) {
		return nil, domain.ErrInvalidInput
	}
	// Update reescribe también las líneas; dentro de la transacción la orden
	// completa sobrevive aunque la escritura falle a mitad.
	var order *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.SaleRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		var err error
		order, err = orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		order.PaymentStatus = in.PaymentStatus
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Delete elimina la orden sin ajustar stock: antes de Delivered nada se
// descontó, y una orden entregada no se revierte (la mercancía ya salió).
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	return uc.orderRepo.Delete(id)
}

// GetByID obtiene una orden con sus líneas.
func (uc *UseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List lista órdenes, opcionalmente filtradas por estado.
func (uc *UseCase) List(status string, limit, offset int) (*dto.OrderListResponse, error) {
	if status != "" && !entity.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.orderRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func toAddress(a dto.AddressDTO) entity.Address {
	return entity.Address{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

func toAddressDTO(a entity.Address) dto.AddressDTO {
	return dto.AddressDTO{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return &dto.OrderResponse{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		CustomerID:           o.CustomerID,
		Items:                items,
		Status:               o.Status,
		PaymentMethod:        o.PaymentMethod,
		PaymentStatus:        o.PaymentStatus,
		ShippingAddress:      toAddressDTO(o.ShippingAddress),
		BillingAddress:       toAddressDTO(o.BillingAddress),
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		TotalAmount:          o.TotalAmount,
		TaxAmount:            o.TaxAmount,
		ShippingCost:         o.ShippingCost,
		Notes:                o.Notes,
		TrackingNumber:       o.TrackingNumber,
		OrderDate:            o.OrderDate,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
