package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/orders"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductA   = "00000000-0000-0000-0000-0000000000aa"
	testProductB   = "00000000-0000-0000-0000-0000000000ab"
	testCustomerID = "00000000-0000-0000-0000-0000000000cc"
	testUserID     = "00000000-0000-0000-0000-000000000001"
)

type orderEnv struct {
	uc        *orders.UseCase
	customers *testutil.CustomerRepo
	tx        *testutil.TxRunner
}

func newOrderEnv(t *testing.T, stockA, stockB int64) *orderEnv {
	t.Helper()
	tx := testutil.NewTxRunner()
	customers := testutil.NewCustomerRepo()
	customers.Seed(entity.Customer{ID: testCustomerID, Name: "Juana Pérez", Email: "juana@example.com"})
	seedProduct(t, tx, testProductA, "TEC-001", stockA)
	seedProduct(t, tx, testProductB, "MON-001", stockB)
	uc := orders.NewUseCase(tx, kardex.NewLedger(), tx.Orders, tx.Products, customers)
	return &orderEnv{uc: uc, customers: customers, tx: tx}
}

func seedProduct(t *testing.T, tx *testutil.TxRunner, id, sku string, stock int64) {
	t.Helper()
	tx.Products.Seed(entity.Product{
		ID:       id,
		SKU:      sku,
		Name:     "Producto " + sku,
		Price:    decimal.NewFromInt(100),
		Quantity: stock,
	})
	if stock != 0 {
		require.NoError(t, tx.Movements.Create(&entity.StockMovement{
			ProductID:  id,
			Delta:      stock,
			SourceType: entity.SourceTypeProduct,
			SourceID:   id,
		}))
	}
}

func (e *orderEnv) qty(t *testing.T, productID string) int64 {
	t.Helper()
	p, err := e.tx.Products.GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func createReq() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerID: testCustomerID,
		Items: []dto.OrderItemRequest{
			{ProductID: testProductA, Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: testProductB, Quantity: 1, UnitPrice: decimal.NewFromInt(300)},
		},
		PaymentMethod: entity.PaymentMethodCash,
	}
}

func (e *orderEnv) transition(t *testing.T, id, status string) (*dto.OrderResponse, error) {
	t.Helper()
	return e.uc.TransitionStatus(context.Background(), testUserID, id, dto.TransitionOrderRequest{Status: status})
}

// walkTo avanza la orden por la cadena de estados hasta target.
func (e *orderEnv) walkTo(t *testing.T, id, target string) *dto.OrderResponse {
	t.Helper()
	chain := []string{entity.OrderConfirmed, entity.OrderProcessing, entity.OrderShipped, entity.OrderDelivered}
	var last *dto.OrderResponse
	for _, status := range chain {
		var err error
		last, err = e.transition(t, id, status)
		require.NoError(t, err)
		if status == target {
			break
		}
	}
	return last
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Crear una orden valida disponibilidad pero no descuenta nada: el stock se
// promete, no se entrega.
func TestCreate_Pending_NoTocaStock(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, resp.Status)
	assert.Equal(t, entity.PaymentPending, resp.PaymentStatus)
	assert.NotEmpty(t, resp.OrderNumber)

	// Neto 500, impuesto 10% = 50, envío 10.
	assert.True(t, decimal.NewFromInt(560).Equal(resp.TotalAmount), "total = 500 + 50 + 10")
	assert.True(t, decimal.NewFromInt(50).Equal(resp.TaxAmount))

	assert.Equal(t, int64(10), env.qty(t, testProductA))
	assert.Equal(t, int64(5), env.qty(t, testProductB))
}

// Sin stock disponible la orden se rechaza ya en la creación.
func TestCreate_SinStock_ErrInsufficientStock(t *testing.T) {
	env := newOrderEnv(t, 1, 5)

	_, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Una línea sin precio toma el precio vigente del producto.
func TestCreate_LineaSinPrecio_UsaPrecioDelProducto(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	req := createReq()
	req.Items = []dto.OrderItemRequest{{ProductID: testProductA, Quantity: 2}}
	resp, err := env.uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(200).Equal(resp.Items[0].TotalPrice))
}

func TestCreate_ClienteInexistente_ErrNotFound(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	req := createReq()
	req.CustomerID = "no-existe"
	_, err := env.uc.Create(context.Background(), testUserID, req)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_MetodoPagoInvalido_ErrInvalidInput(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	req := createReq()
	req.PaymentMethod = "Trueque"
	_, err := env.uc.Create(context.Background(), testUserID, req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones — flujo hasta Delivered
// ──────────────────────────────────────────────────────────────────────────────

// El flujo completo hasta Delivered descuenta cada línea vía kardex y genera
// una venta Completed por línea con el invoice_no derivado de la orden.
func TestTransition_Delivered_DescuentaYGeneraVentas(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)

	delivered := env.walkTo(t, resp.ID, entity.OrderDelivered)
	assert.Equal(t, entity.OrderDelivered, delivered.Status)

	assert.Equal(t, int64(8), env.qty(t, testProductA))
	assert.Equal(t, int64(4), env.qty(t, testProductB))

	// Cada línea queda registrada bajo su propia clave "orderID#línea".
	netA, err := env.tx.Movements.NetDeltaBySource(entity.SourceTypeOrder, entity.OrderLineSourceID(resp.ID, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(-2), netA)
	netB, err := env.tx.Movements.NetDeltaBySource(entity.SourceTypeOrder, entity.OrderLineSourceID(resp.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), netB)

	// Ventas generadas: una por línea, Completed, y todas comparten el mismo
	// invoice_no derivado de la orden (el número de factura no es único).
	generated := env.tx.Sales.FindByInvoice("INV-" + resp.OrderNumber)
	require.Len(t, generated, 2, "cada línea debe producir su venta, sin conflicto de factura")
	for _, s := range generated {
		assert.Equal(t, entity.SaleCompleted, s.Status)
		assert.Equal(t, testCustomerID, s.CustomerID)
		assert.Equal(t, "INV-"+resp.OrderNumber, s.InvoiceNo)
	}
	assert.Equal(t, testProductA, generated[0].ProductID)
	assert.Equal(t, int64(2), generated[0].Quantity)
	assert.True(t, decimal.NewFromInt(200).Equal(generated[0].TotalAmount))
}

// Saltarse estados no está permitido.
func TestTransition_SaltoDeEstado_ErrInvalidTransition(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)

	_, err = env.transition(t, resp.ID, entity.OrderShipped)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Delivered es terminal: ninguna transición posterior es válida.
func TestTransition_DesdeDelivered_ErrInvalidTransition(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)
	env.walkTo(t, resp.ID, entity.OrderDelivered)

	_, err = env.transition(t, resp.ID, entity.OrderCancelled)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Repetir el estado vigente es un reintento: devuelve la orden sin tocar nada.
func TestTransition_ReintentoMismoEstado_NoOp(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)

	_, err = env.transition(t, resp.ID, entity.OrderConfirmed)
	require.NoError(t, err)
	again, err := env.transition(t, resp.ID, entity.OrderConfirmed)
	require.NoError(t, err, "repetir el estado vigente no es un error")
	assert.Equal(t, entity.OrderConfirmed, again.Status)
}

// Si ya existe una venta con el invoice_no de la orden, la entrega se trata
// como procesada: no se descuenta stock ni se generan ventas nuevas.
func TestTransition_EntregaYaFacturada_NoDuplicaEfectos(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)
	env.walkTo(t, resp.ID, entity.OrderShipped)

	// Una entrega previa alcanzó a facturar antes de confirmar el estado.
	require.NoError(t, env.tx.Sales.Create(&entity.Sale{
		ID:         uuid.New().String(),
		CustomerID: testCustomerID,
		ProductID:  testProductA,
		Quantity:   2,
		InvoiceNo:  "INV-" + resp.OrderNumber,
		Status:     entity.SaleCompleted,
	}))
	salesBefore := env.tx.Sales.Count()

	delivered, err := env.transition(t, resp.ID, entity.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, delivered.Status)
	assert.Equal(t, int64(10), env.qty(t, testProductA), "el stock no debe descontarse de nuevo")
	assert.Equal(t, salesBefore, env.tx.Sales.Count(), "no deben generarse ventas duplicadas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación y borrado — nunca tocan stock
// ──────────────────────────────────────────────────────────────────────────────

// Cancelar antes de Delivered no revierte nada porque nada se descontó.
func TestTransition_Cancelar_NoTocaStock(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)
	_, err = env.transition(t, resp.ID, entity.OrderConfirmed)
	require.NoError(t, err)

	cancelled, err := env.transition(t, resp.ID, entity.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	assert.Equal(t, int64(10), env.qty(t, testProductA))
	assert.Equal(t, int64(5), env.qty(t, testProductB))
}

// Borrar una orden entregada no devuelve el stock: la mercancía ya salió.
func TestDelete_OrdenEntregada_NoRestauraStock(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)
	env.walkTo(t, resp.ID, entity.OrderDelivered)
	require.Equal(t, int64(8), env.qty(t, testProductA))

	require.NoError(t, env.uc.Delete(context.Background(), resp.ID))

	assert.Equal(t, int64(8), env.qty(t, testProductA))
	got, err := env.uc.GetByID(resp.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "la orden debe quedar eliminada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePaymentStatus_CambiaSoloElPago(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)

	updated, err := env.uc.UpdatePaymentStatus(context.Background(), resp.ID,
		dto.UpdatePaymentStatusRequest{PaymentStatus: entity.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, entity.OrderPending, updated.Status, "el estado de la orden no cambia")
	assert.Len(t, updated.Items, 2, "las líneas de la orden sobreviven al cambio de pago")
	assert.Equal(t, int64(10), env.qty(t, testProductA))
}

func TestUpdatePaymentStatus_FallaLaEscritura_NoPierdeLasLineas(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)

	env.tx.Orders.FailNextUpdate(errors.New("fallo inyectado"))
	_, err = env.uc.UpdatePaymentStatus(context.Background(), resp.ID,
		dto.UpdatePaymentStatusRequest{PaymentStatus: entity.PaymentPaid})
	require.Error(t, err)

	order, err := env.tx.Orders.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, entity.PaymentPending, order.PaymentStatus, "el pago no cambia si la escritura falla")
	assert.Len(t, order.Items, 2, "las líneas no se pierden a mitad de la reescritura")
}

func TestUpdatePaymentStatus_EstadoInvalido_ErrInvalidInput(t *testing.T) {
	env := newOrderEnv(t, 10, 5)

	resp, err := env.uc.Create(context.Background(), testUserID, createReq())
	require.NoError(t, err)

	_, err = env.uc.UpdatePaymentStatus(context.Background(), resp.ID,
		dto.UpdatePaymentStatusRequest{PaymentStatus: "Fiado"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
