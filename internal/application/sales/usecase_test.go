package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "00000000-0000-0000-0000-0000000000aa"
	testCustomerID = "00000000-0000-0000-0000-0000000000cc"
	testUserID     = "00000000-0000-0000-0000-000000000001"
)

func newSaleEnv(t *testing.T, stock int64) (*sales.UseCase, *testutil.TxRunner) {
	t.Helper()
	tx := testutil.NewTxRunner()
	tx.Products.Seed(entity.Product{
		ID:       testProductID,
		SKU:      "MON-001",
		Name:     "Monitor 24\"",
		Quantity: stock,
	})
	if stock != 0 {
		require.NoError(t, tx.Movements.Create(&entity.StockMovement{
			ProductID:  testProductID,
			Delta:      stock,
			SourceType: entity.SourceTypeProduct,
			SourceID:   testProductID,
		}))
	}
	uc := sales.NewUseCase(tx, kardex.NewLedger(), tx.Sales, tx.Products)
	return uc, tx
}

func productQty(t *testing.T, tx *testutil.TxRunner) int64 {
	t.Helper()
	p, err := tx.Products.GetByID(testProductID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func createReq(quantity int64) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerID: testCustomerID,
		ProductID:  testProductID,
		Quantity:   quantity,
		UnitPrice:  decimal.NewFromInt(50),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Una venta Completed (el default, venta de mostrador) descuenta el stock en
// la misma operación que la crea.
func TestCreate_Completed_DescuentaStock(t *testing.T) {
	uc, tx := newSaleEnv(t, 10)

	resp, err := uc.Create(context.Background(), testUserID, createReq(4))
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCompleted, resp.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(resp.TotalAmount), "total = 4 * 50")
	assert.NotEmpty(t, resp.InvoiceNo)

	assert.Equal(t, int64(6), productQty(t, tx))
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypeSale, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), net, "el kardex debe registrar la salida bajo la venta")
}

// Vender más de lo disponible se rechaza antes de persistir nada: ni venta,
// ni movimiento, ni cambio de stock.
func TestCreate_SinStock_NoPersisteNada(t *testing.T) {
	uc, tx := newSaleEnv(t, 2)

	_, err := uc.Create(context.Background(), testUserID, createReq(5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(2), productQty(t, tx))
	assert.Zero(t, tx.Sales.Count(), "la venta no debe quedar creada")
	assert.Len(t, tx.Movements.All(), 1, "solo el movimiento del stock inicial")
}

// Una venta Pending reserva el registro pero no afecta inventario.
func TestCreate_Pending_NoTocaStock(t *testing.T) {
	uc, tx := newSaleEnv(t, 10)

	req := createReq(4)
	req.Status = entity.SalePending
	resp, err := uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)
	assert.Equal(t, entity.SalePending, resp.Status)

	assert.Equal(t, int64(10), productQty(t, tx))
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypeSale, resp.ID)
	require.NoError(t, err)
	assert.Zero(t, net)
}

// Una venta Pending puede crearse aun sin stock: el guard aplica al
// completarla, no al declararla.
func TestCreate_PendingSinStock_Permitida(t *testing.T) {
	uc, _ := newSaleEnv(t, 0)

	req := createReq(5)
	req.Status = entity.SalePending
	_, err := uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

// Cancelar una venta Completed restaura el stock llevando su efecto neto a
// cero.
func TestTransition_CompletedACancelled_RestauraStock(t *testing.T) {
	uc, tx := newSaleEnv(t, 10)

	resp, err := uc.Create(context.Background(), testUserID, createReq(4))
	require.NoError(t, err)
	require.Equal(t, int64(6), productQty(t, tx))

	updated, err := uc.TransitionStatus(context.Background(), testUserID, resp.ID, entity.SaleCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCancelled, updated.Status)

	assert.Equal(t, int64(10), productQty(t, tx))
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypeSale, resp.ID)
	require.NoError(t, err)
	assert.Zero(t, net)
}

// Completar una venta Pending sin stock suficiente falla y la venta queda en
// su estado previo.
func TestTransition_PendingACompleted_SinStock_Rollback(t *testing.T) {
	uc, tx := newSaleEnv(t, 2)

	req := createReq(5)
	req.Status = entity.SalePending
	resp, err := uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)

	_, err = uc.TransitionStatus(context.Background(), testUserID, resp.ID, entity.SaleCompleted)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	current, err := uc.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, entity.SalePending, current.Status, "la transición fallida no debe persistirse")
	assert.Equal(t, int64(2), productQty(t, tx))
}

// Repetir el estado vigente es un reintento: éxito sin efecto.
func TestTransition_Reintento_NoOp(t *testing.T) {
	uc, tx := newSaleEnv(t, 10)

	resp, err := uc.Create(context.Background(), testUserID, createReq(4))
	require.NoError(t, err)
	movsBefore := len(tx.Movements.All())

	_, err = uc.TransitionStatus(context.Background(), testUserID, resp.ID, entity.SaleCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(6), productQty(t, tx), "el stock no debe descontarse dos veces")
	assert.Len(t, tx.Movements.All(), movsBefore)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update — la edición reconcilia con la diferencia
// ──────────────────────────────────────────────────────────────────────────────

// Ampliar una venta Completed sin stock suficiente falla y no persiste nada:
// ni la nueva cantidad ni movimiento alguno.
func TestUpdate_AmpliarSinStock_NoPersisteNada(t *testing.T) {
	uc, tx := newSaleEnv(t, 5)

	resp, err := uc.Create(context.Background(), testUserID, createReq(5))
	require.NoError(t, err)
	require.Equal(t, int64(0), productQty(t, tx))

	newQty := int64(8)
	_, err = uc.Update(context.Background(), testUserID, resp.ID, dto.UpdateSaleRequest{Quantity: &newQty})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	current, err := uc.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, int64(5), current.Quantity, "la cantidad no debe cambiar tras el rollback")
	assert.Equal(t, int64(0), productQty(t, tx))
}

// Reducir la cantidad de una venta Completed devuelve al stock solo la
// diferencia.
func TestUpdate_ReducirCantidad_DevuelveLaDiferencia(t *testing.T) {
	uc, tx := newSaleEnv(t, 10)

	resp, err := uc.Create(context.Background(), testUserID, createReq(6))
	require.NoError(t, err)
	require.Equal(t, int64(4), productQty(t, tx))

	newQty := int64(2)
	updated, err := uc.Update(context.Background(), testUserID, resp.ID, dto.UpdateSaleRequest{Quantity: &newQty})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(updated.TotalAmount), "total recalculado = 2 * 50")

	assert.Equal(t, int64(8), productQty(t, tx))
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypeSale, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), net)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

// Borrar una venta Completed restaura su salida y elimina el registro.
func TestDelete_RevierteEfectoYElimina(t *testing.T) {
	uc, tx := newSaleEnv(t, 10)

	resp, err := uc.Create(context.Background(), testUserID, createReq(4))
	require.NoError(t, err)
	require.Equal(t, int64(6), productQty(t, tx))

	require.NoError(t, uc.Delete(context.Background(), testUserID, resp.ID))

	assert.Equal(t, int64(10), productQty(t, tx))
	assert.Zero(t, tx.Sales.Count())
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypeSale, resp.ID)
	require.NoError(t, err)
	assert.Zero(t, net)
}
