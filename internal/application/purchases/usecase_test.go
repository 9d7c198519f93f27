package purchases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/purchases"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "00000000-0000-0000-0000-0000000000aa"
	testSupplierID = "00000000-0000-0000-0000-0000000000bb"
	testUserID     = "00000000-0000-0000-0000-000000000001"
)

func newPurchaseEnv(t *testing.T, stock int64) (*purchases.UseCase, *testutil.TxRunner) {
	t.Helper()
	tx := testutil.NewTxRunner()
	tx.Products.Seed(entity.Product{
		ID:       testProductID,
		SKU:      "TEC-001",
		Name:     "Teclado mecánico",
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
	uc := purchases.NewUseCase(tx, kardex.NewLedger(), tx.Purchases, tx.Products)
	return uc, tx
}

func productQty(t *testing.T, tx *testutil.TxRunner) int64 {
	t.Helper()
	p, err := tx.Products.GetByID(testProductID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func createReq(quantity int64) dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		ProductID:  testProductID,
		Quantity:   quantity,
		UnitCost:   decimal.NewFromInt(30),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Una compra Received (el default) aplica la entrada de stock en la misma
// operación que la crea.
func TestCreate_Received_AgregaStock(t *testing.T) {
	uc, tx := newPurchaseEnv(t, 3)

	resp, err := uc.Create(context.Background(), testUserID, createReq(5))
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReceived, resp.Status)
	assert.True(t, decimal.NewFromInt(150).Equal(resp.TotalCost), "total = 5 * 30")
	assert.NotEmpty(t, resp.RefNo)

	assert.Equal(t, int64(8), productQty(t, tx))
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypePurchase, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), net, "el kardex debe registrar la entrada bajo la compra")
}

// Una compra Pending está declarada pero no recibida: no toca stock.
func TestCreate_Pending_NoTocaStock(t *testing.T) {
	uc, tx := newPurchaseEnv(t, 3)

	req := createReq(5)
	req.Status = entity.PurchasePending
	resp, err := uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchasePending, resp.Status)

	assert.Equal(t, int64(3), productQty(t, tx))
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypePurchase, resp.ID)
	require.NoError(t, err)
	assert.Zero(t, net)
}

func TestCreate_ProductoInexistente_ErrNotFound(t *testing.T) {
	uc, _ := newPurchaseEnv(t, 0)

	req := createReq(5)
	req.ProductID = "no-existe"
	_, err := uc.Create(context.Background(), testUserID, req)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_CantidadInvalida_ErrInvalidInput(t *testing.T) {
	uc, _ := newPurchaseEnv(t, 0)

	_, err := uc.Create(context.Background(), testUserID, createReq(0))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update — la edición reconcilia con la diferencia
// ──────────────────────────────────────────────────────────────────────────────

// Editar la cantidad de una compra Received aplica al stock solo la
// diferencia, no la nueva cantidad completa.
func TestUpdate_EditarCantidad_AplicaSoloLaDiferencia(t *testing.T) {
	uc, tx := newPurchaseEnv(t, 3)

	resp, err := uc.Create(context.Background(), testUserID, createReq(5))
	require.NoError(t, err)
	require.Equal(t, int64(8), productQty(t, tx))

	newQty := int64(2)
	updated, err := uc.Update(context.Background(), testUserID, resp.ID, dto.UpdatePurchaseRequest{Quantity: &newQty})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Quantity)
	assert.True(t, decimal.NewFromInt(60).Equal(updated.TotalCost), "total recalculado = 2 * 30")

	assert.Equal(t, int64(5), productQty(t, tx), "3 base + 2 efectivos, no 3 + 5 + 2")
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypePurchase, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), net)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

// Cancelar una compra Received revierte su entrada completa.
func TestTransition_ReceivedACancelled_RevierteStock(t *testing.T) {
	uc, tx := newPurchaseEnv(t, 3)

	resp, err := uc.Create(context.Background(), testUserID, createReq(5))
	require.NoError(t, err)
	require.Equal(t, int64(8), productQty(t, tx))

	updated, err := uc.TransitionStatus(context.Background(), testUserID, resp.ID, entity.PurchaseCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCancelled, updated.Status)
	assert.Equal(t, int64(3), productQty(t, tx))
}

// Pending -> Received aplica la entrada; repetir Received es un reintento y
// no duplica el efecto.
func TestTransition_PendingAReceived_Idempotente(t *testing.T) {
	uc, tx := newPurchaseEnv(t, 0)

	req := createReq(5)
	req.Status = entity.PurchasePending
	resp, err := uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)

	_, err = uc.TransitionStatus(context.Background(), testUserID, resp.ID, entity.PurchaseReceived)
	require.NoError(t, err)
	require.Equal(t, int64(5), productQty(t, tx))
	movsBefore := len(tx.Movements.All())

	_, err = uc.TransitionStatus(context.Background(), testUserID, resp.ID, entity.PurchaseReceived)
	require.NoError(t, err, "repetir la transición vigente es un reintento válido")
	assert.Equal(t, int64(5), productQty(t, tx), "el stock no debe duplicarse")
	assert.Len(t, tx.Movements.All(), movsBefore, "no debe registrarse movimiento extra")
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

// Borrar una compra revierte su efecto y elimina el registro en una sola
// operación.
func TestDelete_RevierteEfectoYElimina(t *testing.T) {
	uc, tx := newPurchaseEnv(t, 3)

	resp, err := uc.Create(context.Background(), testUserID, createReq(5))
	require.NoError(t, err)
	require.Equal(t, int64(8), productQty(t, tx))

	require.NoError(t, uc.Delete(context.Background(), testUserID, resp.ID))

	assert.Equal(t, int64(3), productQty(t, tx))
	assert.Zero(t, tx.Purchases.Count())
	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypePurchase, resp.ID)
	require.NoError(t, err)
	assert.Zero(t, net)
}

// Borrar una compra cuya mercancía ya se vendió deja el stock en negativo en
// lugar de fallar: el faltante debe quedar visible.
func TestDelete_EntradaYaVendida_DejaStockNegativo(t *testing.T) {
	uc, tx := newPurchaseEnv(t, 0)

	resp, err := uc.Create(context.Background(), testUserID, createReq(5))
	require.NoError(t, err)
	require.Equal(t, int64(5), productQty(t, tx))

	// La mercancía sale por otra vía (venta registrada bajo su propio origen).
	ledger := kardex.NewLedger()
	_, err = ledger.Apply(tx.Movements, tx.Products, testProductID, -5,
		kardex.Source{Type: entity.SourceTypeSale, ID: "venta-1"}, testUserID)
	require.NoError(t, err)
	require.Equal(t, int64(0), productQty(t, tx))

	require.NoError(t, uc.Delete(context.Background(), testUserID, resp.ID),
		"la reversa de una entrada nunca falla por stock insuficiente")
	assert.Equal(t, int64(-5), productQty(t, tx))
}

func TestDelete_CompraInexistente_ErrNotFound(t *testing.T) {
	uc, _ := newPurchaseEnv(t, 0)

	err := uc.Delete(context.Background(), testUserID, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
