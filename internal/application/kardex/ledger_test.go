package kardex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testProductID = "00000000-0000-0000-0000-0000000000aa"

func newLedgerEnv(t *testing.T, stock int64) (*kardex.Ledger, *testutil.StockMovementRepo, *testutil.ProductRepo) {
	t.Helper()
	products := testutil.NewProductRepo()
	movements := testutil.NewStockMovementRepo()
	products.Seed(entity.Product{ID: testProductID, SKU: "TEST-001", Name: "Producto de prueba"})
	if stock != 0 {
		// El stock inicial entra por el kardex, igual que en producción.
		require.NoError(t, movements.Create(&entity.StockMovement{
			ProductID:  testProductID,
			Delta:      stock,
			SourceType: entity.SourceTypeProduct,
			SourceID:   testProductID,
		}))
		require.NoError(t, products.UpdateQuantity(testProductID, stock))
	}
	return kardex.NewLedger(), movements, products
}

func purchaseSrc(id string) kardex.Source {
	return kardex.Source{Type: entity.SourceTypePurchase, ID: id}
}

func saleSrc(id string) kardex.Source {
	return kardex.Source{Type: entity.SourceTypeSale, ID: id}
}

func productQty(t *testing.T, products *testutil.ProductRepo) int64 {
	t.Helper()
	p, err := products.GetByID(testProductID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile — aplicación e idempotencia
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: aplicar un efecto nuevo registra el movimiento y actualiza la
// proyección del producto.
func TestReconcile_AplicaDeltaYActualizaProyeccion(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 0)

	diff, err := ledger.Reconcile(movements, products, testProductID, 10, purchaseSrc("compra-1"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), diff, "el delta aplicado debe ser el efecto completo")
	assert.Equal(t, int64(10), productQty(t, products))

	movs := movements.All()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.SourceTypePurchase, movs[0].SourceType)
	assert.Equal(t, "compra-1", movs[0].SourceID)
	assert.Equal(t, int64(10), movs[0].Delta)
	assert.Equal(t, "user-1", movs[0].CreatedBy)
}

// Caso 2: repetir el mismo objetivo es un reintento; no se registra nada y
// la operación es exitosa.
func TestReconcile_ReintentoMismoObjetivo_NoOp(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 0)

	_, err := ledger.Reconcile(movements, products, testProductID, 10, purchaseSrc("compra-1"), "user-1")
	require.NoError(t, err)

	diff, err := ledger.Reconcile(movements, products, testProductID, 10, purchaseSrc("compra-1"), "user-1")
	require.NoError(t, err, "el reintento no debe fallar")
	assert.Zero(t, diff, "el reintento no debe aplicar nada")
	assert.Equal(t, int64(10), productQty(t, products), "el stock no debe duplicarse")
	assert.Len(t, movements.All(), 1, "no debe registrarse un segundo movimiento")
}

// Caso 3: cambiar el objetivo aplica solo la diferencia contra lo ya
// registrado, nunca el total.
func TestReconcile_NuevoObjetivo_AplicaSoloLaDiferencia(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 0)

	_, err := ledger.Reconcile(movements, products, testProductID, 10, purchaseSrc("compra-1"), "user-1")
	require.NoError(t, err)

	diff, err := ledger.Reconcile(movements, products, testProductID, 4, purchaseSrc("compra-1"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(-6), diff, "debe aplicarse la diferencia 4 - 10")
	assert.Equal(t, int64(4), productQty(t, products))

	net, err := movements.NetDeltaBySource(entity.SourceTypePurchase, "compra-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), net, "el delta neto del origen debe igualar el objetivo")
}

// Invariante central: la cantidad del producto siempre iguala la suma de los
// deltas de su kardex, sin importar cuántos orígenes lo hayan tocado.
func TestReconcile_ProyeccionIgualaSumaDeDeltas(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 5)

	_, err := ledger.Reconcile(movements, products, testProductID, 20, purchaseSrc("compra-1"), "")
	require.NoError(t, err)
	_, err = ledger.Reconcile(movements, products, testProductID, -8, saleSrc("venta-1"), "")
	require.NoError(t, err)
	_, err = ledger.Reconcile(movements, products, testProductID, 12, purchaseSrc("compra-1"), "")
	require.NoError(t, err)

	sum, err := movements.SumByProduct(testProductID)
	require.NoError(t, err)
	assert.Equal(t, sum, productQty(t, products),
		"products.quantity debe coincidir con la suma de deltas del kardex")
	assert.Equal(t, int64(9), productQty(t, products)) // 5 + 12 - 8
}

// ──────────────────────────────────────────────────────────────────────────────
// Reverse — reversibilidad
// ──────────────────────────────────────────────────────────────────────────────

// Revertir un efecto restaura el stock con un movimiento contrario nuevo;
// el log es append-only y nunca se editan filas.
func TestReverse_RestauraStockConMovimientoContrario(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 3)

	_, err := ledger.Reconcile(movements, products, testProductID, 10, purchaseSrc("compra-1"), "")
	require.NoError(t, err)
	require.Equal(t, int64(13), productQty(t, products))

	diff, err := ledger.Reverse(movements, products, testProductID, purchaseSrc("compra-1"), "")
	require.NoError(t, err)
	assert.Equal(t, int64(-10), diff)
	assert.Equal(t, int64(3), productQty(t, products), "el stock debe volver al valor previo")

	net, err := movements.NetDeltaBySource(entity.SourceTypePurchase, "compra-1")
	require.NoError(t, err)
	assert.Zero(t, net, "el efecto neto del origen debe quedar en cero")
	assert.Len(t, movements.All(), 3, "la reversa es un movimiento nuevo, no una edición")
}

// Revertir un origen que nunca registró movimientos es un no-op exitoso.
func TestReverse_OrigenSinMovimientos_NoOp(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 5)

	diff, err := ledger.Reverse(movements, products, testProductID, purchaseSrc("compra-fantasma"), "")
	require.NoError(t, err)
	assert.Zero(t, diff)
	assert.Equal(t, int64(5), productQty(t, products))
	assert.Len(t, movements.All(), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de stock negativo
// ──────────────────────────────────────────────────────────────────────────────

// Una salida nueva que dejaría el stock bajo cero se rechaza sin registrar nada.
func TestReconcile_SalidaSinStock_ErrInsufficientStock(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 5)

	_, err := ledger.Reconcile(movements, products, testProductID, -10, saleSrc("venta-1"), "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), productQty(t, products), "el stock no debe cambiar")
	assert.Len(t, movements.All(), 1, "no debe quedar movimiento alguno")
}

// Ampliar una salida ya aplicada más allá del stock disponible también se
// rechaza.
func TestReconcile_AmpliarSalidaSinStock_ErrInsufficientStock(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 5)

	_, err := ledger.Reconcile(movements, products, testProductID, -3, saleSrc("venta-1"), "")
	require.NoError(t, err)
	require.Equal(t, int64(2), productQty(t, products))

	_, err = ledger.Reconcile(movements, products, testProductID, -8, saleSrc("venta-1"), "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), productQty(t, products))
}

// Revertir una entrada ya vendida nunca falla por stock insuficiente aunque
// deje la cantidad bajo cero: el faltante debe quedar visible, no bloqueado.
func TestReverse_EntradaYaVendida_PermiteStockNegativo(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 0)

	_, err := ledger.Reconcile(movements, products, testProductID, 10, purchaseSrc("compra-1"), "")
	require.NoError(t, err)
	_, err = ledger.Reconcile(movements, products, testProductID, -10, saleSrc("venta-1"), "")
	require.NoError(t, err)
	require.Equal(t, int64(0), productQty(t, products))

	diff, err := ledger.Reverse(movements, products, testProductID, purchaseSrc("compra-1"), "")
	require.NoError(t, err, "revertir una entrada nunca debe fallar por stock")
	assert.Equal(t, int64(-10), diff)
	assert.Equal(t, int64(-10), productQty(t, products), "el faltante debe quedar visible")
}

// Encoger un efecto positivo tampoco pasa por el guard: el objetivo sigue
// siendo una entrada, aunque la diferencia aplicada sea negativa.
func TestReconcile_EncogerEntrada_PermiteStockNegativo(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 0)

	_, err := ledger.Reconcile(movements, products, testProductID, 10, purchaseSrc("compra-1"), "")
	require.NoError(t, err)
	_, err = ledger.Reconcile(movements, products, testProductID, -8, saleSrc("venta-1"), "")
	require.NoError(t, err)
	require.Equal(t, int64(2), productQty(t, products))

	_, err = ledger.Reconcile(movements, products, testProductID, 4, purchaseSrc("compra-1"), "")
	require.NoError(t, err)
	assert.Equal(t, int64(-4), productQty(t, products))

	sum, err := movements.SumByProduct(testProductID)
	require.NoError(t, err)
	assert.Equal(t, sum, productQty(t, products), "el invariante se mantiene incluso bajo cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bordes
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_ProductoInexistente_ErrNotFound(t *testing.T) {
	ledger, movements, products := newLedgerEnv(t, 0)

	_, err := ledger.Reconcile(movements, products, "no-existe", 5, purchaseSrc("compra-1"), "")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, movements.All(), 0)
}
