package usecase_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newProductEnv(t *testing.T) (*usecase.ProductUseCase, *testutil.TxRunner) {
	t.Helper()
	tx := testutil.NewTxRunner()
	return usecase.NewProductUseCase(tx, tx.Products), tx
}

func createReq(sku string, quantity int64) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:        sku,
		Name:       "Teclado mecánico",
		CategoryID: "00000000-0000-0000-0000-0000000000cc",
		SupplierID: "00000000-0000-0000-0000-0000000000bb",
		Price:      decimal.NewFromInt(250000),
		CostPrice:  decimal.NewFromInt(150000),
		Quantity:   quantity,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConStockInicial_RegistraMovimiento(t *testing.T) {
	uc, tx := newProductEnv(t)

	// Caso 1: el stock inicial queda en el kardex atribuido al producto.
	resp, err := uc.Create(createReq("TEC-001", 40))
	require.NoError(t, err)
	assert.Equal(t, int64(40), resp.Quantity)

	sum, err := tx.Movements.SumByProduct(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), sum, "la proyección debe igualar la suma de deltas")

	net, err := tx.Movements.NetDeltaBySource(entity.SourceTypeProduct, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), net)
}

func TestCreate_SinStockInicial_NoRegistraMovimiento(t *testing.T) {
	uc, tx := newProductEnv(t)

	// Caso 2: quantity cero no genera movimientos.
	resp, err := uc.Create(createReq("TEC-001", 0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Quantity)
	assert.Empty(t, tx.Movements.All())
}

func TestCreate_FallaElMovimiento_NoPersisteElProducto(t *testing.T) {
	uc, tx := newProductEnv(t)

	// Caso 3: si el movimiento de stock inicial no puede insertarse, la fila
	// del producto tampoco queda: o ambos, o ninguno.
	tx.Movements.FailNextCreate(errors.New("fallo inyectado"))

	_, err := uc.Create(createReq("TEC-001", 40))
	require.Error(t, err)

	p, err := tx.Products.GetBySKU("TEC-001")
	require.NoError(t, err)
	assert.Nil(t, p, "el producto no debe quedar sin su movimiento inicial")
	assert.Empty(t, tx.Movements.All())
}
