// Package testutil provee repositorios en memoria y un TxRunner de prueba
// para los tests de los casos de uso. Los repos guardan copias de las
// entidades y el TxRunner toma un snapshot antes de cada función y lo
// restaura si falla, emulando el rollback de la transacción real.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/kardex-api/internal/application/orders"
	"github.com/jhoicas/kardex-api/internal/application/purchases"
	"github.com/jhoicas/kardex-api/internal/application/sales"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.PurchaseRepository      = (*PurchaseRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.OrderRepository         = (*OrderRepo)(nil)
	_ repository.CustomerRepository      = (*CustomerRepo)(nil)
	_ purchases.TxRunner                 = (*TxRunner)(nil)
	_ sales.TxRunner                     = (*TxRunner)(nil)
	_ orders.TxRunner                    = (*TxRunner)(nil)
	_ usecase.TxRunner                   = (*TxRunner)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

type ProductRepo struct {
	products map[string]entity.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: map[string]entity.Product{}}
}

// Seed inserta un producto directamente, sin pasar por el caso de uso.
func (r *ProductRepo) Seed(p entity.Product) {
	r.products[p.ID] = p
}

func (r *ProductRepo) Create(p *entity.Product) error {
	if _, ok := r.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate no bloquea nada en memoria; equivale a GetByID.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) UpdateQuantity(id string, quantity int64) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	r.products[id] = p
	return nil
}

// Update respeta el contrato del repo real: nunca toca Quantity.
func (r *ProductRepo) Update(p *entity.Product) error {
	existing, ok := r.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Quantity = existing.Quantity
	r.products[p.ID] = cp
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range paginate(ids, limit, offset) {
		cp := r.products[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ProductRepo) Delete(id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepo) snapshot() map[string]entity.Product {
	return cloneMap(r.products)
}

func (r *ProductRepo) restore(s map[string]entity.Product) {
	r.products = s
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

type StockMovementRepo struct {
	movements []entity.StockMovement
	seq       int
	createErr error
}

func NewStockMovementRepo() *StockMovementRepo {
	return &StockMovementRepo{}
}

// FailNextCreate hace que la próxima llamada a Create devuelva err, para
// simular una falla de inserción a mitad de transacción.
func (r *StockMovementRepo) FailNextCreate(err error) {
	r.createErr = err
}

func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	r.seq++
	cp := *m
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("mov-%d", r.seq)
	}
	r.movements = append(r.movements, cp)
	return nil
}

func (r *StockMovementRepo) NetDeltaBySource(sourceType, sourceID string) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.SourceType == sourceType && m.SourceID == sourceID {
			sum += m.Delta
		}
	}
	return sum, nil
}

func (r *StockMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum += m.Delta
		}
	}
	return sum, nil
}

func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var matched []*entity.StockMovement
	// Más reciente primero, como el repo real.
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			cp := r.movements[i]
			matched = append(matched, &cp)
		}
	}
	return paginate(matched, limit, offset), nil
}

// All devuelve todos los movimientos en orden de inserción, para aserciones.
func (r *StockMovementRepo) All() []entity.StockMovement {
	out := make([]entity.StockMovement, len(r.movements))
	copy(out, r.movements)
	return out
}

func (r *StockMovementRepo) snapshot() []entity.StockMovement {
	s := make([]entity.StockMovement, len(r.movements))
	copy(s, r.movements)
	return s
}

func (r *StockMovementRepo) restore(s []entity.StockMovement) {
	r.movements = s
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

type PurchaseRepo struct {
	purchases map[string]entity.Purchase
}

func NewPurchaseRepo() *PurchaseRepo {
	return &PurchaseRepo{purchases: map[string]entity.Purchase{}}
}

func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	if _, ok := r.purchases[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.purchases {
		if existing.RefNo == p.RefNo {
			return domain.ErrDuplicate
		}
	}
	r.purchases[p.ID] = *p
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	return r.GetByID(id)
}

func (r *PurchaseRepo) Update(p *entity.Purchase) error {
	if _, ok := r.purchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.purchases[p.ID] = *p
	return nil
}

func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	ids := make([]string, 0, len(r.purchases))
	for id := range r.purchases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Purchase, 0, len(ids))
	for _, id := range paginate(ids, limit, offset) {
		cp := r.purchases[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *PurchaseRepo) Delete(id string) error {
	if _, ok := r.purchases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.purchases, id)
	return nil
}

// Count devuelve el número de compras almacenadas.
func (r *PurchaseRepo) Count() int { return len(r.purchases) }

func (r *PurchaseRepo) snapshot() map[string]entity.Purchase {
	return cloneMap(r.purchases)
}

func (r *PurchaseRepo) restore(s map[string]entity.Purchase) {
	r.purchases = s
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

type SaleRepo struct {
	sales map[string]entity.Sale
}

func NewSaleRepo() *SaleRepo {
	return &SaleRepo{sales: map[string]entity.Sale{}}
}

func (r *SaleRepo) Create(s *entity.Sale) error {
	if _, ok := r.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.sales[s.ID] = *s
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleRepo) ExistsByInvoiceNo(invoiceNo string) (bool, error) {
	for _, s := range r.sales {
		if s.InvoiceNo == invoiceNo {
			return true, nil
		}
	}
	return false, nil
}

func (r *SaleRepo) Update(s *entity.Sale) error {
	if _, ok := r.sales[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.sales[s.ID] = *s
	return nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	ids := make([]string, 0, len(r.sales))
	for id := range r.sales {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Sale, 0, len(ids))
	for _, id := range paginate(ids, limit, offset) {
		cp := r.sales[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SaleRepo) Delete(id string) error {
	if _, ok := r.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

// FindByInvoice devuelve las ventas cuyo invoice_no comienza con el prefijo
// dado, ordenadas por producto. Útil para verificar las ventas generadas al
// entregar una orden.
func (r *SaleRepo) FindByInvoice(prefix string) []entity.Sale {
	var out []entity.Sale
	for _, s := range r.sales {
		if strings.HasPrefix(s.InvoiceNo, prefix) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Count devuelve el número de ventas almacenadas.
func (r *SaleRepo) Count() int { return len(r.sales) }

func (r *SaleRepo) snapshot() map[string]entity.Sale {
	return cloneMap(r.sales)
}

func (r *SaleRepo) restore(s map[string]entity.Sale) {
	r.sales = s
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

type OrderRepo struct {
	orders    map[string]entity.Order
	updateErr error
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: map[string]entity.Order{}}
}

// FailNextUpdate hace que la próxima llamada a Update devuelva err, para
// simular una falla de escritura a mitad de transacción.
func (r *OrderRepo) FailNextUpdate(err error) {
	r.updateErr = err
}

func (r *OrderRepo) Create(o *entity.Order) error {
	if _, ok := r.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *OrderRepo) Update(o *entity.Order) error {
	if r.updateErr != nil {
		err := r.updateErr
		r.updateErr = nil
		return err
	}
	if _, ok := r.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepo) List(status string, limit, offset int) ([]*entity.Order, error) {
	ids := make([]string, 0, len(r.orders))
	for id, o := range r.orders {
		if status != "" && o.Status != status {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Order, 0, len(ids))
	for _, id := range paginate(ids, limit, offset) {
		cp := cloneOrder(r.orders[id])
		out = append(out, &cp)
	}
	return out, nil
}

func (r *OrderRepo) Delete(id string) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *OrderRepo) snapshot() map[string]entity.Order {
	s := make(map[string]entity.Order, len(r.orders))
	for k, v := range r.orders {
		s[k] = cloneOrder(v)
	}
	return s
}

func (r *OrderRepo) restore(s map[string]entity.Order) {
	r.orders = s
}

func cloneOrder(o entity.Order) entity.Order {
	items := make([]entity.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

type CustomerRepo struct {
	customers map[string]entity.Customer
}

func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{customers: map[string]entity.Customer{}}
}

func (r *CustomerRepo) Seed(c entity.Customer) {
	r.customers[c.ID] = c
}

func (r *CustomerRepo) Create(c *entity.Customer) error {
	if _, ok := r.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (r *CustomerRepo) GetByEmail(email string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) Update(c *entity.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	ids := make([]string, 0, len(r.customers))
	for id := range r.customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Customer, 0, len(ids))
	for _, id := range paginate(ids, limit, offset) {
		cp := r.customers[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *CustomerRepo) Delete(id string) error {
	if _, ok := r.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// TxRunner de prueba: ejecuta la función sobre los repos en memoria y, si
// falla, restaura el estado previo de todos los repos involucrados. Emula la
// atomicidad del TxRunner de PostgreSQL.
type TxRunner struct {
	Products  *ProductRepo
	Movements *StockMovementRepo
	Purchases *PurchaseRepo
	Sales     *SaleRepo
	Orders    *OrderRepo
}

// NewTxRunner construye el runner con repos vacíos.
func NewTxRunner() *TxRunner {
	return &TxRunner{
		Products:  NewProductRepo(),
		Movements: NewStockMovementRepo(),
		Purchases: NewPurchaseRepo(),
		Sales:     NewSaleRepo(),
		Orders:    NewOrderRepo(),
	}
}

func (tx *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	products, movements, purchases := tx.Products.snapshot(), tx.Movements.snapshot(), tx.Purchases.snapshot()
	if err := fn(tx.Purchases, tx.Products, tx.Movements); err != nil {
		tx.Products.restore(products)
		tx.Movements.restore(movements)
		tx.Purchases.restore(purchases)
		return err
	}
	return nil
}

func (tx *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	products, movements, sales := tx.Products.snapshot(), tx.Movements.snapshot(), tx.Sales.snapshot()
	if err := fn(tx.Sales, tx.Products, tx.Movements); err != nil {
		tx.Products.restore(products)
		tx.Movements.restore(movements)
		tx.Sales.restore(sales)
		return err
	}
	return nil
}

func (tx *TxRunner) RunProduct(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	products, movements := tx.Products.snapshot(), tx.Movements.snapshot()
	if err := fn(tx.Products, tx.Movements); err != nil {
		tx.Products.restore(products)
		tx.Movements.restore(movements)
		return err
	}
	return nil
}

func (tx *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	products, movements := tx.Products.snapshot(), tx.Movements.snapshot()
	sales, orders := tx.Sales.snapshot(), tx.Orders.snapshot()
	if err := fn(tx.Orders, tx.Sales, tx.Products, tx.Movements); err != nil {
		tx.Products.restore(products)
		tx.Movements.restore(movements)
		tx.Sales.restore(sales)
		tx.Orders.restore(orders)
		return err
	}
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneMap[V any](m map[string]V) map[string]V {
	s := make(map[string]V, len(m))
	for k, v := range m {
		s[k] = v
	}
	return s
}
