package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden.
const (
	OrderPending    = "Pending"
	OrderConfirmed  = "Confirmed"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

// Estados de pago de una orden.
const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentFailed   = "Failed"
	PaymentRefunded = "Refunded"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash         = "Cash"
	PaymentMethodCreditCard   = "Credit Card"
	PaymentMethodBankTransfer = "Bank Transfer"
	PaymentMethodMobileMoney  = "Mobile Money"
)

// orderTransitions es la tabla de transiciones de la orden. Cancelled es
// alcanzable desde cualquier estado no terminal; Delivered y Cancelled son
// terminales. El stock se descuenta solo al entrar a Delivered y no se
// revierte después: las órdenes rastrean inventario prometido vs. entregado,
// a diferencia de compras y ventas.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransitionOrder indica si el cambio de estado from -> to está permitido.
// from == to no es una transición (el caller la trata como reintento).
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus indica si s es un estado de orden conocido.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// ValidPaymentStatus indica si s es un estado de pago conocido.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentFailed || s == PaymentRefunded
}

// ValidPaymentMethod indica si s es un método de pago aceptado.
func ValidPaymentMethod(s string) bool {
	return s == PaymentMethodCash || s == PaymentMethodCreditCard ||
		s == PaymentMethodBankTransfer || s == PaymentMethodMobileMoney
}

// Address dirección de envío o facturación.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// OrderItem línea de una orden.
type OrderItem struct {
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// Order representa una orden de cliente con sus líneas.
type Order struct {
	ID                   string
	OrderNumber          string // único, "ORD-<unix>"
	CustomerID           string
	Items                []OrderItem
	Status               string
	PaymentMethod        string
	PaymentStatus        string
	ShippingAddress      Address
	BillingAddress       Address
	ExpectedDeliveryDate time.Time
	TotalAmount          decimal.Decimal // neto + impuesto + envío
	TaxAmount            decimal.Decimal
	ShippingCost         decimal.Decimal
	Notes                string
	TrackingNumber       string
	OrderDate            time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// InvoiceNo devuelve el número de factura determinístico de las ventas
// generadas al entregar la orden. Sirve como clave de idempotencia: si ya
// existe una venta con este invoice_no, la entrega ya fue procesada.
func (o *Order) InvoiceNo() string {
	return "INV-" + o.OrderNumber
}
