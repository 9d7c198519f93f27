package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressDTO dirección de envío o facturación.
type AddressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// OrderItemRequest línea de orden en la creación. UnitPrice cero toma el
// precio vigente del producto.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear una orden.
type CreateOrderRequest struct {
	CustomerID           string             `json:"customer_id"`
	Items                []OrderItemRequest `json:"items"`
	ExpectedDeliveryDate time.Time          `json:"expected_delivery_date"`
	ShippingAddress      AddressDTO         `json:"shipping_address"`
	BillingAddress       AddressDTO         `json:"billing_address"`
	PaymentMethod        string             `json:"payment_method"`
	Notes                string             `json:"notes"`
}

// TransitionOrderRequest entrada para cambiar el estado de una orden.
type TransitionOrderRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

// UpdatePaymentStatusRequest entrada para actualizar el estado de pago.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// OrderItemResponse línea de orden en respuestas.
type OrderItemResponse struct {
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                   string              `json:"id"`
	OrderNumber          string              `json:"order_number"`
	CustomerID           string              `json:"customer_id"`
	Items                []OrderItemResponse `json:"items"`
	Status               string              `json:"status"`
	PaymentMethod        string              `json:"payment_method"`
	PaymentStatus        string              `json:"payment_status"`
	ShippingAddress      AddressDTO          `json:"shipping_address"`
	BillingAddress       AddressDTO          `json:"billing_address"`
	ExpectedDeliveryDate time.Time           `json:"expected_delivery_date"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	TaxAmount            decimal.Decimal     `json:"tax_amount"`
	ShippingCost         decimal.Decimal     `json:"shipping_cost"`
	Notes                string              `json:"notes,omitempty"`
	TrackingNumber       string              `json:"tracking_number,omitempty"`
	OrderDate            time.Time           `json:"order_date"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
