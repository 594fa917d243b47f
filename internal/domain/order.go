package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingStatus and PaymentStatus are independent enumerations; an order
// carries one of each.
type ShippingStatus string

const (
	ShippingPending    ShippingStatus = "Pending"
	ShippingProcessing ShippingStatus = "Processing"
	ShippingShipped    ShippingStatus = "Shipped"
	ShippingDelivered  ShippingStatus = "Delivered"
	ShippingCancelled  ShippingStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Order totals are computed server-side; the client never derives Total from
// the item list, it re-fetches the order instead.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Shipping        decimal.Decimal `json:"shipping"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	ShippingName    string          `json:"shippingName,omitempty"`
	ShippingStreet  string          `json:"shippingStreet,omitempty"`
	ShippingCity    string          `json:"shippingCity,omitempty"`
	ShippingZip     string          `json:"shippingZip,omitempty"`
	ShippingCountry string          `json:"shippingCountry,omitempty"`
	ShippingStatus  ShippingStatus  `json:"shippingStatus"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items,omitempty"`
	Payments        []Payment       `json:"payments,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"orderId"`
	ProductID  int64           `json:"productId"`
	VariantID  *int64          `json:"variantId,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Payment struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	Status    string          `json:"status,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
