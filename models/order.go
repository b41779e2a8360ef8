package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is an order line. Amount and GSTAmount are nullable so that an
// unset value can be told apart from a legitimate zero.
type LineItem struct {
	ID          string              `json:"_id" bson:"_id"`
	Description string              `json:"description" bson:"description"`
	HSNCode     string              `json:"hsnCode" bson:"hsnCode"`
	Quantity    decimal.Decimal     `json:"quantity" bson:"quantity"`
	Unit        string              `json:"unit" bson:"unit"`
	Rate        decimal.Decimal     `json:"rate" bson:"rate"`
	Amount      decimal.NullDecimal `json:"amount" bson:"amount"`
	GSTRate     decimal.Decimal     `json:"gstRate" bson:"gstRate"`
	GSTAmount   decimal.NullDecimal `json:"gstAmount" bson:"gstAmount"`

	// Sales orders only.
	IsDelivered       bool            `json:"isDelivered" bson:"isDelivered"`
	DeliveredDate     *time.Time      `json:"deliveredDate,omitempty" bson:"deliveredDate,omitempty"`
	DeliveredQuantity decimal.Decimal `json:"deliveredQuantity" bson:"deliveredQuantity"`
}

// Order is a sales order or a purchase order, told apart by Kind.
type Order struct {
	ID           string     `json:"_id" bson:"_id"`
	Kind         OrderKind  `json:"kind" bson:"kind"`
	OrderNumber  string     `json:"orderNumber" bson:"orderNumber"`
	PartyID      string     `json:"partyId" bson:"partyId"`
	PartyName    string     `json:"partyName" bson:"partyName"`
	OrderDate    time.Time  `json:"orderDate" bson:"orderDate"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty" bson:"deliveryDate,omitempty"`
	ExpectedDate *time.Time `json:"expectedDate,omitempty" bson:"expectedDate,omitempty"`
	Items        []LineItem `json:"items" bson:"items"`

	Subtotal          decimal.Decimal `json:"subtotal" bson:"subtotal"`
	TotalGST          decimal.Decimal `json:"totalGst" bson:"totalGst"`
	TotalAmount       decimal.Decimal `json:"totalAmount" bson:"totalAmount"`
	PaidAmount        decimal.Decimal `json:"paidAmount" bson:"paidAmount"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount" bson:"outstandingAmount"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus" bson:"paymentStatus"`

	DeliveryStatus DeliveryStatus `json:"deliveryStatus,omitempty" bson:"deliveryStatus,omitempty"`
	LatestInvoice  string         `json:"latestInvoice,omitempty" bson:"latestInvoice,omitempty"`
	Status         OrderStatus    `json:"status,omitempty" bson:"status,omitempty"`

	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FindItem returns a pointer into o.Items, or nil.
func (o *Order) FindItem(id string) *LineItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// Clone deep-copies the order so callers can mutate items freely.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]LineItem(nil), o.Items...)
	return &c
}
