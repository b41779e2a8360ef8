package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PartyActive   = "active"
	PartyInactive = "inactive"
)

// Party is a customer or a vendor. Vendors only use BillingAddress.
type Party struct {
	ID                 string          `json:"_id" bson:"_id"`
	Kind               PartyKind       `json:"kind" bson:"kind"`
	Name               string          `json:"name" bson:"name"`
	Email              string          `json:"email,omitempty" bson:"email,omitempty"`
	Phone              string          `json:"phone,omitempty" bson:"phone,omitempty"`
	ContactPerson      string          `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	BillingAddress     Address         `json:"billingAddress" bson:"billingAddress"`
	DeliveryAddress    *Address        `json:"deliveryAddress,omitempty" bson:"deliveryAddress,omitempty"`
	GSTNumber          string          `json:"gstNumber,omitempty" bson:"gstNumber,omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance" bson:"outstandingBalance"`
	Status             string          `json:"status" bson:"status"`
	CreatedAt          time.Time       `json:"createdAt" bson:"createdAt"`
}

// ShippingAddress falls back to the billing address when no delivery address is set.
func (p *Party) ShippingAddress() Address {
	if p.DeliveryAddress != nil && !p.DeliveryAddress.IsZero() {
		return *p.DeliveryAddress
	}
	return p.BillingAddress
}
