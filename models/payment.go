package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRef points at a sales or purchase order.
type OrderRef struct {
	ID   string    `json:"id" bson:"id"`
	Kind OrderKind `json:"kind" bson:"kind"`
}

// PartyRef points at a customer or vendor.
type PartyRef struct {
	ID   string    `json:"id" bson:"id"`
	Kind PartyKind `json:"kind" bson:"kind"`
}

// Payment is an append-only audit record, one per order a payment touched.
type Payment struct {
	ID              string          `json:"_id" bson:"_id"`
	Type            PaymentType     `json:"type" bson:"type"`
	Reference       OrderRef        `json:"reference" bson:"reference"`
	ReferenceNumber string          `json:"referenceNumber" bson:"referenceNumber"`
	Party           PartyRef        `json:"party" bson:"party"`
	PartyName       string          `json:"partyName" bson:"partyName"`
	Amount          decimal.Decimal `json:"amount" bson:"amount"`
	PaymentDate     time.Time       `json:"paymentDate" bson:"paymentDate"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" bson:"paymentMethod"`
	TransactionID   string          `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Notes           string          `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy       string          `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
}
