package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PartyKind tags which collection a party reference points into.
type PartyKind string

const (
	PartyCustomer PartyKind = "Customer"
	PartyVendor   PartyKind = "Vendor"
)

func (k PartyKind) Valid() bool {
	return k == PartyCustomer || k == PartyVendor
}

// OrderKind tags which collection an order reference points into.
type OrderKind string

const (
	SalesOrderKind    OrderKind = "SalesOrder"
	PurchaseOrderKind OrderKind = "PurchaseOrder"
)

func (k OrderKind) Valid() bool {
	return k == SalesOrderKind || k == PurchaseOrderKind
}

// PartyKind returns the counterparty kind for orders of this kind.
func (k OrderKind) PartyKind() PartyKind {
	if k == PurchaseOrderKind {
		return PartyVendor
	}
	return PartyCustomer
}

// NumberPrefix is the document-number series for orders of this kind.
func (k OrderKind) NumberPrefix() string {
	if k == PurchaseOrderKind {
		return "PO"
	}
	return "SO"
}

// PaymentType is the direction of money for payments settling this kind.
func (k OrderKind) PaymentType() PaymentType {
	if k == PurchaseOrderKind {
		return PaymentMade
	}
	return PaymentReceived
}

// OrderKindFor returns the order kind whose counterparty is a party of kind k.
func OrderKindFor(k PartyKind) OrderKind {
	if k == PartyVendor {
		return PurchaseOrderKind
	}
	return SalesOrderKind
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryDispatched DeliveryStatus = "dispatched"
	DeliveryDelivered  DeliveryStatus = "delivered"
)

// OrderStatus is the purchase-order workflow state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentType string

const (
	PaymentReceived PaymentType = "received"
	PaymentMade     PaymentType = "made"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheque       PaymentMethod = "cheque"
	MethodUPI          PaymentMethod = "upi"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCheque, MethodUPI:
		return true
	}
	return false
}

// NewID returns a fresh document id. ObjectID hex keeps ids sortable by creation
// and native to the Mongo backend while staying a plain string elsewhere.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
