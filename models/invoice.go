package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem is one tax-split line. SOItemID points at the originating sales
// order line and is empty for lines typed directly into the invoice.
type InvoiceItem struct {
	SOItemID     string          `json:"soItemId" bson:"soItemId"`
	Description  string          `json:"description" bson:"description"`
	HSNCode      string          `json:"hsnCode" bson:"hsnCode"`
	UOM          string          `json:"uom" bson:"uom"`
	Quantity     decimal.Decimal `json:"quantity" bson:"quantity"`
	Rate         decimal.Decimal `json:"rate" bson:"rate"`
	TotalValue   decimal.Decimal `json:"totalValue" bson:"totalValue"`
	Discount     decimal.Decimal `json:"discount" bson:"discount"`
	TaxableValue decimal.Decimal `json:"taxableValue" bson:"taxableValue"`
	GSTRate      decimal.Decimal `json:"gstRate" bson:"gstRate"`
	CGSTRate     decimal.Decimal `json:"cgstRate" bson:"cgstRate"`
	CGSTAmount   decimal.Decimal `json:"cgstAmount" bson:"cgstAmount"`
	SGSTRate     decimal.Decimal `json:"sgstRate" bson:"sgstRate"`
	SGSTAmount   decimal.Decimal `json:"sgstAmount" bson:"sgstAmount"`
	IGSTRate     decimal.Decimal `json:"igstRate" bson:"igstRate"`
	IGSTAmount   decimal.Decimal `json:"igstAmount" bson:"igstAmount"`
}

// TaxAmount is the sum of the three split components.
func (it InvoiceItem) TaxAmount() decimal.Decimal {
	return it.CGSTAmount.Add(it.SGSTAmount).Add(it.IGSTAmount)
}

type BilledTo struct {
	Name      string `json:"name" bson:"name"`
	Address   string `json:"address" bson:"address"`
	StateCode string `json:"stateCode" bson:"stateCode"`
	GSTNumber string `json:"gstNumber" bson:"gstNumber"`
	Contact   string `json:"contact" bson:"contact"`
}

type DeliveryAt struct {
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	Contact string `json:"contact" bson:"contact"`
}

type Invoice struct {
	ID                    string        `json:"_id" bson:"_id"`
	InvoiceNumber         string        `json:"invoiceNumber" bson:"invoiceNumber"`
	SalesOrder            string        `json:"salesOrder" bson:"salesOrder"`
	InvoiceDate           time.Time     `json:"invoiceDate" bson:"invoiceDate"`
	DateOfSupply          time.Time     `json:"dateOfSupply" bson:"dateOfSupply"`
	PONumber              string        `json:"poNumber" bson:"poNumber"`
	PODate                *time.Time    `json:"poDate,omitempty" bson:"poDate,omitempty"`
	SaleWithinMaharashtra bool          `json:"saleWithinMaharashtra" bson:"saleWithinMaharashtra"`
	TransporterName       string        `json:"transporterName" bson:"transporterName"`
	LRNo                  string        `json:"lrNo" bson:"lrNo"`
	VehicleNo             string        `json:"vehicleNo" bson:"vehicleNo"`
	LRDate                *time.Time    `json:"lrDate,omitempty" bson:"lrDate,omitempty"`
	BilledTo              BilledTo      `json:"billedTo" bson:"billedTo"`
	DeliveryAt            DeliveryAt    `json:"deliveryAt" bson:"deliveryAt"`
	Items                 []InvoiceItem `json:"items" bson:"items"`

	Subtotal    decimal.Decimal `json:"subtotal" bson:"subtotal"`
	TotalGST    decimal.Decimal `json:"totalGst" bson:"totalGst"`
	TotalAmount decimal.Decimal `json:"totalAmount" bson:"totalAmount"`

	FreightCharges   string `json:"freightCharges" bson:"freightCharges"`
	PackingCharges   string `json:"packingCharges" bson:"packingCharges"`
	InsuranceCharges string `json:"insuranceCharges" bson:"insuranceCharges"`
	OtherCharges     string `json:"otherCharges" bson:"otherCharges"`
	SpecialRemark    string `json:"specialRemark" bson:"specialRemark"`

	PDFURL       string     `json:"pdfUrl,omitempty" bson:"pdfUrl,omitempty"`
	PDFCreatedAt *time.Time `json:"pdfCreatedAt,omitempty" bson:"pdfCreatedAt,omitempty"`
	CreatedBy    string     `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Clone deep-copies the invoice.
func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	c.Items = append([]InvoiceItem(nil), inv.Items...)
	return &c
}
