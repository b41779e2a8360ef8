package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cableerp/gst"
	"cableerp/models"
	"cableerp/repository"
	"cableerp/utils"
)

const defaultCharge = "nil"

// GenerateInput carries the invoice header. SaleWithinMaharashtra overrides
// the jurisdiction derived from the customer's billing state.
type GenerateInput struct {
	SaleWithinMaharashtra *bool      `json:"saleWithinMaharashtra"`
	InvoiceDate           *time.Time `json:"invoiceDate"`
	DateOfSupply          *time.Time `json:"dateOfSupply"`
	TransporterName       string     `json:"transporterName"`
	LRNo                  string     `json:"lrNo"`
	VehicleNo             string     `json:"vehicleNo"`
	LRDate                *time.Time `json:"lrDate"`
	FreightCharges        string     `json:"freightCharges"`
	PackingCharges        string     `json:"packingCharges"`
	InsuranceCharges      string     `json:"insuranceCharges"`
	OtherCharges          string     `json:"otherCharges"`
	SpecialRemark         string     `json:"specialRemark"`
}

// InvoiceItemInput is a raw submitted line. Every derived figure is
// recomputed on the server.
type InvoiceItemInput struct {
	SOItemID    string           `json:"soItemId"`
	Description string           `json:"description"`
	HSNCode     string           `json:"hsnCode"`
	UOM         string           `json:"uom"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        decimal.Decimal  `json:"rate"`
	Discount    decimal.Decimal  `json:"discount"`
	GSTRate     *decimal.Decimal `json:"gstRate"`
}

type InvoicePatch struct {
	Items                 []InvoiceItemInput `json:"items"`
	SaleWithinMaharashtra *bool              `json:"saleWithinMaharashtra"`
	InvoiceDate           *time.Time         `json:"invoiceDate"`
	DateOfSupply          *time.Time         `json:"dateOfSupply"`
	TransporterName       *string            `json:"transporterName"`
	LRNo                  *string            `json:"lrNo"`
	VehicleNo             *string            `json:"vehicleNo"`
	LRDate                *time.Time         `json:"lrDate"`
	BilledTo              *models.BilledTo   `json:"billedTo"`
	DeliveryAt            *models.DeliveryAt `json:"deliveryAt"`
	FreightCharges        *string            `json:"freightCharges"`
	PackingCharges        *string            `json:"packingCharges"`
	InsuranceCharges      *string            `json:"insuranceCharges"`
	OtherCharges          *string            `json:"otherCharges"`
	SpecialRemark         *string            `json:"specialRemark"`
}

// PDFRenderer turns invoice data into a PDF document.
type PDFRenderer interface {
	GenerateInvoicePDF(ctx context.Context, data models.InvoicePDFData) ([]byte, error)
}

// PDFUploader publishes rendered PDFs.
type PDFUploader interface {
	Upload(ctx context.Context, key string, body []byte) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// InvoiceService owns invoice documents projected from sales orders.
type InvoiceService struct {
	Invoices repository.InvoiceRepository
	Orders   repository.OrderRepository
	Parties  repository.PartyRepository
	Company  repository.CompanyRepository
	Sync     *Synchronizer
	Numberer *Numberer
	Renderer PDFRenderer
	Uploader PDFUploader
	PDFDir   string
	Now      func() time.Time
	Log      zerolog.Logger
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.Invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, notFound("Invoice", id)
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context) ([]*models.Invoice, error) {
	return s.Invoices.ListInvoices(ctx)
}

// ByOrder returns the latest invoice of a sales order, or nil.
func (s *InvoiceService) ByOrder(ctx context.Context, orderID string) (*models.Invoice, error) {
	return s.Invoices.LatestInvoiceForOrder(ctx, orderID)
}

// Generate creates an invoice from the order's delivered items and links it
// as the order's latest invoice.
func (s *InvoiceService) Generate(ctx context.Context, orderID string, in GenerateInput, userID string) (*models.Invoice, error) {
	o, err := s.Orders.GetOrder(ctx, models.SalesOrderKind, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFound("Sales order", orderID)
	}

	delivered := 0
	for _, it := range o.Items {
		if it.IsDelivered {
			delivered++
		}
	}
	if delivered == 0 {
		return nil, invalid("items", "no delivered items to invoice")
	}

	customer, err := s.Parties.GetParty(ctx, models.PartyCustomer, o.PartyID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFound("Customer", o.PartyID)
	}

	within := gst.WithinHomeState(customer.BillingAddress.State)
	if in.SaleWithinMaharashtra != nil {
		within = *in.SaleWithinMaharashtra
	}

	number, err := s.Numberer.Next(ctx, InvoiceSeries)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	orderDate := o.OrderDate
	inv := &models.Invoice{
		ID:                    models.NewID(),
		InvoiceNumber:         number,
		SalesOrder:            o.ID,
		InvoiceDate:           timeOr(in.InvoiceDate, now),
		DateOfSupply:          timeOr(in.DateOfSupply, now),
		PONumber:              o.OrderNumber,
		PODate:                &orderDate,
		SaleWithinMaharashtra: within,
		TransporterName:       in.TransporterName,
		LRNo:                  in.LRNo,
		VehicleNo:             in.VehicleNo,
		LRDate:                in.LRDate,
		BilledTo:              billedTo(customer),
		DeliveryAt:            deliveryAt(customer),
		Items:                 projectDelivered(o, within),
		FreightCharges:        chargeOr(in.FreightCharges),
		PackingCharges:        chargeOr(in.PackingCharges),
		InsuranceCharges:      chargeOr(in.InsuranceCharges),
		OtherCharges:          chargeOr(in.OtherCharges),
		SpecialRemark:         in.SpecialRemark,
		CreatedBy:             userID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	t := gst.InvoiceTotals(inv.Items)
	inv.Subtotal, inv.TotalGST, inv.TotalAmount = t.Subtotal, t.TotalGST, t.TotalAmount

	if err := s.Invoices.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	o.LatestInvoice = inv.ID
	o.UpdatedAt = now
	if err := s.Orders.UpdateOrder(ctx, o); err != nil {
		return inv, fmt.Errorf("link invoice to %s: %w", o.OrderNumber, err)
	}
	s.Log.Info().Str("invoice", inv.InvoiceNumber).Str("order", o.OrderNumber).
		Int("lines", len(inv.Items)).Bool("within_state", within).Msg("invoice generated")
	return inv, nil
}

// Edit applies header and line changes, recomputes every line and total from
// the raw inputs, then pushes the result back into the sales order.
func (s *InvoiceService) Edit(ctx context.Context, id string, patch InvoicePatch) (*models.Invoice, *models.Order, error) {
	var items []models.InvoiceItem
	if patch.Items != nil {
		var err error
		if items, err = invoiceItemsFrom(patch.Items); err != nil {
			return nil, nil, err
		}
	}

	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if items != nil {
		inv.Items = items
	}
	if patch.SaleWithinMaharashtra != nil {
		inv.SaleWithinMaharashtra = *patch.SaleWithinMaharashtra
	}
	applyInvoiceHeader(inv, patch)

	for i := range inv.Items {
		gst.ApplyToInvoiceItem(&inv.Items[i], inv.SaleWithinMaharashtra)
	}
	t := gst.InvoiceTotals(inv.Items)
	inv.Subtotal, inv.TotalGST, inv.TotalAmount = t.Subtotal, t.TotalGST, t.TotalAmount
	inv.UpdatedAt = s.Now()

	if err := s.Invoices.UpdateInvoice(ctx, inv); err != nil {
		return nil, nil, fmt.Errorf("update invoice %s: %w", inv.InvoiceNumber, err)
	}

	o, err := s.Sync.InvoiceToOrder(ctx, inv)
	if err != nil {
		return inv, nil, err
	}
	return inv, o, nil
}

// Delete removes an invoice, moves the order's latestInvoice to the newest
// remaining invoice and drops the uploaded PDF.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Invoices.DeleteInvoice(ctx, id); err != nil {
		return fmt.Errorf("delete invoice %s: %w", inv.InvoiceNumber, err)
	}

	if inv.PDFURL != "" && s.Uploader != nil {
		if err := s.Uploader.Delete(ctx, inv.PDFURL); err != nil {
			s.Log.Warn().Err(err).Str("invoice", inv.InvoiceNumber).Msg("could not delete invoice pdf")
		}
	}

	o, err := s.Orders.GetOrder(ctx, models.SalesOrderKind, inv.SalesOrder)
	if err != nil {
		return err
	}
	if o == nil || o.LatestInvoice != inv.ID {
		return nil
	}
	latest, err := s.Invoices.LatestInvoiceForOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	o.LatestInvoice = ""
	if latest != nil {
		o.LatestInvoice = latest.ID
	}
	o.UpdatedAt = s.Now()
	return s.Orders.UpdateOrder(ctx, o)
}

// PDF renders the invoice, saves it under PDFDir and, when an uploader is
// configured, publishes it and records the URL on the invoice.
func (s *InvoiceService) PDF(ctx context.Context, id string) (*models.Invoice, []byte, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	company, err := s.Company.GetCompany(ctx)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := s.Renderer.GenerateInvoicePDF(ctx, utils.NewInvoicePDFData(company, inv))
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}

	fileName := "invoice-" + inv.InvoiceNumber + ".pdf"
	if s.PDFDir != "" {
		if err := os.MkdirAll(s.PDFDir, 0o755); err != nil {
			return nil, nil, err
		}
		if err := os.WriteFile(filepath.Join(s.PDFDir, fileName), pdf, 0o644); err != nil {
			return nil, nil, err
		}
	}

	if s.Uploader != nil {
		url, err := s.Uploader.Upload(ctx, fileName, pdf)
		if err != nil {
			return nil, nil, err
		}
		now := s.Now()
		inv.PDFURL = url
		inv.PDFCreatedAt = &now
		if err := s.Invoices.UpdateInvoice(ctx, inv); err != nil {
			return nil, nil, fmt.Errorf("record pdf url: %w", err)
		}
	}
	return inv, pdf, nil
}

func invoiceItemsFrom(inputs []InvoiceItemInput) ([]models.InvoiceItem, error) {
	out := make([]models.InvoiceItem, 0, len(inputs))
	for i, in := range inputs {
		field := func(name string) string { return "items[" + strconv.Itoa(i) + "]." + name }
		if strings.TrimSpace(in.Description) == "" {
			return nil, invalid(field("description"), "is required")
		}
		for _, f := range []struct {
			name string
			v    decimal.Decimal
		}{{"quantity", in.Quantity}, {"rate", in.Rate}, {"discount", in.Discount}} {
			if err := requireNonNegative(field(f.name), f.v); err != nil {
				return nil, err
			}
		}
		if in.Discount.GreaterThan(in.Quantity.Mul(in.Rate)) {
			return nil, invalid(field("discount"), "cannot exceed the line value")
		}
		rate := gst.RateOrDefault(in.GSTRate)
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, invalid(field("gstRate"), "must be between 0 and 100")
		}
		uom := strings.TrimSpace(in.UOM)
		if uom == "" {
			uom = "METER"
		}
		out = append(out, models.InvoiceItem{
			SOItemID:    in.SOItemID,
			Description: strings.TrimSpace(in.Description),
			HSNCode:     in.HSNCode,
			UOM:         uom,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			Discount:    in.Discount,
			GSTRate:     rate,
		})
	}
	return out, nil
}

func applyInvoiceHeader(inv *models.Invoice, p InvoicePatch) {
	if p.InvoiceDate != nil {
		inv.InvoiceDate = *p.InvoiceDate
	}
	if p.DateOfSupply != nil {
		inv.DateOfSupply = *p.DateOfSupply
	}
	if p.LRDate != nil {
		inv.LRDate = p.LRDate
	}
	if p.BilledTo != nil {
		inv.BilledTo = *p.BilledTo
	}
	if p.DeliveryAt != nil {
		inv.DeliveryAt = *p.DeliveryAt
	}
	setString(&inv.TransporterName, p.TransporterName)
	setString(&inv.LRNo, p.LRNo)
	setString(&inv.VehicleNo, p.VehicleNo)
	setString(&inv.SpecialRemark, p.SpecialRemark)
	if p.FreightCharges != nil {
		inv.FreightCharges = chargeOr(*p.FreightCharges)
	}
	if p.PackingCharges != nil {
		inv.PackingCharges = chargeOr(*p.PackingCharges)
	}
	if p.InsuranceCharges != nil {
		inv.InsuranceCharges = chargeOr(*p.InsuranceCharges)
	}
	if p.OtherCharges != nil {
		inv.OtherCharges = chargeOr(*p.OtherCharges)
	}
}

func billedTo(c *models.Party) models.BilledTo {
	b := models.BilledTo{
		Name:      c.Name,
		Address:   c.BillingAddress.Format(),
		GSTNumber: c.GSTNumber,
		Contact:   c.Phone,
	}
	if pin := strings.TrimSpace(c.BillingAddress.Pincode); len(pin) >= 2 {
		b.StateCode = pin[:2]
	}
	return b
}

func deliveryAt(c *models.Party) models.DeliveryAt {
	return models.DeliveryAt{
		Name:    c.Name,
		Address: c.ShippingAddress().Format(),
		Contact: c.Phone,
	}
}

func chargeOr(v string) string {
	if strings.TrimSpace(v) == "" {
		return defaultCharge
	}
	return v
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func timeOr(t *time.Time, def time.Time) time.Time {
	if t != nil {
		return *t
	}
	return def
}
