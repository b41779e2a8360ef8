package utils

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"

	"cableerp/models"
)

//go:embed templates/invoice.html
var invoiceTemplateHTML string

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"inc":   func(i int) int { return i + 1 },
	"date": func(v interface{}) string {
		switch t := v.(type) {
		case time.Time:
			return formatDate(t)
		case *time.Time:
			if t != nil {
				return formatDate(*t)
			}
		}
		return "-"
	},
}).Parse(invoiceTemplateHTML))

// Every tax invoice is printed in three copies.
var invoiceCopyTitles = []string{"Original for Recipient", "Duplicate for Transporter", "Triplicate for Supplier"}

const invoicePageCSS = `
@page { size: A4; margin: 16px; }
body { font-family: Arial, Helvetica, sans-serif; font-size: 11px; margin: 0; padding: 0; }
table { width: 100%; border-collapse: collapse; margin-bottom: 6px; }
td, th { border: 1px solid #444; padding: 3px 4px; vertical-align: top; }
.num { text-align: right; }
.copy-title { text-align: right; font-style: italic; }
.company { font-size: 16px; font-weight: bold; }
.doc-title { font-size: 14px; font-weight: bold; }
.label { font-weight: bold; text-decoration: underline; }
.sign { text-align: right; margin-top: 24px; }
.invoice-copy { page-break-after: always; }
.invoice-copy:last-child { page-break-after: auto; }
`

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02-Jan-2006")
}

// FormatContacts renders the company mobile numbers as "number(label), ...".
func FormatContacts(mobile []models.MobileEntry) string {
	parts := make([]string, 0, len(mobile))
	for _, m := range mobile {
		if m.Label == "" {
			parts = append(parts, m.Number)
			continue
		}
		parts = append(parts, m.Number+"("+m.Label+")")
	}
	return strings.Join(parts, ", ")
}

// NewInvoicePDFData prepares the template model shared by all copies.
func NewInvoicePDFData(company *models.CompanyProfile, inv *models.Invoice) models.InvoicePDFData {
	data := models.InvoicePDFData{
		Company:    company,
		Invoice:    inv,
		Date:       formatDate(inv.InvoiceDate),
		TotalWords: AmountToWords(inv.TotalAmount),
	}
	if company != nil {
		data.Contacts = FormatContacts(company.Mobile)
	}
	return data
}

// RenderInvoiceHTML builds the full printable document.
func RenderInvoiceHTML(data models.InvoicePDFData) (string, error) {
	if data.Invoice == nil {
		return "", errors.New("invoice is required")
	}
	var body bytes.Buffer
	for _, title := range invoiceCopyTitles {
		data.CopyTitle = title
		body.WriteString("<div class='invoice-copy'>")
		if err := invoiceTemplate.Execute(&body, data); err != nil {
			return "", err
		}
		body.WriteString("</div>")
	}
	return `<!DOCTYPE html><html><head><meta charset="UTF-8"><style>` + invoicePageCSS +
		`</style></head><body>` + body.String() + `</body></html>`, nil
}

// InvoicePDFGenerator prints invoices through headless Chrome.
type InvoicePDFGenerator struct {
	Timeout time.Duration
}

func (g *InvoicePDFGenerator) GenerateInvoicePDF(ctx context.Context, data models.InvoicePDFData) ([]byte, error) {
	html, err := RenderInvoiceHTML(data)
	if err != nil {
		return nil, err
	}

	tmpHTML := filepath.Join(os.TempDir(), "invoice_"+data.Invoice.ID+"_"+time.Now().Format("20060102150405")+".html")
	if err := os.WriteFile(tmpHTML, []byte(html), 0o644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
