package handlers

import (
	"net/http"

	"cableerp/services"
)

type PDFHandler struct {
	Invoices *services.InvoiceService
}

// InvoicePDF renders the invoice and streams the PDF back.
func (h *PDFHandler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, pdf, err := h.Invoices.PDF(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="invoice-`+inv.InvoiceNumber+`.pdf"`)
	if inv.PDFURL != "" {
		w.Header().Set("X-PDF-URL", inv.PDFURL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
