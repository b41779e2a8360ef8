package handlers

import (
	"net/http"

	"cableerp/models"
	"cableerp/services"
)

type InvoiceHandler struct {
	Svc *services.InvoiceService
}

// Generate creates an invoice from the delivered items of a sales order.
func (h *InvoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var in services.GenerateInput
	if r.ContentLength != 0 && !decodeJSON(w, r, &in) {
		return
	}
	inv, err := h.Svc.Generate(r.Context(), r.PathValue("id"), in, UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Invoice generated successfully", inv)
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Invoice{}
	}
	ok(w, "", list)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", inv)
}

// ByOrder returns the latest invoice of a sales order, or null.
func (h *InvoiceHandler) ByOrder(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Svc.ByOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.InvoicePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	inv, _, err := h.Svc.Edit(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Invoice updated successfully", inv)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Invoice deleted successfully", nil)
}
