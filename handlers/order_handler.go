package handlers

import (
	"net/http"
	"strings"

	"cableerp/models"
	"cableerp/repository"
	"cableerp/services"
)

// OrderHandler serves sales or purchase orders.
type OrderHandler struct {
	Svc  *services.OrderService
	Kind models.OrderKind
}

func (h *OrderHandler) label() string {
	if h.Kind == models.PurchaseOrderKind {
		return "Purchase order"
	}
	return "Sales order"
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	o, _, err := h.Svc.Create(r.Context(), h.Kind, in, UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, h.label()+" created successfully", o)
}

// List supports ?paymentStatus=pending,partial and ?search=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.OrderFilter{
		Kind:    h.Kind,
		PartyID: q.Get("partyId"),
		Search:  strings.TrimSpace(q.Get("search")),
	}
	for _, s := range strings.Split(q.Get("paymentStatus"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.PaymentStatuses = append(f.PaymentStatuses, models.PaymentStatus(s))
		}
	}

	orders, err := h.Svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", nonNilOrders(orders))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.Get(r.Context(), h.Kind, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", o)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch services.OrderPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	o, _, err := h.Svc.Edit(r.Context(), h.Kind, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, h.label()+" updated successfully", o)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Svc.Delete(r.Context(), h.Kind, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, h.label()+" deleted successfully", nil)
}

// ToggleDelivery flips one sales order line's delivered flag.
func (h *OrderHandler) ToggleDelivery(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.ToggleItemDelivery(r.Context(), r.PathValue("id"), r.PathValue("itemId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Item delivery status updated", o)
}

// Payment settles one order.
func (h *OrderHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var in services.PaymentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	o, _, p, err := h.Svc.ApplyPayment(r.Context(), h.Kind, r.PathValue("id"), in, UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{
		Success:  true,
		Message:  "Payment of ₹" + in.Amount.StringFixed(2) + " recorded for " + o.OrderNumber,
		Data:     o,
		Payments: []*models.Payment{p},
	})
}
