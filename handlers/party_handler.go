package handlers

import (
	"net/http"

	"cableerp/models"
	"cableerp/services"
)

// PartyHandler serves one party kind: customers or vendors.
type PartyHandler struct {
	Svc  *services.PartyService
	Kind models.PartyKind
}

func (h *PartyHandler) label() string {
	return string(h.Kind)
}

func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PartyInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Svc.Create(r.Context(), h.Kind, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, h.label()+" created successfully", p)
}

func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context(), h.Kind, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Party{}
	}
	ok(w, "", list)
}

func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Get(r.Context(), h.Kind, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", p)
}

func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.PartyInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Svc.Update(r.Context(), h.Kind, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, h.label()+" updated successfully", p)
}

func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), h.Kind, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, h.label()+" deleted successfully", nil)
}

// Ledger lists every order of the party, newest first.
func (h *PartyHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.History(r.Context(), h.Kind, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", nonNilOrders(orders))
}

// OpenOrders lists the party's unpaid orders, oldest first.
func (h *PartyHandler) OpenOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.OpenOrders(r.Context(), h.Kind, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", nonNilOrders(orders))
}

func (h *PartyHandler) SyncBalances(w http.ResponseWriter, r *http.Request) {
	report, err := h.Svc.Resync(r.Context(), h.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, h.label()+" balances synced", report)
}

// BalanceHandler exposes the full balance recompute.
type BalanceHandler struct {
	Ledger *services.BalanceLedger
}

func (h *BalanceHandler) ResyncAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Ledger.ResyncAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Balances resynced", reports)
}

func nonNilOrders(orders []*models.Order) []*models.Order {
	if orders == nil {
		return []*models.Order{}
	}
	return orders
}
