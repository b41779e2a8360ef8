package handlers

import (
	"fmt"
	"net/http"
	"time"

	"cableerp/models"
	"cableerp/repository"
	"cableerp/services"
)

type PaymentHandler struct {
	Allocator *services.PaymentAllocator
}

// Allocate spreads a payment over the open orders of a customer or vendor.
func (h *PaymentHandler) Allocate(kind models.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.PaymentInput
		if !decodeJSON(w, r, &in) {
			return
		}
		res, err := h.Allocator.Allocate(r.Context(), kind, r.PathValue("id"), in, UserID(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		verb := "received"
		if kind == models.PartyVendor {
			verb = "recorded"
		}
		writeJSON(w, http.StatusOK, ApiResponse{
			Success: true,
			Message: fmt.Sprintf("Payment of ₹%s %s and applied to %d order(s)",
				res.Applied.StringFixed(2), verb, len(res.UpdatedOrders)),
			Data:          res.Party,
			UpdatedOrders: nonNilOrders(res.UpdatedOrders),
			Payments:      nonNilPayments(res.Payments),
		})
	}
}

// List supports ?type=received|made, ?partyId=, ?startDate= and ?endDate=
// (YYYY-MM-DD, end date inclusive).
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.PaymentFilter{
		Type:    models.PaymentType(q.Get("type")),
		PartyID: q.Get("partyId"),
	}
	if s := q.Get("startDate"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "Invalid startDate"})
			return
		}
		f.From = &t
	}
	if s := q.Get("endDate"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "Invalid endDate"})
			return
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		f.To = &t
	}

	list, err := h.Allocator.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", nonNilPayments(list))
}

func nonNilPayments(p []*models.Payment) []*models.Payment {
	if p == nil {
		return []*models.Payment{}
	}
	return p
}
