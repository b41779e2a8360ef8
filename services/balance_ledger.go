package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cableerp/models"
	"cableerp/repository"
)

// BalanceLedger is the only writer of party outstanding balances. Every change
// is a signed delta applied atomically by the store and floored at zero; the
// resync calls are the one place a balance is recomputed from orders.
type BalanceLedger struct {
	Parties repository.PartyRepository
	Orders  repository.OrderRepository
	Log     zerolog.Logger
}

// Apply adds delta to the party's balance and returns the updated party.
// A zero delta performs no write. A missing party is logged and yields nil.
func (l *BalanceLedger) Apply(ctx context.Context, kind models.PartyKind, partyID string, delta decimal.Decimal) (*models.Party, error) {
	if delta.IsZero() {
		p, err := l.Parties.GetParty(ctx, kind, partyID)
		if err != nil {
			return nil, fmt.Errorf("load %s %s: %w", kind, partyID, err)
		}
		return p, nil
	}

	p, err := l.Parties.IncrementBalance(ctx, kind, partyID, delta)
	if err != nil {
		return nil, fmt.Errorf("apply balance delta to %s %s: %w", kind, partyID, err)
	}
	if p == nil {
		l.Log.Warn().Err(ErrConsistency).Str("party_kind", string(kind)).Str("party_id", partyID).
			Str("delta", delta.String()).Msg("balance delta for missing party dropped")
		return nil, nil
	}
	l.Log.Debug().Str("party_id", partyID).Str("delta", delta.String()).
		Str("balance", p.OutstandingBalance.String()).Msg("balance updated")
	return p, nil
}

// ResyncReport lists how many parties were recomputed and how many had drifted.
type ResyncReport struct {
	Kind    models.PartyKind `json:"kind"`
	Parties int              `json:"parties"`
	Drifted int              `json:"drifted"`
}

// ResyncKind sets every party of kind to the sum of its orders' outstanding amounts.
func (l *BalanceLedger) ResyncKind(ctx context.Context, kind models.PartyKind) (ResyncReport, error) {
	report := ResyncReport{Kind: kind}

	parties, err := l.Parties.ListParties(ctx, kind, "")
	if err != nil {
		return report, fmt.Errorf("list %s: %w", kind, err)
	}
	orders, err := l.Orders.ListOrders(ctx, repository.OrderFilter{Kind: models.OrderKindFor(kind)})
	if err != nil {
		return report, fmt.Errorf("list orders: %w", err)
	}

	sums := make(map[string]decimal.Decimal, len(parties))
	for _, o := range orders {
		sums[o.PartyID] = sums[o.PartyID].Add(o.OutstandingAmount)
	}

	for _, p := range parties {
		want := sums[p.ID]
		if !p.OutstandingBalance.Equal(want) {
			report.Drifted++
			l.Log.Info().Str("party_id", p.ID).Str("was", p.OutstandingBalance.String()).
				Str("now", want.String()).Msg("balance drift corrected")
		}
		if err := l.Parties.SetBalance(ctx, kind, p.ID, want); err != nil {
			return report, fmt.Errorf("set balance of %s: %w", p.ID, err)
		}
		report.Parties++
	}
	return report, nil
}

// ResyncAll recomputes customers then vendors.
func (l *BalanceLedger) ResyncAll(ctx context.Context) ([]ResyncReport, error) {
	var reports []ResyncReport
	for _, kind := range []models.PartyKind{models.PartyCustomer, models.PartyVendor} {
		r, err := l.ResyncKind(ctx, kind)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
