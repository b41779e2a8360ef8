package services

import (
	"context"
	"fmt"
	"time"

	"cableerp/repository"
)

const InvoiceSeries = "INV"

// Numberer issues human-readable document numbers: prefix, date, then a
// zero-padded sequence that is unique per series.
type Numberer struct {
	Counters repository.CounterRepository
	Now      func() time.Time
}

func (n *Numberer) Next(ctx context.Context, series string) (string, error) {
	seq, err := n.Counters.NextSequence(ctx, series)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", series, err)
	}
	return fmt.Sprintf("%s%s%04d", series, n.Now().Format("20060102"), seq), nil
}
