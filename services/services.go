// Package services holds the ledger engine: order and invoice mutations, the
// order/invoice synchronizer, party balances and payment allocation.
package services

import (
	"time"

	"github.com/rs/zerolog"

	"cableerp/repository"
)

type Options struct {
	Now      func() time.Time
	Locker   Locker
	Renderer PDFRenderer
	Uploader PDFUploader
	PDFDir   string
	Log      zerolog.Logger
}

// Services is the wired engine for one store.
type Services struct {
	Ledger    *BalanceLedger
	Sync      *Synchronizer
	Numberer  *Numberer
	Parties   *PartyService
	Orders    *OrderService
	Invoices  *InvoiceService
	Allocator *PaymentAllocator
}

func New(store *repository.Store, opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Locker == nil {
		opts.Locker = NoopLocker{}
	}
	log := opts.Log

	ledger := &BalanceLedger{
		Parties: store.Parties,
		Orders:  store.Orders,
		Log:     log.With().Str("component", "balance_ledger").Logger(),
	}
	sync := &Synchronizer{
		Orders:   store.Orders,
		Invoices: store.Invoices,
		Ledger:   ledger,
		Now:      opts.Now,
		Log:      log.With().Str("component", "sync").Logger(),
	}
	numberer := &Numberer{Counters: store.Counters, Now: opts.Now}

	return &Services{
		Ledger:   ledger,
		Sync:     sync,
		Numberer: numberer,
		Parties: &PartyService{
			Parties: store.Parties,
			Orders:  store.Orders,
			Ledger:  ledger,
			Now:     opts.Now,
			Log:     log.With().Str("component", "parties").Logger(),
		},
		Orders: &OrderService{
			Orders:   store.Orders,
			Parties:  store.Parties,
			Payments: store.Payments,
			Ledger:   ledger,
			Sync:     sync,
			Numberer: numberer,
			Locker:   opts.Locker,
			Now:      opts.Now,
			Log:      log.With().Str("component", "orders").Logger(),
		},
		Invoices: &InvoiceService{
			Invoices: store.Invoices,
			Orders:   store.Orders,
			Parties:  store.Parties,
			Company:  store.Company,
			Sync:     sync,
			Numberer: numberer,
			Renderer: opts.Renderer,
			Uploader: opts.Uploader,
			PDFDir:   opts.PDFDir,
			Now:      opts.Now,
			Log:      log.With().Str("component", "invoices").Logger(),
		},
		Allocator: &PaymentAllocator{
			Orders:   store.Orders,
			Parties:  store.Parties,
			Payments: store.Payments,
			Ledger:   ledger,
			Locker:   opts.Locker,
			Now:      opts.Now,
			Log:      log.With().Str("component", "payments").Logger(),
		},
	}
}
