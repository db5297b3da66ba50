// Package dashboard aggregates accounts and transactions into the admin and client
// dashboard views.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
)

// ErrSuperseded is returned by a Load overtaken by a newer one; its results are
// never published.
var ErrSuperseded = errors.New("load cycle superseded")

// ErrNoOwner is returned when a client dashboard is loaded without an identity.
var ErrNoOwner = errors.New("client dashboard requires an owner")

// Variant selects what a dashboard loads.
type Variant string

const (
	Admin  Variant = "admin"
	Client Variant = "client"
)

// State of the current load cycle.
type State string

const (
	Idle       State = "idle"
	Loading    State = "loading"
	Aggregated State = "aggregated"
	Failed     State = "failed"
)

type AccountSource interface {
	ListAll(ctx context.Context) ([]models.Account, error)
	ListByOwner(ctx context.Context, clientID string) ([]models.Account, error)
}

type TransactionSource interface {
	List(ctx context.Context, accountNumber string) ([]models.Transaction, error)
}

type DirectorySource interface {
	ListAll(ctx context.Context) ([]models.Client, error)
}

// IncomeSource yields the locally kept incidental income of an owner.
type IncomeSource interface {
	Total(ctx context.Context, ownerID string) (float64, error)
}

// Recorder observes cycle outcomes.
type Recorder interface {
	CycleFinished(variant string, state string, elapsed time.Duration)
	StaleResult(variant string)
}

// Sources are the collaborators a dashboard reads from. Directory is used by the
// admin variant, Income by the client variant; both may be nil.
type Sources struct {
	Accounts     AccountSource
	Transactions TransactionSource
	Directory    DirectorySource
	Income       IncomeSource
}

// Config tunes a dashboard.
type Config struct {
	Variant  Variant
	Months   int
	FanOut   int
	Now      func() time.Time
	Recorder Recorder
}

// Snapshot is what the presentation layer renders. Totals are only present once
// State is Aggregated.
type Snapshot struct {
	Variant            Variant              `json:"variant"`
	State              State                `json:"state"`
	Generation         uint64               `json:"generation"`
	OwnerID            string               `json:"ownerId,omitempty"`
	TotalBalance       float64              `json:"totalBalance"`
	Accounts           []models.Account     `json:"accounts"`
	AccountCount       int                  `json:"accountCount"`
	ActiveAccounts     int                  `json:"activeAccounts"`
	ClientCount        int                  `json:"clientCount,omitempty"`
	Transactions       []models.Transaction `json:"transactions"`
	TransactionCount   int                  `json:"transactionCount"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
	MonthlyIncome      float64              `json:"monthlyIncome"`
	MonthlyExpenses    float64              `json:"monthlyExpenses"`
	Profit             float64              `json:"profit"`
	Performance        []MonthBucket        `json:"performance"`
	FailedAccounts     []string             `json:"failedAccounts,omitempty"`
	LocalIncome        float64              `json:"localIncome"`
	Error              string               `json:"error,omitempty"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// Dashboard is the view-model of one dashboard within one browser context.
type Dashboard struct {
	src Sources
	cfg Config
	log zerolog.Logger

	gen atomic.Uint64

	mu      sync.RWMutex
	snap    Snapshot
	pending *accumulator
}

// New builds a dashboard. Months defaults to 8 for admin and 12 for client.
func New(src Sources, cfg Config, log zerolog.Logger) *Dashboard {
	if cfg.Months <= 0 {
		cfg.Months = 8
		if cfg.Variant == Client {
			cfg.Months = 12
		}
	}
	if cfg.FanOut <= 0 {
		cfg.FanOut = 8
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Dashboard{
		src:  src,
		cfg:  cfg,
		log:  log.With().Str("dashboard", string(cfg.Variant)).Logger(),
		snap: Snapshot{Variant: cfg.Variant, State: Idle},
	}
}

// Snapshot returns the last published state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Load runs one cycle. ownerID scopes the client variant and is ignored by the
// admin one. Any earlier cycle still in flight is superseded: its late results
// are discarded and it returns ErrSuperseded.
func (d *Dashboard) Load(ctx context.Context, ownerID string) (Snapshot, error) {
	start := time.Now()
	gen := d.gen.Add(1)
	log := d.log.With().Uint64("generation", gen).Logger()

	d.mu.Lock()
	d.pending = nil
	d.snap = Snapshot{Variant: d.cfg.Variant, State: Loading, Generation: gen, OwnerID: ownerID}
	d.mu.Unlock()

	acc, err := d.fetchAccounts(ctx, ownerID, log)
	if err != nil {
		log.Error().Err(err).Msg("account set fetch failed")
		if d.fail(gen, err) {
			d.record(Failed, start)
			return d.Snapshot(), err
		}
		return Snapshot{}, ErrSuperseded
	}
	acc.gen = gen
	acc.ownerID = ownerID

	d.mu.Lock()
	if d.gen.Load() != gen {
		d.mu.Unlock()
		return Snapshot{}, ErrSuperseded
	}
	d.pending = acc
	d.mu.Unlock()

	if len(acc.accounts) == 0 {
		d.complete(acc)
	}

	var g errgroup.Group
	g.SetLimit(d.cfg.FanOut)
	for _, a := range acc.accounts {
		number := a.AccountNumber
		g.Go(func() error {
			txs, err := d.src.Transactions.List(ctx, number)
			if err != nil {
				log.Warn().Err(err).Str("account", number).Msg("transaction fetch failed; account contributes nothing")
			}
			d.deliver(gen, number, txs, err)
			return nil
		})
	}
	_ = g.Wait()

	snap := d.Snapshot()
	if snap.Generation != gen || snap.State != Aggregated {
		return Snapshot{}, ErrSuperseded
	}
	d.record(Aggregated, start)
	return snap, nil
}

func (d *Dashboard) fetchAccounts(ctx context.Context, ownerID string, log zerolog.Logger) (*accumulator, error) {
	if d.cfg.Variant == Client && ownerID == "" {
		return nil, ErrNoOwner
	}

	var (
		accounts    []models.Account
		clients     []models.Client
		localIncome float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if d.cfg.Variant == Client {
			accounts, err = d.src.Accounts.ListByOwner(gctx, ownerID)
		} else {
			accounts, err = d.src.Accounts.ListAll(gctx)
		}
		if err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}
		return nil
	})
	if d.cfg.Variant == Admin && d.src.Directory != nil {
		g.Go(func() error {
			list, err := d.src.Directory.ListAll(gctx)
			if err != nil {
				log.Warn().Err(err).Msg("client directory fetch failed")
				return nil
			}
			clients = list
			return nil
		})
	}
	if d.cfg.Variant == Client && d.src.Income != nil {
		g.Go(func() error {
			total, err := d.src.Income.Total(gctx, ownerID)
			if err != nil {
				log.Warn().Err(err).Msg("local income unavailable")
				return nil
			}
			localIncome = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	acc := newAccumulator(0, accounts)
	acc.clients = clients
	acc.localIncome = localIncome
	return acc, nil
}

// deliver hands one account's result to the cycle it belongs to. Results of a
// cycle that is no longer pending are dropped.
func (d *Dashboard) deliver(gen uint64, accountNumber string, txs []models.Transaction, err error) {
	d.mu.RLock()
	acc := d.pending
	d.mu.RUnlock()
	if acc == nil || acc.gen != gen {
		d.log.Debug().Uint64("generation", gen).Str("account", accountNumber).Msg("discarding stale result")
		if d.cfg.Recorder != nil {
			d.cfg.Recorder.StaleResult(string(d.cfg.Variant))
		}
		return
	}
	if acc.add(accountNumber, txs, err) {
		d.complete(acc)
	}
}

func (d *Dashboard) complete(acc *accumulator) {
	lists, failed := acc.results()
	sort.Strings(failed)
	merged := MergeTransactions(lists...)
	now := d.cfg.Now()
	series := MonthlySeries(merged, now, d.cfg.Months)

	snap := Snapshot{
		Variant:            d.cfg.Variant,
		State:              Aggregated,
		Generation:         acc.gen,
		OwnerID:            acc.ownerID,
		TotalBalance:       TotalBalance(acc.accounts),
		Accounts:           acc.accounts,
		AccountCount:       len(acc.accounts),
		ActiveAccounts:     countActive(acc.accounts),
		ClientCount:        len(acc.clients),
		Transactions:       merged,
		TransactionCount:   len(merged),
		RecentTransactions: recent(merged),
		Performance:        series,
		FailedAccounts:     failed,
		LocalIncome:        acc.localIncome,
		UpdatedAt:          now,
	}
	if len(series) > 0 {
		last := series[len(series)-1]
		snap.MonthlyIncome = last.Income
		snap.MonthlyExpenses = last.Expenses
		snap.Profit = last.Profit
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen.Load() != acc.gen || d.pending != acc {
		return
	}
	d.snap = snap
	d.pending = nil
}

func (d *Dashboard) fail(gen uint64, err error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen.Load() != gen {
		return false
	}
	d.pending = nil
	d.snap = Snapshot{
		Variant:    d.cfg.Variant,
		State:      Failed,
		Generation: gen,
		Error:      err.Error(),
		UpdatedAt:  d.cfg.Now(),
	}
	return true
}

func (d *Dashboard) record(state State, start time.Time) {
	if d.cfg.Recorder != nil {
		d.cfg.Recorder.CycleFinished(string(d.cfg.Variant), string(state), time.Since(start))
	}
}
