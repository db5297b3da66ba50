package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
)

var errBoom = errors.New("boom")

type fakeAccounts struct {
	all     []models.Account
	byOwner map[string][]models.Account
	err     error
}

func (f *fakeAccounts) ListAll(context.Context) ([]models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.all, nil
}

func (f *fakeAccounts) ListByOwner(_ context.Context, owner string) ([]models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byOwner[owner], nil
}

type heldCall struct {
	release <-chan struct{}
	txs     []models.Transaction
}

type fakeTransactions struct {
	mu      sync.Mutex
	lists   map[string][]models.Transaction
	errs    map[string]error
	held    map[string]*heldCall
	started chan string
}

func newFakeTransactions() *fakeTransactions {
	return &fakeTransactions{
		lists:   make(map[string][]models.Transaction),
		errs:    make(map[string]error),
		held:    make(map[string]*heldCall),
		started: make(chan string, 16),
	}
}

func (f *fakeTransactions) set(number string, txs ...models.Transaction) {
	f.mu.Lock()
	f.lists[number] = txs
	f.mu.Unlock()
}

func (f *fakeTransactions) fail(number string, err error) {
	f.mu.Lock()
	f.errs[number] = err
	f.mu.Unlock()
}

// holdNext makes the next call for number block until the returned channel is
// closed, then answer with txs.
func (f *fakeTransactions) holdNext(number string, txs ...models.Transaction) chan struct{} {
	release := make(chan struct{})
	f.mu.Lock()
	f.held[number] = &heldCall{release: release, txs: txs}
	f.mu.Unlock()
	return release
}

func (f *fakeTransactions) List(_ context.Context, number string) ([]models.Transaction, error) {
	f.mu.Lock()
	held := f.held[number]
	delete(f.held, number)
	txs, err := f.lists[number], f.errs[number]
	f.mu.Unlock()

	f.started <- number
	if held != nil {
		<-held.release
		return held.txs, nil
	}
	if err != nil {
		return nil, err
	}
	return txs, nil
}

type fakeDirectory struct {
	clients []models.Client
	err     error
}

func (f *fakeDirectory) ListAll(context.Context) ([]models.Client, error) {
	return f.clients, f.err
}

type fakeIncome float64

func (f fakeIncome) Total(context.Context, string) (float64, error) { return float64(f), nil }

type fakeRecorder struct {
	mu     sync.Mutex
	cycles []string
	stale  int
}

func (r *fakeRecorder) CycleFinished(_ string, state string, _ time.Duration) {
	r.mu.Lock()
	r.cycles = append(r.cycles, state)
	r.mu.Unlock()
}

func (r *fakeRecorder) StaleResult(string) {
	r.mu.Lock()
	r.stale++
	r.mu.Unlock()
}

func account(number string, balance float64) models.Account {
	return models.Account{ID: number, AccountNumber: number, Balance: balance, Type: models.AccountCurrent, Active: true}
}

func tx(id string, kind models.TransactionKind, amount float64, ts time.Time) models.Transaction {
	return models.Transaction{ID: id, Kind: kind, Amount: amount, Timestamp: ts}
}
