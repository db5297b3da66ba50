package dashboard

import (
	"sync"
	"sync/atomic"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
)

// accumulator collects the per-account transaction results of one load cycle.
// Completion is a counter sized at cycle start and decremented once per
// delivered result; the slice length is never used to decide completeness.
type accumulator struct {
	gen         uint64
	ownerID     string
	accounts    []models.Account
	clients     []models.Client
	localIncome float64

	remaining atomic.Int64

	mu     sync.Mutex
	lists  [][]models.Transaction
	failed []string
}

func newAccumulator(gen uint64, accounts []models.Account) *accumulator {
	a := &accumulator{gen: gen, accounts: accounts}
	a.remaining.Store(int64(len(accounts)))
	return a
}

// add records one account's outcome and reports whether it was the last one.
// A failed fetch contributes no transactions but still counts.
func (a *accumulator) add(accountNumber string, txs []models.Transaction, err error) bool {
	a.mu.Lock()
	if err != nil {
		a.failed = append(a.failed, accountNumber)
	} else {
		a.lists = append(a.lists, txs)
	}
	a.mu.Unlock()
	return a.remaining.Add(-1) == 0
}

func (a *accumulator) results() ([][]models.Transaction, []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	failed := make([]string, len(a.failed))
	copy(failed, a.failed)
	return a.lists, failed
}
