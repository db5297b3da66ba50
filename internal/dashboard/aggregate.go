package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
)

const recentLimit = 10

// MonthBucket is one point of the performance series.
type MonthBucket struct {
	Month    time.Time `json:"month"`
	Label    string    `json:"label"`
	Income   float64   `json:"income"`
	Expenses float64   `json:"expenses"`
	Profit   float64   `json:"profit"`
}

// TotalBalance sums balances exactly in decimal and returns the nearest float64,
// so the result does not depend on account order.
func TotalBalance(accounts []models.Account) float64 {
	sum := decimal.Zero
	for _, a := range accounts {
		sum = sum.Add(decimal.NewFromFloat(a.Balance))
	}
	f, _ := sum.Float64()
	return f
}

// MergeTransactions concatenates per-account lists, drops duplicate IDs (a transfer
// between two loaded accounts is listed on both) and sorts most recent first.
func MergeTransactions(lists ...[]models.Transaction) []models.Transaction {
	seen := make(map[string]bool)
	var out []models.Transaction
	for _, list := range lists {
		for _, tx := range list {
			if tx.ID != "" {
				if seen[tx.ID] {
					continue
				}
				seen[tx.ID] = true
			}
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// MonthlySeries buckets txs into the trailing n calendar months ending with the
// month of now, oldest first. Deposits count as income and withdrawals as
// expenses; transfers move money between accounts and count as neither.
func MonthlySeries(txs []models.Transaction, now time.Time, n int) []MonthBucket {
	if n <= 0 {
		return nil
	}
	loc := now.Location()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	first := current.AddDate(0, -(n - 1), 0)

	type sums struct{ income, expenses decimal.Decimal }
	acc := make([]sums, n)
	for i := range acc {
		acc[i] = sums{income: decimal.Zero, expenses: decimal.Zero}
	}

	for _, tx := range txs {
		ts := tx.Timestamp.In(loc)
		idx := (ts.Year()-first.Year())*12 + int(ts.Month()) - int(first.Month())
		if idx < 0 || idx >= n {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		switch tx.Kind {
		case models.KindDeposit:
			acc[idx].income = acc[idx].income.Add(amount)
		case models.KindWithdrawal:
			acc[idx].expenses = acc[idx].expenses.Add(amount)
		}
	}

	out := make([]MonthBucket, n)
	for i := range out {
		month := first.AddDate(0, i, 0)
		income, _ := acc[i].income.Float64()
		expenses, _ := acc[i].expenses.Float64()
		profit, _ := acc[i].income.Sub(acc[i].expenses).Float64()
		out[i] = MonthBucket{
			Month:    month,
			Label:    month.Format("Jan 2006"),
			Income:   income,
			Expenses: expenses,
			Profit:   profit,
		}
	}
	return out
}

func countActive(accounts []models.Account) int {
	n := 0
	for _, a := range accounts {
		if a.Active {
			n++
		}
	}
	return n
}

func recent(txs []models.Transaction) []models.Transaction {
	if len(txs) <= recentLimit {
		return txs
	}
	return txs[:recentLimit]
}
