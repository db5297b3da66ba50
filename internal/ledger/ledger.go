// Package ledger keeps the incidental income a client records locally. The
// entries live in the browser context's slots and never reach the banking API.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
)

// ErrEntryNotFound indicates Remove was given an unknown id.
var ErrEntryNotFound = errors.New("income entry not found")

// Entry is one locally recorded income line.
type Entry struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// Ledger reads and writes the per-owner income lists of one context.
type Ledger struct {
	kv  storage.KV
	log zerolog.Logger
	now func() time.Time

	mu sync.Mutex
}

func New(kv storage.KV, log zerolog.Logger) *Ledger {
	return &Ledger{kv: kv, log: log, now: time.Now}
}

func slotFor(ownerID string) string {
	return "income:" + ownerID
}

// List returns the owner's entries, newest first.
func (l *Ledger) List(ctx context.Context, ownerID string) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx, ownerID)
}

// Add records a new entry. A zero date means today.
func (l *Ledger) Add(ctx context.Context, ownerID, label string, amount float64, date time.Time) (Entry, error) {
	if date.IsZero() {
		date = l.now()
	}
	entry := Entry{ID: uuid.NewString(), Label: label, Amount: amount, Date: date.UTC()}

	l.mu.Lock()
	defer l.mu.Unlock()
	entries, err := l.load(ctx, ownerID)
	if err != nil {
		return Entry{}, err
	}
	entries = append(entries, entry)
	if err := l.save(ctx, ownerID, entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Remove deletes the entry with id.
func (l *Ledger) Remove(ctx context.Context, ownerID, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries, err := l.load(ctx, ownerID)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return ErrEntryNotFound
	}
	return l.save(ctx, ownerID, kept)
}

// MoveTo hands the owner's entries over to dst and clears them here.
func (l *Ledger) MoveTo(ctx context.Context, dst *Ledger, ownerID string) error {
	if dst == l {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entries, err := l.load(ctx, ownerID)
	if err != nil || len(entries) == 0 {
		return err
	}

	dst.mu.Lock()
	existing, err := dst.load(ctx, ownerID)
	if err == nil {
		err = dst.save(ctx, ownerID, append(existing, entries...))
	}
	dst.mu.Unlock()
	if err != nil {
		return err
	}
	return l.save(ctx, ownerID, nil)
}

// Total sums the owner's entries.
func (l *Ledger) Total(ctx context.Context, ownerID string) (float64, error) {
	entries, err := l.List(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(decimal.NewFromFloat(e.Amount))
	}
	total, _ := sum.Float64()
	return total, nil
}

func (l *Ledger) load(ctx context.Context, ownerID string) ([]Entry, error) {
	raw, err := l.kv.Get(ctx, slotFor(ownerID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read income: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.log.Warn().Err(err).Str("owner_id", ownerID).Msg("unreadable income list; starting empty")
		return nil, nil
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	return entries, nil
}

func (l *Ledger) save(ctx context.Context, ownerID string, entries []Entry) error {
	if len(entries) == 0 {
		if err := l.kv.Delete(ctx, slotFor(ownerID)); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("clear income: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode income: %w", err)
	}
	if err := l.kv.Set(ctx, slotFor(ownerID), string(raw)); err != nil {
		return fmt.Errorf("write income: %w", err)
	}
	return nil
}
