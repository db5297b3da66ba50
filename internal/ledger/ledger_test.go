package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage/memory"
)

func TestAddListTotal(t *testing.T) {
	ctx := context.Background()
	l := New(memory.NewStore(), logger.Nop())
	day := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	_, err := l.Add(ctx, "c1", "freelance", 120.10, day)
	require.NoError(t, err)
	_, err = l.Add(ctx, "c1", "gift", 0.20, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	_, err = l.Add(ctx, "c2", "other owner", 1000, day)
	require.NoError(t, err)

	entries, err := l.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "gift", entries[0].Label)
	assert.NotEmpty(t, entries[0].ID)

	total, err := l.Total(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 120.30, total)
}

func TestAddDefaultsDateToToday(t *testing.T) {
	now := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	l := New(memory.NewStore(), logger.Nop())
	l.now = func() time.Time { return now }

	entry, err := l.Add(context.Background(), "c1", "tip", 5, time.Time{})
	require.NoError(t, err)
	assert.True(t, entry.Date.Equal(now))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	l := New(kv, logger.Nop())

	entry, err := l.Add(ctx, "c1", "tip", 5, time.Time{})
	require.NoError(t, err)

	require.ErrorIs(t, l.Remove(ctx, "c1", "missing"), ErrEntryNotFound)
	require.NoError(t, l.Remove(ctx, "c1", entry.ID))

	entries, err := l.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, kv.Len())
}

func TestCorruptListReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	require.NoError(t, kv.Set(ctx, "income:c1", "{not json"))
	l := New(kv, logger.Nop())

	entries, err := l.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = l.Add(ctx, "c1", "fresh", 1, time.Time{})
	require.NoError(t, err)
	total, err := l.Total(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, total)
}

func TestMoveToHandsEntriesOver(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	from := New(storage.WithPrefix(kv, "a:"), logger.Nop())
	to := New(storage.WithPrefix(kv, "b:"), logger.Nop())
	day := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	_, err := from.Add(ctx, "c1", "freelance", 120.5, day)
	require.NoError(t, err)
	_, err = from.Add(ctx, "c2", "not moved", 5, day)
	require.NoError(t, err)

	require.NoError(t, from.MoveTo(ctx, to, "c1"))

	moved, err := to.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, "freelance", moved[0].Label)

	left, err := from.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, left)
	other, err := from.List(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	require.NoError(t, from.MoveTo(ctx, to, "nobody"))
}
