package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage/memory"
)

func adminSession() models.Session {
	return models.Session{
		Token:    "tok-admin",
		Identity: models.Identity{ID: "u-1", Email: "admin@bank.test", Role: models.RoleAdmin},
	}
}

func TestSetSessionPersistsBothSlots(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	st := NewStore(kv, logger.Nop())

	require.NoError(t, st.SetSession(ctx, adminSession()))

	token, err := kv.Get(ctx, TokenSlot)
	require.NoError(t, err)
	assert.Equal(t, "tok-admin", token)

	user, err := kv.Get(ctx, UserSlot)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u-1","email":"admin@bank.test","role":"ADMIN"}`, user)

	cur := st.Current()
	require.NotNil(t, cur)
	assert.Equal(t, models.RoleAdmin, cur.Identity.Role)
	assert.Equal(t, "tok-admin", st.Token())
}

func TestClearSessionRemovesSlots(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	st := NewStore(kv, logger.Nop())
	require.NoError(t, st.SetSession(ctx, adminSession()))

	require.NoError(t, st.ClearSession(ctx))

	assert.Nil(t, st.Current())
	assert.Equal(t, "", st.Token())
	assert.Equal(t, 0, kv.Len())
}

func TestRehydrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	require.NoError(t, NewStore(kv, logger.Nop()).SetSession(ctx, adminSession()))

	st := NewStore(kv, logger.Nop())
	first, err := st.Rehydrate(ctx)
	require.NoError(t, err)
	second, err := st.Rehydrate(ctx)
	require.NoError(t, err)

	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, "u-1", st.Current().Identity.ID)
}

func TestRehydrateCorruptIdentityLogsOut(t *testing.T) {
	cases := map[string]string{
		"not json":     "{user",
		"unknown role": `{"id":"u-1","email":"x@y.z","role":"ROOT"}`,
		"missing id":   `{"email":"x@y.z","role":"CLIENT"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := memory.NewStore()
			require.NoError(t, kv.Set(ctx, TokenSlot, "tok"))
			require.NoError(t, kv.Set(ctx, UserSlot, raw))

			st := NewStore(kv, logger.Nop())
			sess, err := st.Rehydrate(ctx)

			assert.Nil(t, sess)
			assert.True(t, errors.Is(err, ErrCorruptPersistedState))
			assert.Nil(t, st.Current())
			_, err = kv.Get(ctx, TokenSlot)
			assert.ErrorIs(t, err, storage.ErrNotFound)
			_, err = kv.Get(ctx, UserSlot)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestRehydrateIdentityWithoutTokenLogsOut(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	require.NoError(t, kv.Set(ctx, UserSlot, `{"id":"u-1","email":"x@y.z","role":"CLIENT"}`))

	st := NewStore(kv, logger.Nop())
	_, err := st.Rehydrate(ctx)

	assert.ErrorIs(t, err, ErrCorruptPersistedState)
	assert.Nil(t, st.Current())
}

func TestRehydrateWithNothingStoredIsAnonymous(t *testing.T) {
	st := NewStore(memory.NewStore(), logger.Nop())
	sess, err := st.Rehydrate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSubscribeReplaysLatestValue(t *testing.T) {
	ctx := context.Background()
	st := NewStore(memory.NewStore(), logger.Nop())
	require.NoError(t, st.SetSession(ctx, adminSession()))

	ch, cancel := st.Subscribe()
	defer cancel()

	got := <-ch
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.Identity.ID)
}

func TestSubscribeKeepsOnlyNewestValue(t *testing.T) {
	ctx := context.Background()
	st := NewStore(memory.NewStore(), logger.Nop())

	ch, cancel := st.Subscribe()
	defer cancel()

	require.NoError(t, st.SetSession(ctx, adminSession()))
	client := models.Session{Token: "tok-c", Identity: models.Identity{ID: "c-1", Role: models.RoleClient}}
	require.NoError(t, st.SetSession(ctx, client))
	require.NoError(t, st.ClearSession(ctx))

	assert.Nil(t, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected queued value %+v", v)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	st := NewStore(memory.NewStore(), logger.Nop())
	ch, cancel := st.Subscribe()
	<-ch
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	require.NoError(t, st.SetSession(context.Background(), adminSession()))
}
