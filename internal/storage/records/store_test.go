package records

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/storage/memory"
)

type item struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func itemKey(i item) string { return i.ID }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	kv := memory.New()
	return New(kv, newNoopLogger()), kv
}

func TestUpdate_RollbackOnError(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	col := NewCollection[item](s, "items")
	require.NoError(t, col.PutAll(ctx, []item{{ID: "a", Value: 1}}))
	before := kv.Raw("items")

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx *Tx) error {
		if err := col.AppendTx(tx, item{ID: "b"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, kv.Raw("items"))
}

func TestUpdate_ReadsOwnWrites(t *testing.T) {
	s, _ := newTestStore(t)
	col := NewCollection[item](s, "items")

	err := s.Update(context.Background(), func(tx *Tx) error {
		require.NoError(t, col.AppendTx(tx, item{ID: "a"}))
		require.NoError(t, col.AppendTx(tx, item{ID: "b"}))
		items, err := col.Load(tx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestInitIfAbsent(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	col := NewCollection[item](s, "items")
	require.NoError(t, col.Append(ctx, item{ID: "a"}))

	var created []bool
	err := s.Update(ctx, func(tx *Tx) error {
		for _, name := range []string{"items", "fresh"} {
			ok, err := tx.InitIfAbsent(name)
			if err != nil {
				return err
			}
			created = append(created, ok)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, created)
	assert.Equal(t, "[]", kv.Raw("fresh"))
	assert.Contains(t, kv.Raw("items"), `"a"`)

	ok, err := s.Exists(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdate_RecoveryKeptOnError(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	col := NewCollection[item](s, "items")
	ptr := NewValue[item](s, "pointer")
	require.NoError(t, kv.Set(ctx, "items", "not json"))
	require.NoError(t, kv.Set(ctx, "pointer", `{"id":`))

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx *Tx) error {
		items, err := col.Load(tx)
		require.NoError(t, err)
		assert.Empty(t, items)
		_, found, err := ptr.LoadTx(tx)
		require.NoError(t, err)
		assert.False(t, found)
		require.NoError(t, col.AppendTx(tx, item{ID: "a"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, "[]", kv.Raw("items"))
	_, found, err := kv.Get(ctx, "pointer")
	require.NoError(t, err)
	assert.False(t, found)

	quarantined, err := s.Quarantined(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, []string{"not json"}, quarantined)
	quarantined, err = s.Quarantined(ctx, "pointer")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"id":`}, quarantined)
}

func TestValue_DiscardSurvivesError(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	ptr := NewValue[item](s, "pointer")
	require.NoError(t, ptr.Put(ctx, item{ID: "a"}))

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx *Tx) error {
		ptr.DiscardTx(tx)
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, found, err := kv.Get(ctx, "pointer")
	require.NoError(t, err)
	assert.False(t, found)
}
