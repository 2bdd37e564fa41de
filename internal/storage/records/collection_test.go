package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_AbsentIsEmpty(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	col := NewCollection[item](s, "items")

	items, err := col.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	require.NoError(t, kv.Set(ctx, "items", "[]"))
	items, err = col.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCollection_Upsert(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	col := NewCollection[item](s, "items")

	inserted, err := col.Upsert(ctx, item{ID: "a", Value: 1}, itemKey)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = col.Upsert(ctx, item{ID: "b", Value: 2}, itemKey)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = col.Upsert(ctx, item{ID: "a", Value: 3}, itemKey)
	require.NoError(t, err)
	assert.False(t, inserted)

	items, err := col.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a", Value: 3}, {ID: "b", Value: 2}}, items)
}

func TestCollection_UpsertIdempotent(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	col := NewCollection[item](s, "items")

	_, err := col.Upsert(ctx, item{ID: "a", Value: 1}, itemKey)
	require.NoError(t, err)
	first := kv.Raw("items")

	_, err = col.Upsert(ctx, item{ID: "a", Value: 1}, itemKey)
	require.NoError(t, err)
	assert.Equal(t, first, kv.Raw("items"))
}

func TestCollection_AppendAndFind(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	col := NewCollection[item](s, "items")

	require.NoError(t, col.Append(ctx, item{ID: "a", Value: 1}))
	require.NoError(t, col.Append(ctx, item{ID: "a", Value: 2}))

	items, err := col.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	found, ok, err := col.Find(ctx, func(i item) bool { return i.Value == 2 })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", found.ID)

	_, ok, err = col.Find(ctx, func(i item) bool { return i.Value == 9 })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollection_PutAllNil(t *testing.T) {
	s, kv := newTestStore(t)
	col := NewCollection[item](s, "items")

	require.NoError(t, col.PutAll(context.Background(), nil))
	assert.Equal(t, "[]", kv.Raw("items"))
}

func TestCollection_CorruptTextRecovered(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "truncated", raw: `[{"id":"a"`},
		{name: "not an array", raw: `{"id":"a"}`},
		{name: "garbage", raw: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestStore(t)
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "items", tt.raw))
			col := NewCollection[item](s, "items")

			items, err := col.Get(ctx)
			require.NoError(t, err)
			assert.Empty(t, items)
			assert.Equal(t, "[]", kv.Raw("items"))

			q, err := s.Quarantined(ctx, "items")
			require.NoError(t, err)
			assert.Equal(t, []string{tt.raw}, q)

			require.NoError(t, col.Append(ctx, item{ID: "b"}))
			items, err = col.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, []item{{ID: "b"}}, items)
		})
	}
}

func TestCollection_BadRecordQuarantined(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "items", `[{"id":"a","value":1},{"id":"b","value":"x"},{"id":"c","value":3}]`))
	col := NewCollection[item](s, "items")

	items, err := col.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a", Value: 1}, {ID: "c", Value: 3}}, items)

	q, err := s.Quarantined(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"id":"b","value":"x"}`}, q)
	assert.NotContains(t, kv.Raw("items"), `"b"`)
}

func TestCollection_Validator(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "items", `[{"id":"a","value":1},{"id":"","value":2}]`))
	col := NewCollection[item](s, "items", WithValidator(func(i item) error {
		if i.ID == "" {
			return errors.New("id is required")
		}
		return nil
	}))

	items, err := col.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a", Value: 1}}, items)
}

func TestValue(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	v := NewValue[item](s, "current")

	_, found, err := v.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, v.Put(ctx, item{ID: "a", Value: 1}))
	got, found, err := v.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{ID: "a", Value: 1}, got)

	require.NoError(t, v.Delete(ctx))
	_, found, err = v.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "current", "{broken"))
	_, found, err = v.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	_, present, _ := kv.Get(ctx, "current")
	assert.False(t, present)

	q, err := s.Quarantined(ctx, "current")
	require.NoError(t, err)
	assert.Equal(t, []string{"{broken"}, q)
}
