package records

import (
	"context"
	"encoding/json"
	"fmt"
)

// Value - типизированный доступ к одиночной записи (например, указателю текущего пользователя).
type Value[T any] struct {
	store *Store
	key   string
}

// NewValue создаёт доступ к одиночной записи key.
func NewValue[T any](store *Store, key string) Value[T] {
	return Value[T]{store: store, key: key}
}

// Get возвращает значение и признак его наличия.
func (v Value[T]) Get(ctx context.Context) (T, bool, error) {
	var (
		out   T
		found bool
	)
	err := v.store.Update(ctx, func(tx *Tx) error {
		var err error
		out, found, err = v.LoadTx(tx)
		return err
	})
	return out, found, err
}

// Put перезаписывает значение.
func (v Value[T]) Put(ctx context.Context, val T) error {
	return v.store.Update(ctx, func(tx *Tx) error {
		return v.StoreTx(tx, val)
	})
}

// Delete удаляет значение.
func (v Value[T]) Delete(ctx context.Context) error {
	return v.store.Update(ctx, func(tx *Tx) error {
		v.DeleteTx(tx)
		return nil
	})
}

// LoadTx читает значение в рамках tx. Повреждённое значение уходит в карантин и удаляется.
func (v Value[T]) LoadTx(tx *Tx) (T, bool, error) {
	const op = "records.Value.Load"
	var out T
	text, found, err := tx.get(v.key)
	if err != nil {
		return out, false, fmt.Errorf("%s: %s: %w", op, v.key, err)
	}
	if !found {
		return out, false, nil
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		tx.quarantine(v.key, "value", []string{text}, err)
		tx.setRecovery(v.key, nil)
		var zero T
		return zero, false, nil
	}
	return out, true, nil
}

// StoreTx буферизует запись значения в tx.
func (v Value[T]) StoreTx(tx *Tx, val T) error {
	const op = "records.Value.Store"
	b, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, v.key, err)
	}
	tx.set(v.key, string(b))
	return nil
}

// DeleteTx буферизует удаление значения в tx.
func (v Value[T]) DeleteTx(tx *Tx) {
	tx.del(v.key)
}

// DiscardTx удаляет устаревшее значение. Удаление сохраняется, даже если
// операция Update завершится ошибкой.
func (v Value[T]) DiscardTx(tx *Tx) {
	tx.setRecovery(v.key, nil)
}
