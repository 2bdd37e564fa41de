package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Collection - типизированный доступ к именованной коллекции записей T.
// Отсутствующая коллекция и пустая коллекция неразличимы для читателя.
type Collection[T any] struct {
	store    *Store
	name     string
	validate func(T) error
}

// Option настраивает Collection.
type Option[T any] func(*Collection[T])

// WithValidator задаёт проверку записи при чтении. Записи, не прошедшие проверку,
// выносятся в карантин так же, как нечитаемые.
func WithValidator[T any](fn func(T) error) Option[T] {
	return func(c *Collection[T]) { c.validate = fn }
}

// NewCollection создаёт доступ к коллекции name.
func NewCollection[T any](store *Store, name string, opts ...Option[T]) Collection[T] {
	c := Collection[T]{store: store, name: name}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Name возвращает ключ коллекции.
func (c Collection[T]) Name() string { return c.name }

// Get возвращает записи коллекции по порядку.
func (c Collection[T]) Get(ctx context.Context) ([]T, error) {
	var out []T
	err := c.store.Update(ctx, func(tx *Tx) error {
		var err error
		out, err = c.Load(tx)
		return err
	})
	return out, err
}

// Find возвращает первую запись, удовлетворяющую pred.
func (c Collection[T]) Find(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.Get(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if pred(it) {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// PutAll целиком заменяет коллекцию.
func (c Collection[T]) PutAll(ctx context.Context, items []T) error {
	return c.store.Update(ctx, func(tx *Tx) error {
		return c.Save(tx, items)
	})
}

// Upsert заменяет на месте первую запись с тем же ключом или добавляет item в конец.
// Возвращает true, если запись была добавлена.
func (c Collection[T]) Upsert(ctx context.Context, item T, key func(T) string) (bool, error) {
	var inserted bool
	err := c.store.Update(ctx, func(tx *Tx) error {
		var err error
		inserted, err = c.UpsertTx(tx, item, key)
		return err
	})
	return inserted, err
}

// Append безусловно добавляет item в конец коллекции.
func (c Collection[T]) Append(ctx context.Context, item T) error {
	return c.store.Update(ctx, func(tx *Tx) error {
		return c.AppendTx(tx, item)
	})
}

// Load читает коллекцию в рамках tx.
func (c Collection[T]) Load(tx *Tx) ([]T, error) {
	const op = "records.Collection.Load"
	text, found, err := tx.get(c.name)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, c.name, err)
	}
	if !found || strings.TrimSpace(text) == "" {
		return []T{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		tx.quarantine(c.name, "collection", []string{text}, err)
		empty := "[]"
		tx.setRecovery(c.name, &empty)
		return []T{}, nil
	}

	out := make([]T, 0, len(raw))
	var (
		bad   []string
		cause error
	)
	for _, r := range raw {
		item, err := c.decode(r)
		if err != nil {
			bad = append(bad, string(r))
			cause = err
			continue
		}
		out = append(out, item)
	}
	if len(bad) > 0 {
		tx.quarantine(c.name, "record", bad, cause)
		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, c.name, err)
		}
		text := string(b)
		tx.setRecovery(c.name, &text)
	}
	return out, nil
}

func (c Collection[T]) decode(r json.RawMessage) (T, error) {
	var item T
	if err := json.Unmarshal(r, &item); err != nil {
		return item, err
	}
	if c.validate != nil {
		if err := c.validate(item); err != nil {
			return item, err
		}
	}
	return item, nil
}

// Save сериализует и буферизует всю коллекцию в tx.
func (c Collection[T]) Save(tx *Tx, items []T) error {
	const op = "records.Collection.Save"
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, c.name, err)
	}
	tx.set(c.name, string(b))
	return nil
}

// UpsertTx - Upsert в рамках tx.
func (c Collection[T]) UpsertTx(tx *Tx, item T, key func(T) string) (bool, error) {
	items, err := c.Load(tx)
	if err != nil {
		return false, err
	}
	k := key(item)
	for i := range items {
		if key(items[i]) == k {
			items[i] = item
			return false, c.Save(tx, items)
		}
	}
	return true, c.Save(tx, append(items, item))
}

// AppendTx - Append в рамках tx.
func (c Collection[T]) AppendTx(tx *Tx, item T) error {
	items, err := c.Load(tx)
	if err != nil {
		return err
	}
	return c.Save(tx, append(items, item))
}
