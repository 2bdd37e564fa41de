// Package records реализует хранилище именованных коллекций поверх текстового
// key/value-хранилища. Каждая мутация перезаписывает коллекцию целиком.
//
// Внутри процесса все операции чтения-изменения-записи сериализуются мьютексом Store.
// Между процессами, делящими одно хранилище, побеждает последний писатель:
// версий и слияния нет.
//
// Повреждённый текст коллекции не возвращается как ошибка: коллекция считается пустой,
// исходный текст переносится в карантин (ключ "<коллекция>.quarantine"),
// событие логируется и учитывается в метриках.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/metrics"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/storage"
)

// Store - точка доступа к коллекциям одного хранилища.
type Store struct {
	mu  sync.Mutex
	kv  storage.Substrate
	log *slog.Logger
}

// New создаёт Store поверх хранилища kv.
func New(kv storage.Substrate, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Update выполняет fn под блокировкой хранилища. Записи буферизуются в Tx и
// сбрасываются в хранилище после успешного завершения fn. При ошибке fn
// записываются только восстановительные записи (карантин, сброс повреждённых
// коллекций, удаление устаревшего указателя), остальное отбрасывается.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	const op = "records.Update"
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		ctx:      ctx,
		store:    s,
		writes:   make(map[string]*string),
		recovery: make(map[string]*string),
	}
	if err := fn(tx); err != nil {
		if cerr := flush(ctx, s.kv, tx.recoveryOrder, tx.recovery); cerr != nil {
			s.log.Warn("failed to persist recovery writes", sl.Op(op), sl.Err(cerr))
		}
		return err
	}
	return flush(ctx, s.kv, tx.order, tx.writes)
}

// Exists сообщает, инициализирован ли ключ.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := s.Update(ctx, func(tx *Tx) error {
		var err error
		ok, err = tx.Exists(key)
		return err
	})
	return ok, err
}

// Quarantined возвращает нечитаемые записи, вынесенные из коллекции.
func (s *Store) Quarantined(ctx context.Context, collection string) ([]string, error) {
	var out []string
	err := s.Update(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.quarantined(collection)
		return err
	})
	return out, err
}

// Tx - буфер записей одной операции Update.
type Tx struct {
	ctx    context.Context
	store  *Store
	writes map[string]*string // nil - удаление ключа
	order  []string

	recovery      map[string]*string
	recoveryOrder []string
}

// Context возвращает контекст операции.
func (tx *Tx) Context() context.Context { return tx.ctx }

// Exists сообщает, есть ли значение по ключу с учётом буферизованных записей.
func (tx *Tx) Exists(key string) (bool, error) {
	_, found, err := tx.get(key)
	return found, err
}

// InitIfAbsent записывает пустую коллекцию, если ключ ещё не создан.
// Возвращает true, если коллекция была создана.
func (tx *Tx) InitIfAbsent(collection string) (bool, error) {
	found, err := tx.Exists(collection)
	if err != nil || found {
		return false, err
	}
	tx.set(collection, "[]")
	return true, nil
}

func (tx *Tx) get(key string) (string, bool, error) {
	if v, ok := tx.writes[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	return tx.store.kv.Get(tx.ctx, key)
}

func (tx *Tx) set(key, value string) {
	if _, seen := tx.writes[key]; !seen {
		tx.order = append(tx.order, key)
	}
	tx.writes[key] = &value
}

func (tx *Tx) del(key string) {
	if _, seen := tx.writes[key]; !seen {
		tx.order = append(tx.order, key)
	}
	tx.writes[key] = nil
}

// setRecovery буферизует запись, которая сохраняется даже при ошибке fn.
func (tx *Tx) setRecovery(key string, value *string) {
	if value == nil {
		tx.del(key)
	} else {
		tx.set(key, *value)
	}
	if _, seen := tx.recovery[key]; !seen {
		tx.recoveryOrder = append(tx.recoveryOrder, key)
	}
	tx.recovery[key] = value
}

func flush(ctx context.Context, kv storage.Substrate, order []string, writes map[string]*string) error {
	const op = "records.commit"
	for _, key := range order {
		v := writes[key]
		var err error
		if v == nil {
			err = kv.Delete(ctx, key)
		} else {
			err = kv.Set(ctx, key, *v)
		}
		if err != nil {
			return fmt.Errorf("%s: key %s: %w", op, key, err)
		}
	}
	return nil
}

// quarantine выносит нечитаемый текст в карантин коллекции, логирует и считает событие.
func (tx *Tx) quarantine(collection, kind string, raws []string, cause error) {
	err := fmt.Errorf("%s: %w: %v", collection, errs.ErrSerialization, cause)
	tx.store.log.Warn("corrupt stored text quarantined",
		slog.String("collection", collection),
		slog.String("kind", kind),
		slog.Int("count", len(raws)),
		sl.Err(err),
	)
	metrics.StoreRecoveries.WithLabelValues(collection, kind).Add(float64(len(raws)))

	existing, qerr := tx.quarantined(collection)
	if qerr != nil {
		tx.store.log.Warn("failed to read quarantine", slog.String("collection", collection), sl.Err(qerr))
	}
	existing = append(existing, raws...)
	b, _ := json.Marshal(existing)
	text := string(b)
	tx.setRecovery(QuarantineKey(collection), &text)
}

func (tx *Tx) quarantined(collection string) ([]string, error) {
	text, found, err := tx.get(QuarantineKey(collection))
	if err != nil {
		return nil, err
	}
	out := []string{}
	if !found {
		return out, nil
	}
	// повреждённый карантин начинаем заново
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return []string{}, nil
	}
	return out, nil
}
