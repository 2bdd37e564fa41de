// Package entitlement решает, доступна ли возможность продукта пользователю
// с данной подпиской. Решение - чистая функция от подписки, описания возможности
// и текущего времени.
package entitlement

import (
	"fmt"
	"sort"
	"time"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

type featureSet map[string]struct{}

// Engine вычисляет права доступа. Наборы возможностей считаются один раз при создании.
// Безопасен для конкурентного использования.
type Engine struct {
	now     func() time.Time
	allowed map[models.Role]map[models.Plan]featureSet
}

// Option настраивает Engine.
type Option func(*Engine)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New создаёт Engine со встроенными таблицами тарифов.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.allowed = buildAllowed(tierFeatures)
	return e
}

func buildAllowed(tiers map[models.Role]map[models.Plan][]string) map[models.Role]map[models.Plan]featureSet {
	out := make(map[models.Role]map[models.Plan]featureSet, len(tiers))
	for role, plans := range tiers {
		acc := featureSet{}
		byPlan := make(map[models.Plan]featureSet, len(models.Plans))
		for _, plan := range models.Plans {
			for _, f := range plans[plan] {
				acc[f] = struct{}{}
			}
			set := make(featureSet, len(acc))
			for f := range acc {
				set[f] = struct{}{}
			}
			byPlan[plan] = set
		}
		out[role] = byPlan
	}
	return out
}

// Evaluate сообщает, открыта ли возможность f для подписки sub.
//
// Порядок проверок: возможность без подписки открыта всем; без подписки
// закрыто всё остальное; истёкшая подписка (now строго позже EndDate) не даёт ничего;
// далее возможность ищется в наборе тарифа для типа подписки.
// Неизвестный тип или тариф подписки - ErrConfiguration.
func (e *Engine) Evaluate(sub *models.Subscription, f models.FeatureDescriptor) (bool, error) {
	const op = "entitlement.Evaluate"

	if !f.RequiresSubscription {
		return true, nil
	}
	if sub == nil {
		return false, nil
	}
	if sub.Expired(e.now()) {
		return false, nil
	}

	plans, ok := e.allowed[sub.Type]
	if !ok {
		return false, fmt.Errorf("%s: unknown subscription type %q: %w", op, sub.Type, errs.ErrConfiguration)
	}
	set, ok := plans[sub.Plan]
	if !ok {
		return false, fmt.Errorf("%s: unknown plan %q: %w", op, sub.Plan, errs.ErrConfiguration)
	}
	_, allowed := set[f.Name]
	return allowed, nil
}

// Features возвращает отсортированный список возможностей тарифа plan для роли role.
func (e *Engine) Features(role models.Role, plan models.Plan) ([]string, error) {
	const op = "entitlement.Features"
	plans, ok := e.allowed[role]
	if !ok {
		return nil, fmt.Errorf("%s: unknown role %q: %w", op, role, errs.ErrConfiguration)
	}
	set, ok := plans[plan]
	if !ok {
		return nil, fmt.Errorf("%s: unknown plan %q: %w", op, plan, errs.ErrConfiguration)
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

// CheckFeature находит возможность по ключу каталога и проверяет её для подписки пользователя.
// Неизвестный ключ - ErrConfiguration.
func (e *Engine) CheckFeature(user models.User, key string) (bool, error) {
	const op = "entitlement.CheckFeature"
	f, ok := models.FeatureByKey(key)
	if !ok {
		return false, fmt.Errorf("%s: unknown feature %q: %w", op, key, errs.ErrConfiguration)
	}
	return e.Evaluate(user.Subscription, f)
}
