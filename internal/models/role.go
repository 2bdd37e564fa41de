package models

import (
	"fmt"

	"github.com/magabrotheeeer/techvogue/internal/errs"
)

// Role - тип пользователя маркетплейса. Закрытый набор значений.
type Role string

const (
	RoleEntrepreneur Role = "entrepreneur"
	RoleInvestor     Role = "investor"
	RoleFreelancer   Role = "freelancer"
)

// Roles перечисляет все допустимые роли.
var Roles = []Role{RoleEntrepreneur, RoleInvestor, RoleFreelancer}

// Valid сообщает, относится ли роль к закрытому набору.
func (r Role) Valid() bool {
	switch r {
	case RoleEntrepreneur, RoleInvestor, RoleFreelancer:
		return true
	}
	return false
}

// ParseRole разбирает строку в Role. Неизвестная роль - ErrConfiguration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q: %w", s, errs.ErrConfiguration)
	}
	return r, nil
}

// Plan - тарифный план. Планы упорядочены по монотонному включению возможностей.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

// Plans перечисляет тарифы по возрастанию.
var Plans = []Plan{PlanFree, PlanPro, PlanPremium}

// Rank возвращает порядковый номер тарифа или -1 для неизвестного.
func (p Plan) Rank() int {
	switch p {
	case PlanFree:
		return 0
	case PlanPro:
		return 1
	case PlanPremium:
		return 2
	}
	return -1
}

// Valid сообщает, известен ли тариф.
func (p Plan) Valid() bool { return p.Rank() >= 0 }

// BillingPeriod - период оплаты подписки.
type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

// Valid сообщает, известен ли период оплаты.
func (b BillingPeriod) Valid() bool {
	return b == BillingMonthly || b == BillingYearly
}
