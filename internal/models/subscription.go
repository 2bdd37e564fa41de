package models

import "time"

// Subscription описывает оплаченный доступ пользователя к тарифу.
// EndDate всегда позже StartDate: +30 дней для monthly и +365 для yearly.
type Subscription struct {
	Plan          Plan          `json:"plan"`
	Type          Role          `json:"type"` // Совпадает с ролью владельца
	BillingPeriod BillingPeriod `json:"billingPeriod"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
}

// Duration возвращает длительность периода оплаты.
func (b BillingPeriod) Duration() time.Duration {
	if b == BillingYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

// Expired сообщает, истекла ли подписка к моменту now. Льготного периода нет.
func (s Subscription) Expired(now time.Time) bool {
	return now.After(s.EndDate)
}

// ExpiryNotice - уведомление об истекающей подписке, публикуемое планировщиком.
type ExpiryNotice struct {
	UserID  string    `json:"userId"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Plan    Plan      `json:"plan"`
	Type    Role      `json:"type"`
	EndDate time.Time `json:"endDate"`
}

// SubscriptionEvent публикуется при смене тарифа пользователя.
type SubscriptionEvent struct {
	UserID       string       `json:"userId"`
	Subscription Subscription `json:"subscription"`
	OccurredAt   time.Time    `json:"occurredAt"`
}
