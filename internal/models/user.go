// Package models содержит доменные структуры маркетплейса: пользователей, подписки,
// описания возможностей, профили ролей и записи пользовательских коллекций.
// Структуры сериализуются в JSON при записи в хранилище.
package models

import "time"

// User представляет зарегистрированного пользователя.
// Subscription встроена в запись и дублируется в указателе текущего пользователя.
type User struct {
	ID             string        `json:"id"`                       // Уникальный неизменяемый идентификатор
	Email          string        `json:"email"`                    // Почта, уникальна с учётом регистра
	CredentialHash string        `json:"credentialHash,omitempty"` // bcrypt-хэш пароля
	Name           string        `json:"name"`                     // Имя пользователя
	Role           Role          `json:"role"`                     // Роль пользователя
	Subscription   *Subscription `json:"subscription,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// Public возвращает копию пользователя без хэша пароля, пригодную для ответа клиенту.
func (u User) Public() User {
	u.CredentialHash = ""
	if u.Subscription != nil {
		sub := *u.Subscription
		u.Subscription = &sub
	}
	return u
}
