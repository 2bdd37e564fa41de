package models

import "time"

// Review - отзыв о пользователе. Только добавление, без изменения и удаления.
type Review struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"` // Роль автора отзыва
	Rating    int       `json:"rating" validate:"min=1,max=5"`
	Comment   string    `json:"comment,omitempty"`
	ToUserID  string    `json:"toUserId" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// PitchEvent - питч-сессия, созданная организатором.
type PitchEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description" validate:"required"`
	Date            string    `json:"date" validate:"required"`
	Time            string    `json:"time,omitempty"`
	Venue           string    `json:"venue,omitempty"`
	MaxParticipants int       `json:"maxParticipants" validate:"gte=1"`
	Requirements    string    `json:"requirements,omitempty"`
	Format          string    `json:"format" validate:"oneof=in-person virtual hybrid"`
	OrganizerID     string    `json:"organizerId"`
	OrganizerName   string    `json:"organizerName"`
	Status          string    `json:"status"`
	Participants    []string  `json:"participants"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Record - слабо типизированная запись пользовательской коллекции
// (вехи, команда, сделки, встречи, портфолио, заявки, сообщения).
type Record map[string]any

// ID возвращает идентификатор записи или пустую строку.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}
