// Package storage описывает текстовое key/value-хранилище, поверх которого
// работает хранилище коллекций. Реализации: bolt (файл на устройстве),
// redis (общий для нескольких процессов), postgresql и memory (для тестов).
package storage

import "context"

// Substrate - текстовое key/value-хранилище без транзакций.
// Отсутствие ключа не является ошибкой: Get возвращает found=false.
type Substrate interface {
	// Get возвращает значение по ключу и признак его наличия.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set целиком перезаписывает значение ключа.
	Set(ctx context.Context, key, value string) error
	// Delete удаляет ключ. Удаление отсутствующего ключа не ошибка.
	Delete(ctx context.Context, key string) error
	// Close освобождает ресурсы подключения.
	Close() error
}
