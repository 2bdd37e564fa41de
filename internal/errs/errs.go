// Package errs содержит сентинел-ошибки ядра: валидация, аутентификация,
// конфигурация, сериализация хранилища и ошибки внешних сервисов.
//
// Ошибки оборачиваются в стиле fmt.Errorf("%s: %w", op, err) и проверяются через errors.Is.
package errs

import "errors"

var (
	// ErrValidation - отсутствует или некорректно обязательное поле во входных данных.
	ErrValidation = errors.New("validation error")
	// ErrDuplicateEmail - пользователь с такой почтой уже зарегистрирован.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials - неверная пара почта/пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotAuthenticated - нет активной сессии или сессия принадлежит другому пользователю.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrConfiguration - неизвестная роль, тариф или другая ошибка статической конфигурации.
	ErrConfiguration = errors.New("configuration error")
	// ErrSerialization - повреждённый текст в хранилище. Наружу не возвращается, только логируется.
	ErrSerialization = errors.New("serialization error")
	// ErrExternalService - внешний сервис недоступен или ответил ошибкой. Повтор - на стороне вызывающего.
	ErrExternalService = errors.New("external service error")
	// ErrTimedOut - внешний вызов не уложился в отведённое время.
	ErrTimedOut = errors.New("timed out")
)
