// Package model содержит валидаторы для моделей.
package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validator представляет интерфейс валидатора
type Validator interface {
	Validate() error
}

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors представляет множество ошибок валидации
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors проверяет, есть ли ошибки валидации
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// ValidateRequired проверяет, что поле не пустое
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateLength проверяет длину строки в символах
func ValidateLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < min {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)}
	}
	if length > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

// ValidatePositiveInt64 проверяет, что идентификатор задан
func ValidatePositiveInt64(field string, value int64) error {
	if value == 0 {
		return ValidationError{Field: field, Message: "must be set"}
	}
	return nil
}
