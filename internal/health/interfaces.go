package health

import "context"

// Checker проверяет состояние компонента
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc позволяет использовать функцию как Checker
type CheckerFunc func(ctx context.Context) error

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}
