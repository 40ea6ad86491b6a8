package user

import "context"

// Infra — DB access
type Infra interface {
	EnsureUser(ctx context.Context, email string) (int64, error)
	AssignRole(ctx context.Context, userID int64, role string) error
}

// Service — business operations
type Service interface {
	EnsureUser(ctx context.Context, email string) (int64, error)
	AssignRole(ctx context.Context, userID int64, role string) error
}
