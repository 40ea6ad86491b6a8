package user

import "context"

type service struct {
	infra Infra
}

func NewService(infra Infra) Service {
	return &service{infra: infra}
}

func (s *service) EnsureUser(ctx context.Context, email string) (int64, error) {
	return s.infra.EnsureUser(ctx, email)
}

func (s *service) AssignRole(ctx context.Context, userID int64, role string) error {
	return s.infra.AssignRole(ctx, userID, role)
}
