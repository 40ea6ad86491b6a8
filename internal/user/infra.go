package user

import (
	"context"
	"database/sql"
	"time"
)

type infra struct {
	db *sql.DB
}

func NewInfra(db *sql.DB) Infra {
	return &infra{db: db}
}

func (i *infra) EnsureUser(ctx context.Context, email string) (int64, error) {
	var id int64
	err := i.db.QueryRowContext(ctx, `
		INSERT INTO users (email, created_at)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, email, time.Now().UTC()).Scan(&id)
	return id, err
}

func (i *infra) AssignRole(ctx context.Context, userID int64, role string) error {
	_, err := i.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`, userID, role)
	return err
}
