package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/samirrijal/siara/internal/core/domain"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`, u.Username,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrConflict
		}

		id := uuid.NewString()
		created := now()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, contact, password_hash, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, id, u.Username, u.Contact, u.PasswordHash, created); err != nil {
			return mapErr(err)
		}
		u.ID = id
		u.CreatedAt = parseTime(created)
		return nil
	})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `WHERE username = ?`, username)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

func (r *UserRepo) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	u := &domain.User{}
	var created string
	err := r.db.SQL.QueryRowContext(ctx, `
		SELECT id, username, contact, password_hash, created_at
		FROM users `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Contact, &u.PasswordHash, &created)
	if err != nil {
		return nil, mapErr(err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}
