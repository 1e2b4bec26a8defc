package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

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
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, u.Username,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrConflict
		}

		id := uuid.NewString()
		err := tx.QueryRow(ctx, `
			INSERT INTO users (id, username, contact, password_hash)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, id, u.Username, u.Contact, u.PasswordHash).Scan(&u.CreatedAt)
		if err != nil {
			return mapErr(err)
		}
		u.ID = id
		return nil
	})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *UserRepo) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id::text, username, contact, password_hash, created_at
		FROM users `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Contact, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
