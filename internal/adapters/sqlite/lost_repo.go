package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/samirrijal/siara/internal/core/domain"
)

// LostAnimalRepo implements ports.LostAnimalRepository.
type LostAnimalRepo struct {
	db *DB
}

func NewLostAnimalRepo(db *DB) *LostAnimalRepo {
	return &LostAnimalRepo{db: db}
}

const lostSelect = `
	SELECT l.id, COALESCE(l.owner_id, ''), COALESCE(u.username, ''),
	       l.name, l.species, l.lost_location, l.description, l.contact,
	       l.latitude, l.longitude, l.created_at
	FROM lost_animals l
	LEFT JOIN users u ON u.id = l.owner_id`

const lostOrder = ` ORDER BY l.created_at DESC, l.rowid DESC`

func (r *LostAnimalRepo) Create(ctx context.Context, a *domain.LostAnimal) error {
	id := uuid.NewString()
	created := now()
	_, err := r.db.SQL.ExecContext(ctx, `
		INSERT INTO lost_animals (id, owner_id, name, species, lost_location, description, contact, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, nullableID(a.OwnerID), a.Name, a.Species, a.LostLocation, a.Description, a.Contact,
		a.Latitude, a.Longitude, created)
	if err != nil {
		return mapErr(err)
	}
	a.ID = id
	a.CreatedAt = parseTime(created)
	return nil
}

func (r *LostAnimalRepo) GetByID(ctx context.Context, id string) (*domain.LostAnimal, error) {
	list, err := r.query(ctx, lostSelect+` WHERE l.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

func (r *LostAnimalRepo) List(ctx context.Context) ([]domain.LostAnimal, error) {
	return r.query(ctx, lostSelect+lostOrder)
}

func (r *LostAnimalRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.LostAnimal, error) {
	return r.query(ctx, lostSelect+` WHERE l.owner_id = ?`+lostOrder, ownerID)
}

func (r *LostAnimalRepo) Update(ctx context.Context, ownerID string, a *domain.LostAnimal) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "lost_animals", "owner_id", a.ID, ownerID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE lost_animals
			SET name = ?, species = ?, lost_location = ?, description = ?, contact = ?,
			    latitude = ?, longitude = ?
			WHERE id = ?
		`, a.Name, a.Species, a.LostLocation, a.Description, a.Contact,
			a.Latitude, a.Longitude, a.ID); err != nil {
			return err
		}
		var created string
		if err := tx.QueryRowContext(ctx,
			`SELECT created_at FROM lost_animals WHERE id = ?`, a.ID,
		).Scan(&created); err != nil {
			return mapErr(err)
		}
		a.CreatedAt = parseTime(created)
		return nil
	})
}

func (r *LostAnimalRepo) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "lost_animals", "owner_id", id, ownerID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM lost_animals WHERE id = ?`, id)
		return err
	})
}

func (r *LostAnimalRepo) query(ctx context.Context, q string, args ...any) ([]domain.LostAnimal, error) {
	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.LostAnimal
	for rows.Next() {
		var (
			a       domain.LostAnimal
			created string
		)
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.OwnerName, &a.Name, &a.Species, &a.LostLocation,
			&a.Description, &a.Contact, &a.Latitude, &a.Longitude, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = parseTime(created)
		list = append(list, a)
	}
	return list, rows.Err()
}
