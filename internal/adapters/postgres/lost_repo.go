package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

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
	SELECT l.id::text, COALESCE(l.owner_id::text, ''), COALESCE(u.username, ''),
	       l.name, l.species, l.lost_location, l.description, l.contact,
	       l.latitude, l.longitude, l.created_at
	FROM lost_animals l
	LEFT JOIN users u ON u.id = l.owner_id`

func (r *LostAnimalRepo) Create(ctx context.Context, a *domain.LostAnimal) error {
	id := uuid.NewString()
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO lost_animals (id, owner_id, name, species, lost_location, description, contact, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, id, nullableID(a.OwnerID), a.Name, a.Species, a.LostLocation, a.Description, a.Contact,
		a.Latitude, a.Longitude).Scan(&a.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	a.ID = id
	return nil
}

func (r *LostAnimalRepo) GetByID(ctx context.Context, id string) (*domain.LostAnimal, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	rows, err := r.db.Pool.Query(ctx, lostSelect+` WHERE l.id = $1`, id)
	if err != nil {
		return nil, err
	}
	list, err := scanLost(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

func (r *LostAnimalRepo) List(ctx context.Context) ([]domain.LostAnimal, error) {
	rows, err := r.db.Pool.Query(ctx, lostSelect+` ORDER BY l.created_at DESC, l.id`)
	if err != nil {
		return nil, err
	}
	return scanLost(rows)
}

func (r *LostAnimalRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.LostAnimal, error) {
	if !validID(ownerID) {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, lostSelect+` WHERE l.owner_id = $1 ORDER BY l.created_at DESC, l.id`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanLost(rows)
}

func (r *LostAnimalRepo) Update(ctx context.Context, ownerID string, a *domain.LostAnimal) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := checkOwner(ctx, tx, "lost_animals", "owner_id", a.ID, ownerID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			UPDATE lost_animals
			SET name = $2, species = $3, lost_location = $4, description = $5, contact = $6,
			    latitude = $7, longitude = $8
			WHERE id = $1
			RETURNING created_at
		`, a.ID, a.Name, a.Species, a.LostLocation, a.Description, a.Contact,
			a.Latitude, a.Longitude).Scan(&a.CreatedAt)
	})
}

func (r *LostAnimalRepo) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := checkOwner(ctx, tx, "lost_animals", "owner_id", id, ownerID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM lost_animals WHERE id = $1`, id)
		return err
	})
}

func scanLost(rows pgx.Rows) ([]domain.LostAnimal, error) {
	defer rows.Close()

	var list []domain.LostAnimal
	for rows.Next() {
		var a domain.LostAnimal
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.OwnerName, &a.Name, &a.Species, &a.LostLocation,
			&a.Description, &a.Contact, &a.Latitude, &a.Longitude, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
