package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/siara/internal/core/domain"
)

// FoundReportRepo implements ports.FoundReportRepository.
type FoundReportRepo struct {
	db *DB
}

func NewFoundReportRepo(db *DB) *FoundReportRepo {
	return &FoundReportRepo{db: db}
}

const foundSelect = `
	SELECT f.id::text, COALESCE(f.finder_id::text, ''), COALESCE(u.username, ''),
	       f.species, f.found_location, f.description, f.found_date, f.contact,
	       f.latitude, f.longitude, f.created_at
	FROM found_reports f
	LEFT JOIN users u ON u.id = f.finder_id`

func (r *FoundReportRepo) Create(ctx context.Context, f *domain.FoundReport) error {
	id := uuid.NewString()
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO found_reports (id, finder_id, species, found_location, description, found_date, contact, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, id, nullableID(f.FinderID), f.Species, f.FoundLocation, f.Description, f.FoundDate, f.Contact,
		f.Latitude, f.Longitude).Scan(&f.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	f.ID = id
	return nil
}

func (r *FoundReportRepo) GetByID(ctx context.Context, id string) (*domain.FoundReport, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	rows, err := r.db.Pool.Query(ctx, foundSelect+` WHERE f.id = $1`, id)
	if err != nil {
		return nil, err
	}
	list, err := scanFound(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

func (r *FoundReportRepo) List(ctx context.Context) ([]domain.FoundReport, error) {
	rows, err := r.db.Pool.Query(ctx, foundSelect+` ORDER BY f.created_at DESC, f.id`)
	if err != nil {
		return nil, err
	}
	return scanFound(rows)
}

func (r *FoundReportRepo) ListByFinder(ctx context.Context, finderID string) ([]domain.FoundReport, error) {
	if !validID(finderID) {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, foundSelect+` WHERE f.finder_id = $1 ORDER BY f.created_at DESC, f.id`, finderID)
	if err != nil {
		return nil, err
	}
	return scanFound(rows)
}

func (r *FoundReportRepo) Update(ctx context.Context, finderID string, f *domain.FoundReport) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := checkOwner(ctx, tx, "found_reports", "finder_id", f.ID, finderID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			UPDATE found_reports
			SET species = $2, found_location = $3, description = $4, found_date = $5, contact = $6,
			    latitude = $7, longitude = $8
			WHERE id = $1
			RETURNING created_at
		`, f.ID, f.Species, f.FoundLocation, f.Description, f.FoundDate, f.Contact,
			f.Latitude, f.Longitude).Scan(&f.CreatedAt)
	})
}

func (r *FoundReportRepo) Delete(ctx context.Context, finderID, id string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := checkOwner(ctx, tx, "found_reports", "finder_id", id, finderID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM found_reports WHERE id = $1`, id)
		return err
	})
}

func scanFound(rows pgx.Rows) ([]domain.FoundReport, error) {
	defer rows.Close()

	var list []domain.FoundReport
	for rows.Next() {
		var f domain.FoundReport
		if err := rows.Scan(&f.ID, &f.FinderID, &f.FinderName, &f.Species, &f.FoundLocation,
			&f.Description, &f.FoundDate, &f.Contact, &f.Latitude, &f.Longitude, &f.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
