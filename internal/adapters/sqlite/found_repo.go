package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

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
	SELECT f.id, COALESCE(f.finder_id, ''), COALESCE(u.username, ''),
	       f.species, f.found_location, f.description, f.found_date, f.contact,
	       f.latitude, f.longitude, f.created_at
	FROM found_reports f
	LEFT JOIN users u ON u.id = f.finder_id`

const foundOrder = ` ORDER BY f.created_at DESC, f.rowid DESC`

func (r *FoundReportRepo) Create(ctx context.Context, f *domain.FoundReport) error {
	id := uuid.NewString()
	created := now()
	_, err := r.db.SQL.ExecContext(ctx, `
		INSERT INTO found_reports (id, finder_id, species, found_location, description, found_date, contact, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, nullableID(f.FinderID), f.Species, f.FoundLocation, f.Description, f.FoundDate, f.Contact,
		f.Latitude, f.Longitude, created)
	if err != nil {
		return mapErr(err)
	}
	f.ID = id
	f.CreatedAt = parseTime(created)
	return nil
}

func (r *FoundReportRepo) GetByID(ctx context.Context, id string) (*domain.FoundReport, error) {
	list, err := r.query(ctx, foundSelect+` WHERE f.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

func (r *FoundReportRepo) List(ctx context.Context) ([]domain.FoundReport, error) {
	return r.query(ctx, foundSelect+foundOrder)
}

func (r *FoundReportRepo) ListByFinder(ctx context.Context, finderID string) ([]domain.FoundReport, error) {
	return r.query(ctx, foundSelect+` WHERE f.finder_id = ?`+foundOrder, finderID)
}

func (r *FoundReportRepo) Update(ctx context.Context, finderID string, f *domain.FoundReport) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "found_reports", "finder_id", f.ID, finderID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE found_reports
			SET species = ?, found_location = ?, description = ?, found_date = ?, contact = ?,
			    latitude = ?, longitude = ?
			WHERE id = ?
		`, f.Species, f.FoundLocation, f.Description, f.FoundDate, f.Contact,
			f.Latitude, f.Longitude, f.ID); err != nil {
			return err
		}
		var created string
		if err := tx.QueryRowContext(ctx,
			`SELECT created_at FROM found_reports WHERE id = ?`, f.ID,
		).Scan(&created); err != nil {
			return mapErr(err)
		}
		f.CreatedAt = parseTime(created)
		return nil
	})
}

func (r *FoundReportRepo) Delete(ctx context.Context, finderID, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, "found_reports", "finder_id", id, finderID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM found_reports WHERE id = ?`, id)
		return err
	})
}

func (r *FoundReportRepo) query(ctx context.Context, q string, args ...any) ([]domain.FoundReport, error) {
	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.FoundReport
	for rows.Next() {
		var (
			f       domain.FoundReport
			created string
		)
		if err := rows.Scan(&f.ID, &f.FinderID, &f.FinderName, &f.Species, &f.FoundLocation,
			&f.Description, &f.FoundDate, &f.Contact, &f.Latitude, &f.Longitude, &created); err != nil {
			return nil, err
		}
		f.CreatedAt = parseTime(created)
		list = append(list, f)
	}
	return list, rows.Err()
}
