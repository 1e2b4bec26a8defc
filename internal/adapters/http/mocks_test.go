package http_test

import (
	"context"

	"github.com/samirrijal/siara/internal/core/domain"
)

// ---- Mock repositories ----

type mockLostRepo struct {
	listFn func(ctx context.Context) ([]domain.LostAnimal, error)
}

func (m *mockLostRepo) Create(ctx context.Context, a *domain.LostAnimal) error { return nil }
func (m *mockLostRepo) GetByID(ctx context.Context, id string) (*domain.LostAnimal, error) {
	return nil, domain.ErrNotFound
}
func (m *mockLostRepo) List(ctx context.Context) ([]domain.LostAnimal, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockLostRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.LostAnimal, error) {
	return nil, nil
}
func (m *mockLostRepo) Update(ctx context.Context, ownerID string, a *domain.LostAnimal) error {
	return nil
}
func (m *mockLostRepo) Delete(ctx context.Context, ownerID, id string) error { return nil }

type mockFoundRepo struct {
	listFn func(ctx context.Context) ([]domain.FoundReport, error)
}

func (m *mockFoundRepo) Create(ctx context.Context, r *domain.FoundReport) error { return nil }
func (m *mockFoundRepo) GetByID(ctx context.Context, id string) (*domain.FoundReport, error) {
	return nil, domain.ErrNotFound
}
func (m *mockFoundRepo) List(ctx context.Context) ([]domain.FoundReport, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockFoundRepo) ListByFinder(ctx context.Context, finderID string) ([]domain.FoundReport, error) {
	return nil, nil
}
func (m *mockFoundRepo) Update(ctx context.Context, finderID string, r *domain.FoundReport) error {
	return nil
}
func (m *mockFoundRepo) Delete(ctx context.Context, finderID, id string) error { return nil }
