package ports

import (
	"context"

	"github.com/samirrijal/siara/internal/core/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts the user and fills in ID and CreatedAt.
	// Returns domain.ErrConflict when the username is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// LostAnimalRepository persists lost-animal postings.
type LostAnimalRepository interface {
	Create(ctx context.Context, a *domain.LostAnimal) error
	GetByID(ctx context.Context, id string) (*domain.LostAnimal, error)
	// List returns all postings, newest first.
	List(ctx context.Context) ([]domain.LostAnimal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.LostAnimal, error)
	// Update overwrites the editable fields of a posting owned by ownerID.
	// Returns domain.ErrNotFound or domain.ErrForbidden.
	Update(ctx context.Context, ownerID string, a *domain.LostAnimal) error
	Delete(ctx context.Context, ownerID, id string) error
}

// FoundReportRepository persists found-animal reports.
type FoundReportRepository interface {
	Create(ctx context.Context, r *domain.FoundReport) error
	GetByID(ctx context.Context, id string) (*domain.FoundReport, error)
	List(ctx context.Context) ([]domain.FoundReport, error)
	ListByFinder(ctx context.Context, finderID string) ([]domain.FoundReport, error)
	Update(ctx context.Context, finderID string, r *domain.FoundReport) error
	Delete(ctx context.Context, finderID, id string) error
}
