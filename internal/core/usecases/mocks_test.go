package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/siara/internal/core/domain"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return domain.ErrConflict
	}
	u.ID = "u-" + u.Username
	cp := *u
	m.users[u.Username] = &cp
	return nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- Mock LostAnimalRepository ---

type mockLostRepo struct {
	createFn func(ctx context.Context, a *domain.LostAnimal) error
	listFn   func(ctx context.Context) ([]domain.LostAnimal, error)
	updateFn func(ctx context.Context, ownerID string, a *domain.LostAnimal) error
	deleteFn func(ctx context.Context, ownerID, id string) error
}

func (m *mockLostRepo) Create(ctx context.Context, a *domain.LostAnimal) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	a.ID = "lost-1"
	return nil
}

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
	if m.updateFn != nil {
		return m.updateFn(ctx, ownerID, a)
	}
	return nil
}

func (m *mockLostRepo) Delete(ctx context.Context, ownerID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, id)
	}
	return nil
}

// --- Mock FoundReportRepository ---

type mockFoundRepo struct {
	createFn func(ctx context.Context, r *domain.FoundReport) error
	listFn   func(ctx context.Context) ([]domain.FoundReport, error)
}

func (m *mockFoundRepo) Create(ctx context.Context, r *domain.FoundReport) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "found-1"
	return nil
}

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

func (m *mockFoundRepo) Delete(ctx context.Context, finderID, id string) error {
	return nil
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	mu        sync.Mutex
	calls     int
	forwardFn func(ctx context.Context, address string) (domain.GeoPoint, bool, error)
	reverseFn func(ctx context.Context, p domain.GeoPoint) (string, bool, error)
}

func (m *mockGeocoder) Forward(ctx context.Context, address string) (domain.GeoPoint, bool, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.forwardFn != nil {
		return m.forwardFn(ctx, address)
	}
	return domain.GeoPoint{}, false, nil
}

func (m *mockGeocoder) Reverse(ctx context.Context, p domain.GeoPoint) (string, bool, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.reverseFn != nil {
		return m.reverseFn(ctx, p)
	}
	return "", false, nil
}

func (m *mockGeocoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.ReportEvent
}

func (m *mockPublisher) PublishReportEvent(ctx context.Context, ev *domain.ReportEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *ev)
	return nil
}

func ptr(f float64) *float64 { return &f }
