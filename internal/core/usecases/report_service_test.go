package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/usecases"
)

func TestReportService_Markers_Empty(t *testing.T) {
	svc := usecases.NewReportService(&mockLostRepo{}, &mockFoundRepo{}, nil, nil)

	markers, err := svc.Markers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if markers == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(markers) != 0 {
		t.Errorf("expected 0 markers, got %d", len(markers))
	}
}

func TestReportService_Markers_Projection(t *testing.T) {
	lost := &mockLostRepo{
		listFn: func(ctx context.Context) ([]domain.LostAnimal, error) {
			return []domain.LostAnimal{
				{ID: "l1", Name: "Rex", Description: "brown dog", LostLocation: "Praça da Sé", Latitude: ptr(-23.55), Longitude: ptr(-46.63)},
				{ID: "l2", Name: "Mia"},
			}, nil
		},
	}
	found := &mockFoundRepo{
		listFn: func(ctx context.Context) ([]domain.FoundReport, error) {
			return []domain.FoundReport{
				{ID: "f1", Description: "grey cat", FoundLocation: "Paulista"},
			}, nil
		},
	}
	svc := usecases.NewReportService(lost, found, nil, nil)

	markers, err := svc.Markers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(markers))
	}

	rex := markers[0]
	if rex.Type != domain.ReportLost || rex.Title != "Rex" || rex.Desc != "brown dog (Praça da Sé)" {
		t.Errorf("unexpected lost marker %+v", rex)
	}
	if rex.Lat == nil || *rex.Lat != -23.55 {
		t.Errorf("expected lat -23.55, got %v", rex.Lat)
	}
	if markers[1].Lat != nil || markers[1].Lon != nil {
		t.Error("marker without coordinates must keep null lat/lon")
	}
	if markers[2].Type != domain.ReportFound || markers[2].Title != "Found animal" {
		t.Errorf("unexpected found marker %+v", markers[2])
	}
}

func TestReportService_Markers_CollaboratorError(t *testing.T) {
	boom := errors.New("database is locked")
	svc := usecases.NewReportService(&mockLostRepo{}, &mockFoundRepo{
		listFn: func(ctx context.Context) ([]domain.FoundReport, error) { return nil, boom },
	}, nil, nil)

	_, err := svc.Markers(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped collaborator error, got %v", err)
	}
}

func TestReportService_CreateLost_Validation(t *testing.T) {
	svc := usecases.NewReportService(&mockLostRepo{}, &mockFoundRepo{}, nil, nil)
	ctx := context.Background()

	if _, err := svc.CreateLost(ctx, "u1", usecases.LostInput{Name: " "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.CreateLost(ctx, "u1", usecases.LostInput{Name: "Rex", Lat: ptr(1)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("half coordinate: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.CreateLost(ctx, "u1", usecases.LostInput{Name: "Rex", Lat: ptr(95), Lon: ptr(0)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("out of range: expected ErrInvalidInput, got %v", err)
	}
}

func TestReportService_CreateLost_GeocodesLocation(t *testing.T) {
	var saved *domain.LostAnimal
	lost := &mockLostRepo{
		createFn: func(ctx context.Context, a *domain.LostAnimal) error {
			a.ID = "l1"
			saved = a
			return nil
		},
	}
	geo := &mockGeocoder{
		forwardFn: func(ctx context.Context, address string) (domain.GeoPoint, bool, error) {
			if address != "Avenida Paulista" {
				t.Errorf("unexpected address %q", address)
			}
			return domain.GeoPoint{Lat: -23.56, Lon: -46.65}, true, nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewReportService(lost, &mockFoundRepo{},
		usecases.NewGeocodeService(geo, nil, 0, 60), pub)

	a, err := svc.CreateLost(context.Background(), "u1", usecases.LostInput{Name: "Rex", Location: " Avenida Paulista "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || saved.OwnerID != "u1" {
		t.Fatalf("expected posting owned by u1, got %+v", saved)
	}
	p, ok := a.Point()
	if !ok || p.Lat != -23.56 || p.Lon != -46.65 {
		t.Errorf("expected geocoded point, got %+v (ok=%v)", p, ok)
	}
	if len(pub.events) != 1 || pub.events[0].Action != "created" || pub.events[0].ReportID != "l1" {
		t.Errorf("expected one created event, got %+v", pub.events)
	}
}

func TestReportService_CreateFound_GeocodeFailureStillSaves(t *testing.T) {
	geo := &mockGeocoder{
		forwardFn: func(ctx context.Context, address string) (domain.GeoPoint, bool, error) {
			return domain.GeoPoint{}, false, errors.New("provider down")
		},
	}
	svc := usecases.NewReportService(&mockLostRepo{}, &mockFoundRepo{},
		usecases.NewGeocodeService(geo, nil, 0, 60), nil)

	r, err := svc.CreateFound(context.Background(), "u1", usecases.FoundInput{Species: "cat", Location: "somewhere"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Point(); ok {
		t.Error("expected no coordinates after failed geocode")
	}
}

func TestReportService_UpdateLost_ForbiddenPropagates(t *testing.T) {
	lost := &mockLostRepo{
		updateFn: func(ctx context.Context, ownerID string, a *domain.LostAnimal) error {
			return domain.ErrForbidden
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewReportService(lost, &mockFoundRepo{}, nil, pub)

	_, err := svc.UpdateLost(context.Background(), "intruder", "l1", usecases.LostInput{Name: "Rex"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Error("no event expected on failed update")
	}
}

func TestReportService_DeleteLost_NotFound(t *testing.T) {
	lost := &mockLostRepo{
		deleteFn: func(ctx context.Context, ownerID, id string) error { return domain.ErrNotFound },
	}
	svc := usecases.NewReportService(lost, &mockFoundRepo{}, nil, nil)

	if err := svc.DeleteLost(context.Background(), "u1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReportService_Nearby(t *testing.T) {
	lost := &mockLostRepo{
		listFn: func(ctx context.Context) ([]domain.LostAnimal, error) {
			return []domain.LostAnimal{
				{ID: "far", Name: "Far", Latitude: ptr(-22.90), Longitude: ptr(-43.17)}, // Rio
				{ID: "near", Name: "Near", Latitude: ptr(-23.551), Longitude: ptr(-46.631)},
				{ID: "none", Name: "NoCoords"},
			}, nil
		},
	}
	found := &mockFoundRepo{
		listFn: func(ctx context.Context) ([]domain.FoundReport, error) {
			return []domain.FoundReport{
				{ID: "mid", Species: "cat", Latitude: ptr(-23.555), Longitude: ptr(-46.635)},
			}, nil
		},
	}
	svc := usecases.NewReportService(lost, found, nil, nil)

	got, err := svc.Nearby(context.Background(), domain.GeoPoint{Lat: -23.55, Lon: -46.63}, 2000, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 nearby, got %d: %+v", len(got), got)
	}
	if got[0].ReportID != "near" || got[1].ReportID != "mid" {
		t.Errorf("expected near then mid, got %s then %s", got[0].ReportID, got[1].ReportID)
	}
	if got[0].Distance >= got[1].Distance {
		t.Error("expected ascending distance")
	}

	if _, err := svc.Nearby(context.Background(), domain.GeoPoint{}, 0, 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero radius, got %v", err)
	}
}
