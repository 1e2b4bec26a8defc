package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/ports"
	"github.com/samirrijal/siara/internal/pkg/geospatial"
)

// LostInput carries the editable fields of a lost-animal posting.
type LostInput struct {
	Name        string
	Species     string
	Location    string
	Description string
	Contact     string
	Lat         *float64
	Lon         *float64
}

// FoundInput carries the editable fields of a found-animal report.
type FoundInput struct {
	Species     string
	Location    string
	Description string
	FoundDate   string
	Contact     string
	Lat         *float64
	Lon         *float64
}

// ReportService handles lost/found postings and the map marker feed.
type ReportService struct {
	lost      ports.LostAnimalRepository
	found     ports.FoundReportRepository
	geo       *GeocodeService
	publisher ports.EventPublisher
}

// NewReportService creates a new ReportService. geo and publisher may be nil.
func NewReportService(
	lost ports.LostAnimalRepository,
	found ports.FoundReportRepository,
	geo *GeocodeService,
	publisher ports.EventPublisher,
) *ReportService {
	return &ReportService{lost: lost, found: found, geo: geo, publisher: publisher}
}

// CreateLost stores a new lost-animal posting owned by ownerID. When no
// coordinates are given the location text is geocoded, best-effort.
func (s *ReportService) CreateLost(ctx context.Context, ownerID string, in LostInput) (*domain.LostAnimal, error) {
	a, err := s.lostFromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	a.OwnerID = ownerID

	if err := s.lost.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create lost animal: %w", err)
	}
	s.publish(ctx, domain.ReportLost, "created", a.ID)
	return a, nil
}

// UpdateLost overwrites a posting owned by ownerID.
func (s *ReportService) UpdateLost(ctx context.Context, ownerID, id string, in LostInput) (*domain.LostAnimal, error) {
	a, err := s.lostFromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	a.ID = id
	a.OwnerID = ownerID

	if err := s.lost.Update(ctx, ownerID, a); err != nil {
		return nil, fmt.Errorf("update lost animal %s: %w", id, err)
	}
	s.publish(ctx, domain.ReportLost, "updated", id)
	return a, nil
}

// DeleteLost removes a posting owned by ownerID.
func (s *ReportService) DeleteLost(ctx context.Context, ownerID, id string) error {
	if err := s.lost.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete lost animal %s: %w", id, err)
	}
	s.publish(ctx, domain.ReportLost, "deleted", id)
	return nil
}

// GetLost returns a single posting.
func (s *ReportService) GetLost(ctx context.Context, id string) (*domain.LostAnimal, error) {
	return s.lost.GetByID(ctx, id)
}

// ListLost returns all lost postings, newest first.
func (s *ReportService) ListLost(ctx context.Context) ([]domain.LostAnimal, error) {
	return s.lost.List(ctx)
}

// ListLostByOwner returns the postings of one user, newest first.
func (s *ReportService) ListLostByOwner(ctx context.Context, ownerID string) ([]domain.LostAnimal, error) {
	return s.lost.ListByOwner(ctx, ownerID)
}

// CreateFound stores a new found-animal report by finderID.
func (s *ReportService) CreateFound(ctx context.Context, finderID string, in FoundInput) (*domain.FoundReport, error) {
	r, err := s.foundFromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	r.FinderID = finderID

	if err := s.found.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create found report: %w", err)
	}
	s.publish(ctx, domain.ReportFound, "created", r.ID)
	return r, nil
}

// UpdateFound overwrites a report made by finderID.
func (s *ReportService) UpdateFound(ctx context.Context, finderID, id string, in FoundInput) (*domain.FoundReport, error) {
	r, err := s.foundFromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	r.ID = id
	r.FinderID = finderID

	if err := s.found.Update(ctx, finderID, r); err != nil {
		return nil, fmt.Errorf("update found report %s: %w", id, err)
	}
	s.publish(ctx, domain.ReportFound, "updated", id)
	return r, nil
}

// DeleteFound removes a report made by finderID.
func (s *ReportService) DeleteFound(ctx context.Context, finderID, id string) error {
	if err := s.found.Delete(ctx, finderID, id); err != nil {
		return fmt.Errorf("delete found report %s: %w", id, err)
	}
	s.publish(ctx, domain.ReportFound, "deleted", id)
	return nil
}

// GetFound returns a single report.
func (s *ReportService) GetFound(ctx context.Context, id string) (*domain.FoundReport, error) {
	return s.found.GetByID(ctx, id)
}

// ListFound returns all found reports, newest first.
func (s *ReportService) ListFound(ctx context.Context) ([]domain.FoundReport, error) {
	return s.found.List(ctx)
}

// ListFoundByFinder returns the reports of one user, newest first.
func (s *ReportService) ListFoundByFinder(ctx context.Context, finderID string) ([]domain.FoundReport, error) {
	return s.found.ListByFinder(ctx, finderID)
}

// Markers projects every lost and found posting into a map marker.
// The result is never nil so it serializes as [] when empty.
func (s *ReportService) Markers(ctx context.Context) ([]domain.ReportMarker, error) {
	lost, err := s.lost.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lost animals: %w", err)
	}
	found, err := s.found.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list found reports: %w", err)
	}

	markers := make([]domain.ReportMarker, 0, len(lost)+len(found))
	for i := range lost {
		markers = append(markers, LostMarker(&lost[i]))
	}
	for i := range found {
		markers = append(markers, FoundMarker(&found[i]))
	}
	return markers, nil
}

// Nearby returns postings within radiusMeters of p, closest first.
func (s *ReportService) Nearby(ctx context.Context, p domain.GeoPoint, radiusMeters float64, limit int) ([]domain.NearbyMarker, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	lost, err := s.lost.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lost animals: %w", err)
	}
	found, err := s.found.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list found reports: %w", err)
	}

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(p.Lat, p.Lon, radiusMeters)
	box := domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}

	var out []domain.NearbyMarker
	consider := func(id string, m domain.ReportMarker, q domain.GeoPoint, ok bool) {
		if !ok || !box.Contains(q) {
			return
		}
		d := geospatial.Haversine(p.Lat, p.Lon, q.Lat, q.Lon)
		if d <= radiusMeters {
			out = append(out, domain.NearbyMarker{ReportMarker: m, ReportID: id, Distance: d})
		}
	}
	for i := range lost {
		q, ok := lost[i].Point()
		consider(lost[i].ID, LostMarker(&lost[i]), q, ok)
	}
	for i := range found {
		q, ok := found[i].Point()
		consider(found[i].ID, FoundMarker(&found[i]), q, ok)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LostMarker projects a lost posting into a map marker.
func LostMarker(a *domain.LostAnimal) domain.ReportMarker {
	return domain.ReportMarker{
		Type:  domain.ReportLost,
		Title: a.Name,
		Desc:  markerDesc(a.Description, a.LostLocation),
		Lat:   a.Latitude,
		Lon:   a.Longitude,
	}
}

// FoundMarker projects a found report into a map marker.
func FoundMarker(r *domain.FoundReport) domain.ReportMarker {
	title := r.Species
	if title == "" {
		title = "Found animal"
	}
	return domain.ReportMarker{
		Type:  domain.ReportFound,
		Title: title,
		Desc:  markerDesc(r.Description, r.FoundLocation),
		Lat:   r.Latitude,
		Lon:   r.Longitude,
	}
}

func markerDesc(desc, location string) string {
	desc = strings.TrimSpace(desc)
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return desc
	case desc == "":
		return "(" + location + ")"
	default:
		return desc + " (" + location + ")"
	}
}

func (s *ReportService) lostFromInput(ctx context.Context, in LostInput) (*domain.LostAnimal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	lat, lon, err := s.resolveCoords(ctx, in.Lat, in.Lon, in.Location)
	if err != nil {
		return nil, err
	}
	return &domain.LostAnimal{
		Name:         name,
		Species:      strings.TrimSpace(in.Species),
		LostLocation: strings.TrimSpace(in.Location),
		Description:  strings.TrimSpace(in.Description),
		Contact:      strings.TrimSpace(in.Contact),
		Latitude:     lat,
		Longitude:    lon,
	}, nil
}

func (s *ReportService) foundFromInput(ctx context.Context, in FoundInput) (*domain.FoundReport, error) {
	lat, lon, err := s.resolveCoords(ctx, in.Lat, in.Lon, in.Location)
	if err != nil {
		return nil, err
	}
	return &domain.FoundReport{
		Species:       strings.TrimSpace(in.Species),
		FoundLocation: strings.TrimSpace(in.Location),
		Description:   strings.TrimSpace(in.Description),
		FoundDate:     strings.TrimSpace(in.FoundDate),
		Contact:       strings.TrimSpace(in.Contact),
		Latitude:      lat,
		Longitude:     lon,
	}, nil
}

// resolveCoords enforces the both-or-neither rule and falls back to
// forward geocoding of the location text when no coordinates are given.
func (s *ReportService) resolveCoords(ctx context.Context, lat, lon *float64, location string) (*float64, *float64, error) {
	if (lat == nil) != (lon == nil) {
		return nil, nil, fmt.Errorf("%w: latitude and longitude must be given together", domain.ErrInvalidInput)
	}
	if lat != nil {
		if !geospatial.ValidLatLon(*lat, *lon) {
			return nil, nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
		}
		return lat, lon, nil
	}

	location = strings.TrimSpace(location)
	if s.geo == nil || location == "" {
		return nil, nil, nil
	}
	p, found, err := s.geo.Forward(ctx, location)
	if err != nil {
		slog.Warn("geocode on save failed", "location", location, "error", err)
		return nil, nil, nil
	}
	if !found {
		return nil, nil, nil
	}
	return &p.Lat, &p.Lon, nil
}

func (s *ReportService) publish(ctx context.Context, typ domain.ReportType, action, id string) {
	if s.publisher == nil {
		return
	}
	ev := &domain.ReportEvent{Type: typ, Action: action, ReportID: id, At: time.Now().UTC()}
	if err := s.publisher.PublishReportEvent(ctx, ev); err != nil {
		slog.Warn("publish report event failed", "type", typ, "action", action, "id", id, "error", err)
	}
}
