package domain

import (
	"time"
)

// ReportType discriminates lost postings from found postings.
type ReportType string

const (
	ReportLost  ReportType = "lost"
	ReportFound ReportType = "found"
)

// User is a registered account. Reports reference it as owner or finder.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Contact      string    `json:"contact,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LostAnimal is a posting by an owner whose animal went missing.
type LostAnimal struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id,omitempty"`
	OwnerName    string    `json:"owner_name,omitempty"` // joined from users
	Name         string    `json:"name"`
	Species      string    `json:"species,omitempty"`
	LostLocation string    `json:"lost_location,omitempty"`
	Description  string    `json:"description,omitempty"`
	Contact      string    `json:"contact,omitempty"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	CreatedAt    time.Time `json:"created_at"`
}

// Point returns the posting's coordinate, if both fields are set.
func (a *LostAnimal) Point() (GeoPoint, bool) {
	return pointOf(a.Latitude, a.Longitude)
}

// FoundReport is a posting by someone who found an animal.
type FoundReport struct {
	ID            string    `json:"id"`
	FinderID      string    `json:"finder_id,omitempty"`
	FinderName    string    `json:"finder_name,omitempty"` // joined from users
	Species       string    `json:"species,omitempty"`
	FoundLocation string    `json:"found_location,omitempty"`
	Description   string    `json:"description,omitempty"`
	FoundDate     string    `json:"found_date,omitempty"`
	Contact       string    `json:"contact,omitempty"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
}

// Point returns the report's coordinate, if both fields are set.
func (r *FoundReport) Point() (GeoPoint, bool) {
	return pointOf(r.Latitude, r.Longitude)
}

// ReportEvent announces a change to a posting so other desktops can refresh.
type ReportEvent struct {
	Type     ReportType `json:"type"`
	Action   string     `json:"action"` // created, updated, deleted
	ReportID string     `json:"report_id"`
	At       time.Time  `json:"at"`
}

func pointOf(lat, lon *float64) (GeoPoint, bool) {
	if lat == nil || lon == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *lat, Lon: *lon}, true
}
