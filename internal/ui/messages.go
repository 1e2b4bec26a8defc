package ui

import (
	"github.com/samirrijal/siara/internal/core/domain"
)

// ReportsChangedMsg tells the UI that postings changed elsewhere, e.g. on
// another desktop sharing the database. The home list reloads.
type ReportsChangedMsg struct{}

type loggedInMsg struct {
	user *domain.User
	err  error
}

type registeredMsg struct {
	err error
}

type reportsLoadedMsg struct {
	items []reportItem
	err   error
}

type deletedMsg struct {
	err error
}

type recordLoadedMsg struct {
	lost  *domain.LostAnimal
	found *domain.FoundReport
	err   error
}

type savedMsg struct {
	typ domain.ReportType
	err error
}

type previewMsg struct {
	address string
	mapURL  string
	matches []domain.NearbyMarker
	err     error
}

type geocodedMsg struct {
	point domain.GeoPoint
	found bool
	err   error
}

type statusMsg struct {
	text string
	err  error
}

// Navigation intents emitted by screens and handled by the root model.
type (
	openFormMsg struct {
		typ domain.ReportType
		id  string // empty for a new posting
	}
	closeFormMsg struct{}
	logoutMsg    struct{}
)
