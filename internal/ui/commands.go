package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/usecases"
	"github.com/samirrijal/siara/internal/pkg/geospatial"
)

const (
	nearbyRadiusMeters = 2000
	nearbyLimit        = 5
	previewZoom        = 15
)

func loginCmd(ctx context.Context, users *usecases.UserService, username, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := users.Login(ctx, username, password)
		return loggedInMsg{user: u, err: err}
	}
}

func registerCmd(ctx context.Context, users *usecases.UserService, in usecases.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		_, err := users.Register(ctx, in)
		return registeredMsg{err: err}
	}
}

func loadReportsCmd(ctx context.Context, reports *usecases.ReportService, userID string, mineOnly bool) tea.Cmd {
	return func() tea.Msg {
		var (
			lost  []domain.LostAnimal
			found []domain.FoundReport
			err   error
		)
		if mineOnly {
			lost, err = reports.ListLostByOwner(ctx, userID)
			if err == nil {
				found, err = reports.ListFoundByFinder(ctx, userID)
			}
		} else {
			lost, err = reports.ListLost(ctx)
			if err == nil {
				found, err = reports.ListFound(ctx)
			}
		}
		if err != nil {
			return reportsLoadedMsg{err: err}
		}

		items := make([]reportItem, 0, len(lost)+len(found))
		for i := range lost {
			items = append(items, lostItem(&lost[i], userID))
		}
		for i := range found {
			items = append(items, foundItem(&found[i], userID))
		}
		return reportsLoadedMsg{items: items}
	}
}

// deleteCmd captures the posting by value; the list may change before the
// command runs.
func deleteCmd(ctx context.Context, reports *usecases.ReportService, userID string, it reportItem) tea.Cmd {
	return func() tea.Msg {
		var err error
		if it.typ == domain.ReportLost {
			err = reports.DeleteLost(ctx, userID, it.id)
		} else {
			err = reports.DeleteFound(ctx, userID, it.id)
		}
		return deletedMsg{err: err}
	}
}

func loadRecordCmd(ctx context.Context, reports *usecases.ReportService, typ domain.ReportType, id string) tea.Cmd {
	return func() tea.Msg {
		if typ == domain.ReportLost {
			a, err := reports.GetLost(ctx, id)
			return recordLoadedMsg{lost: a, err: err}
		}
		f, err := reports.GetFound(ctx, id)
		return recordLoadedMsg{found: f, err: err}
	}
}

func openURLCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if url == "" {
			return statusMsg{err: errors.New("map server is not running")}
		}
		if err := open(url); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Map opened in your browser: " + url}
	}
}

// previewCmd resolves an address for p and lists postings nearby. Either
// part may fail without hiding the other.
func previewCmd(ctx context.Context, deps Deps, p domain.GeoPoint) tea.Cmd {
	return func() tea.Msg {
		out := previewMsg{
			mapURL: geospatial.StaticMapURL(p.Lat, p.Lon, previewZoom, 600, 300, time.Now()),
		}
		if deps.Geo != nil {
			addr, found, err := deps.Geo.Reverse(ctx, p)
			switch {
			case err != nil:
				out.err = err
			case found:
				out.address = addr
			}
		}
		matches, err := deps.Reports.Nearby(ctx, p, nearbyRadiusMeters, nearbyLimit)
		if err != nil && out.err == nil {
			out.err = err
		}
		out.matches = matches
		return out
	}
}

func geocodeCmd(ctx context.Context, geo *usecases.GeocodeService, address string) tea.Cmd {
	return func() tea.Msg {
		p, found, err := geo.Forward(ctx, address)
		return geocodedMsg{point: p, found: found, err: err}
	}
}

func saveLostCmd(ctx context.Context, reports *usecases.ReportService, userID, id string, in usecases.LostInput) tea.Cmd {
	return func() tea.Msg {
		var err error
		if id == "" {
			_, err = reports.CreateLost(ctx, userID, in)
		} else {
			_, err = reports.UpdateLost(ctx, userID, id, in)
		}
		return savedMsg{typ: domain.ReportLost, err: friendlyError(err)}
	}
}

func saveFoundCmd(ctx context.Context, reports *usecases.ReportService, userID, id string, in usecases.FoundInput) tea.Cmd {
	return func() tea.Msg {
		var err error
		if id == "" {
			_, err = reports.CreateFound(ctx, userID, in)
		} else {
			_, err = reports.UpdateFound(ctx, userID, id, in)
		}
		return savedMsg{typ: domain.ReportFound, err: friendlyError(err)}
	}
}

func friendlyError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrForbidden):
		return errors.New("you can only change your own postings")
	case errors.Is(err, domain.ErrNotFound):
		return errors.New("this posting no longer exists")
	default:
		return err
	}
}

func loginError(err error) string {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return "Invalid username or password."
	}
	return err.Error()
}
