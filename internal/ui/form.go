package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/usecases"
	"github.com/samirrijal/siara/internal/pkg/geospatial"
)

// Field layout per posting type. lat and lon are always the last two.
var (
	lostLabels  = []string{"Animal name", "Species (optional)", "Where it was lost", "Description (optional)", "Contact (optional)", "Latitude (optional)", "Longitude (optional)"}
	foundLabels = []string{"Species (optional)", "Where it was found", "Description (optional)", "Date found (optional)", "Contact (optional)", "Latitude (optional)", "Longitude (optional)"}
)

const (
	lostName = iota
	lostSpecies
	lostLocation
	lostDesc
	lostContact
)

const (
	foundSpecies = iota
	foundLocation
	foundDesc
	foundDate
	foundContact
)

var errHalfCoords = errors.New("enter both latitude and longitude, or neither")

type formModel struct {
	typ    domain.ReportType
	userID string
	editID string
	fields inputGroup

	msg  string
	err  string
	busy bool

	address string
	mapURL  string
	matches []domain.NearbyMarker
}

func newFormModel(typ domain.ReportType, userID string, lost *domain.LostAnimal, found *domain.FoundReport) formModel {
	labels := foundLabels
	if typ == domain.ReportLost {
		labels = lostLabels
	}
	m := formModel{typ: typ, userID: userID, fields: newInputGroup(labels...)}

	switch {
	case lost != nil:
		m.editID = lost.ID
		m.fields.set(lostName, lost.Name)
		m.fields.set(lostSpecies, lost.Species)
		m.fields.set(lostLocation, lost.LostLocation)
		m.fields.set(lostDesc, lost.Description)
		m.fields.set(lostContact, lost.Contact)
		m.setCoords(lost.Latitude, lost.Longitude)
	case found != nil:
		m.editID = found.ID
		m.fields.set(foundSpecies, found.Species)
		m.fields.set(foundLocation, found.FoundLocation)
		m.fields.set(foundDesc, found.Description)
		m.fields.set(foundDate, found.FoundDate)
		m.fields.set(foundContact, found.Contact)
		m.setCoords(found.Latitude, found.Longitude)
	}
	return m
}

func (m formModel) Init() tea.Cmd {
	return m.fields.focusCmd()
}

func (m formModel) latIdx() int { return len(m.fields.inputs) - 2 }
func (m formModel) lonIdx() int { return len(m.fields.inputs) - 1 }

func (m formModel) locationIdx() int {
	if m.typ == domain.ReportLost {
		return lostLocation
	}
	return foundLocation
}

func (m *formModel) setCoords(lat, lon *float64) {
	if lat == nil || lon == nil {
		return
	}
	m.fields.set(m.latIdx(), fmt.Sprintf("%.6f", *lat))
	m.fields.set(m.lonIdx(), fmt.Sprintf("%.6f", *lon))
}

// coords parses the coordinate fields. Both empty means no coordinates.
func (m formModel) coords() (lat, lon *float64, err error) {
	latS, lonS := m.fields.value(m.latIdx()), m.fields.value(m.lonIdx())
	if latS == "" && lonS == "" {
		return nil, nil, nil
	}
	if latS == "" || lonS == "" {
		return nil, nil, errHalfCoords
	}
	la, err1 := strconv.ParseFloat(latS, 64)
	lo, err2 := strconv.ParseFloat(lonS, 64)
	if err1 != nil || err2 != nil || math.IsNaN(la) || math.IsNaN(lo) {
		return nil, nil, errors.New("invalid coordinate format")
	}
	if !geospatial.ValidLatLon(la, lo) {
		return nil, nil, errors.New("latitude must be within ±90 and longitude within ±180")
	}
	return &la, &lo, nil
}

// pullPick copies the last map pick into the coordinate fields, wrapping
// longitude into [-180, 180].
func (m *formModel) pullPick(deps Deps) bool {
	p := deps.Picks.Get()
	if !p.Present {
		m.err = "No coordinates picked yet. Click the map first."
		m.msg = ""
		return false
	}
	m.fields.set(m.latIdx(), fmt.Sprintf("%.6f", p.Lat))
	m.fields.set(m.lonIdx(), fmt.Sprintf("%.6f", geospatial.NormalizeLon(p.Lon)))
	m.msg, m.err = "Coordinates imported into the form.", ""
	return true
}

func (m *formModel) refreshPreview(ctx context.Context, deps Deps) tea.Cmd {
	lat, lon, err := m.coords()
	if err != nil {
		m.address, m.mapURL, m.matches = "", "", nil
		m.err = err.Error()
		return nil
	}
	if lat == nil {
		m.address, m.mapURL, m.matches = "", "", nil
		return nil
	}
	return previewCmd(ctx, deps, domain.GeoPoint{Lat: *lat, Lon: *lon})
}

func (m formModel) Update(ctx context.Context, deps Deps, msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case previewMsg:
		m.mapURL = msg.mapURL
		m.matches = msg.matches
		m.address = msg.address
		if msg.err != nil {
			m.err = "Preview: " + msg.err.Error()
		} else if m.address == "" {
			m.address = "No address found for these coordinates."
		}
		return m, nil

	case geocodedMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.err = "Geocoding failed: " + msg.err.Error()
			return m, nil
		case !msg.found:
			m.err = "Address not found."
			return m, nil
		}
		m.fields.set(m.latIdx(), fmt.Sprintf("%.6f", msg.point.Lat))
		m.fields.set(m.lonIdx(), fmt.Sprintf("%.6f", msg.point.Lon))
		m.msg, m.err = "Coordinates filled from the address.", ""
		cmd := m.refreshPreview(ctx, deps)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return closeFormMsg{} }
		case "tab", "down":
			cmd := m.fields.next()
			return m, cmd
		case "shift+tab", "up":
			cmd := m.fields.prev()
			return m, cmd
		case "ctrl+p":
			if !m.pullPick(deps) {
				return m, nil
			}
			cmd := m.refreshPreview(ctx, deps)
			return m, cmd
		case "ctrl+r":
			m.err = ""
			cmd := m.refreshPreview(ctx, deps)
			return m, cmd
		case "ctrl+g":
			if deps.Geo == nil {
				m.err = "Geocoding is not configured."
				return m, nil
			}
			addr := m.fields.value(m.locationIdx())
			if addr == "" {
				m.err = "Enter a location to look up."
				return m, nil
			}
			m.busy = true
			m.msg, m.err = "Looking up address...", ""
			return m, geocodeCmd(ctx, deps.Geo, addr)
		case "ctrl+s":
			return m.save(ctx, deps)
		case "enter":
			if m.fields.focus == len(m.fields.inputs)-1 {
				return m.save(ctx, deps)
			}
			cmd := m.fields.next()
			return m, cmd
		}
	}
	cmd := m.fields.update(msg)
	return m, cmd
}

func (m formModel) save(ctx context.Context, deps Deps) (formModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	lat, lon, err := m.coords()
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	if m.typ == domain.ReportLost {
		in := usecases.LostInput{
			Name:        m.fields.value(lostName),
			Species:     m.fields.value(lostSpecies),
			Location:    m.fields.value(lostLocation),
			Description: m.fields.value(lostDesc),
			Contact:     m.fields.value(lostContact),
			Lat:         lat,
			Lon:         lon,
		}
		if in.Name == "" {
			m.err = "Animal name is required."
			return m, nil
		}
		m.busy = true
		m.msg, m.err = "Saving...", ""
		return m, saveLostCmd(ctx, deps.Reports, m.userID, m.editID, in)
	}

	in := usecases.FoundInput{
		Species:     m.fields.value(foundSpecies),
		Location:    m.fields.value(foundLocation),
		Description: m.fields.value(foundDesc),
		FoundDate:   m.fields.value(foundDate),
		Contact:     m.fields.value(foundContact),
		Lat:         lat,
		Lon:         lon,
	}
	m.busy = true
	m.msg, m.err = "Saving...", ""
	return m, saveFoundCmd(ctx, deps.Reports, m.userID, m.editID, in)
}

func (m formModel) View() string {
	var b strings.Builder
	action := "New"
	if m.editID != "" {
		action = "Edit"
	}
	kind := "found report"
	if m.typ == domain.ReportLost {
		kind = "lost animal"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("SIARA · %s %s", action, kind)) + "\n\n")
	b.WriteString(m.fields.view())

	if m.mapURL != "" {
		b.WriteString("\n" + accentStyle.Render("Preview: ") + m.mapURL + "\n")
		b.WriteString(mutedStyle.Render(m.address) + "\n")
	}
	if len(m.matches) > 0 {
		b.WriteString("\n" + titleStyle.Render("Possible matches nearby") + "\n")
		for _, nm := range m.matches {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				typeBadge(nm.Type == domain.ReportLost), nm.Title,
				mutedStyle.Render(fmt.Sprintf("%.0f m", nm.Distance))))
		}
	}

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	} else if m.msg != "" {
		b.WriteString("\n" + successStyle.Render(m.msg) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("ctrl+p: pull picked coordinates · ctrl+g: locate address · ctrl+r: refresh preview · ctrl+s: save · esc: back"))
	return panel(b.String())
}
