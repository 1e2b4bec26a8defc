// Package ui is the terminal front end: sign in, browse postings, and
// create or edit lost/found reports. Coordinates come from the map page
// through the pick store.
package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/ports"
	"github.com/samirrijal/siara/internal/core/usecases"
)

// Deps are the services the UI drives.
type Deps struct {
	Users   *usecases.UserService
	Reports *usecases.ReportService
	Geo     *usecases.GeocodeService // nil disables geocoding
	Picks   ports.PickStore

	// MapURL is the bridge page; empty when the bridge is not running.
	MapURL  string
	OpenURL func(url string) error
}

type screen int

const (
	screenAuth screen = iota
	screenHome
	screenForm
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	deps Deps

	screen screen
	user   *domain.User

	auth authModel
	home homeModel
	form formModel

	width, height int
}

// New creates the root model. ctx bounds every service call.
func New(ctx context.Context, deps Deps) Model {
	if deps.OpenURL == nil {
		deps.OpenURL = OpenBrowser
	}
	return Model{
		ctx:    ctx,
		deps:   deps,
		screen: screenAuth,
		auth:   newAuthModel(),
		width:  80,
		height: 24,
	}
}

// NewProgram wraps the model in a full-screen program. Callers may Send
// ReportsChangedMsg to it from other goroutines.
func NewProgram(ctx context.Context, deps Deps) *tea.Program {
	return tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
}

func (m Model) Init() tea.Cmd {
	return m.auth.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.home.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case loggedInMsg:
		if msg.err != nil {
			m.auth.err = loginError(msg.err)
			m.auth.busy = false
			return m, nil
		}
		m.user = msg.user
		m.home = newHomeModel(m.user, m.deps.MapURL, m.width, m.height)
		m.screen = screenHome
		return m, loadReportsCmd(m.ctx, m.deps.Reports, m.user.ID, false)

	case logoutMsg:
		m.user = nil
		m.auth = newAuthModel()
		m.screen = screenAuth
		return m, m.auth.Init()

	case openFormMsg:
		if msg.id == "" {
			m.form = newFormModel(msg.typ, m.user.ID, nil, nil)
			m.screen = screenForm
			return m, m.form.Init()
		}
		return m, loadRecordCmd(m.ctx, m.deps.Reports, msg.typ, msg.id)

	case recordLoadedMsg:
		if msg.err != nil {
			m.home.setError(fmt.Errorf("open posting: %w", msg.err))
			return m, nil
		}
		m.form = newFormModel(typeOf(msg), m.user.ID, msg.lost, msg.found)
		m.screen = screenForm
		cmd := tea.Batch(m.form.Init(), m.form.refreshPreview(m.ctx, m.deps))
		return m, cmd

	case savedMsg:
		if msg.err != nil {
			m.form.err = msg.err.Error()
			m.form.busy = false
			return m, nil
		}
		m.screen = screenHome
		m.home.status = savedText(msg.typ)
		return m, m.home.reload(m.ctx, m.deps)

	case closeFormMsg:
		m.screen = screenHome
		return m, nil

	case ReportsChangedMsg:
		if m.user == nil {
			return m, nil
		}
		return m, m.home.reload(m.ctx, m.deps)

	case reportsLoadedMsg, deletedMsg:
		if m.user == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.home, cmd = m.home.Update(m.ctx, m.deps, msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenAuth:
		m.auth, cmd = m.auth.Update(m.ctx, m.deps, msg)
	case screenHome:
		m.home, cmd = m.home.Update(m.ctx, m.deps, msg)
	case screenForm:
		m.form, cmd = m.form.Update(m.ctx, m.deps, msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.screen {
	case screenHome:
		return m.home.View()
	case screenForm:
		return m.form.View()
	default:
		return m.auth.View()
	}
}

func typeOf(msg recordLoadedMsg) domain.ReportType {
	if msg.lost != nil {
		return domain.ReportLost
	}
	return domain.ReportFound
}

func savedText(t domain.ReportType) string {
	if t == domain.ReportLost {
		return "Lost animal saved."
	}
	return "Found report saved."
}
