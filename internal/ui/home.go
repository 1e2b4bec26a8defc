package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/usecases"
)

// reportItem adapts a posting to bubbles/list.Item.
type reportItem struct {
	typ     domain.ReportType
	id      string
	title   string
	desc    string
	author  string
	contact string
	mine    bool
	coords  string
}

func (i reportItem) Title() string       { return i.title }
func (i reportItem) Description() string { return i.desc }
func (i reportItem) FilterValue() string { return i.title + " " + i.desc }

func lostItem(a *domain.LostAnimal, userID string) reportItem {
	m := usecases.LostMarker(a)
	return reportItem{
		typ: domain.ReportLost, id: a.ID, title: m.Title, desc: m.Desc,
		author: a.OwnerName, contact: a.Contact,
		mine:   userID != "" && a.OwnerID == userID,
		coords: coordText(a.Latitude, a.Longitude),
	}
}

func foundItem(f *domain.FoundReport, userID string) reportItem {
	m := usecases.FoundMarker(f)
	return reportItem{
		typ: domain.ReportFound, id: f.ID, title: m.Title, desc: m.Desc,
		author: f.FinderName, contact: f.Contact,
		mine:   userID != "" && f.FinderID == userID,
		coords: coordText(f.Latitude, f.Longitude),
	}
}

func coordText(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}
	return fmt.Sprintf("%.6f, %.6f", *lat, *lon)
}

// Single-line rows: badge, title, description, and a marker on own postings.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(reportItem)
	if !ok {
		return
	}
	line := typeBadge(it.typ == domain.ReportLost) + " " + it.title
	if it.desc != "" {
		line += mutedStyle.Render(" · " + it.desc)
	}
	if it.mine {
		line += accentStyle.Render(" (mine)")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

var (
	keyMine    = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "all/mine"))
	keyNewLost = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new lost"))
	keyNewFnd  = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "new found"))
	keyEdit    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	keyDelete  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	keyMap     = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open map"))
	keyReload  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	keyLogout  = key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign out"))
)

type homeModel struct {
	user     *domain.User
	mapURL   string
	list     list.Model
	mineOnly bool

	confirm *reportItem // pending delete
	status  string
	err     string
}

func newHomeModel(user *domain.User, mapURL string, width, height int) homeModel {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("posting", "postings")
	extra := func() []key.Binding {
		return []key.Binding{keyMine, keyNewLost, keyNewFnd, keyEdit, keyDelete, keyMap, keyReload, keyLogout}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	m := homeModel{user: user, mapURL: mapURL, list: l}
	m.setSize(width, height)
	m.setTitle()
	return m
}

func (m *homeModel) setSize(width, height int) {
	// Leave room for the panel border and the detail lines.
	m.list.SetSize(max(width-4, 20), max(height-8, 5))
}

func (m *homeModel) setTitle() {
	scope := "All postings"
	if m.mineOnly {
		scope = "My postings"
	}
	name := ""
	if m.user != nil {
		name = " · " + m.user.Username
	}
	m.list.Title = "SIARA · " + scope + name
}

func (m *homeModel) setError(err error) {
	m.err = err.Error()
	m.status = ""
}

func (m homeModel) reload(ctx context.Context, deps Deps) tea.Cmd {
	userID := ""
	if m.user != nil {
		userID = m.user.ID
	}
	return loadReportsCmd(ctx, deps.Reports, userID, m.mineOnly)
}

func (m homeModel) selected() (reportItem, bool) {
	it, ok := m.list.SelectedItem().(reportItem)
	return it, ok
}

func (m homeModel) Update(ctx context.Context, deps Deps, msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsLoadedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("load postings: %w", msg.err))
			return m, nil
		}
		items := make([]list.Item, len(msg.items))
		for i, it := range msg.items {
			items[i] = it
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case deletedMsg:
		if msg.err != nil {
			m.setError(friendlyError(msg.err))
			return m, nil
		}
		m.status, m.err = "Posting deleted.", ""
		return m, m.reload(ctx, deps)

	case statusMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.status, m.err = msg.text, ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirm != nil {
			target := *m.confirm
			m.confirm = nil
			if msg.String() == "y" {
				return m, deleteCmd(ctx, deps.Reports, m.user.ID, target)
			}
			m.status = "Delete cancelled."
			return m, nil
		}
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, keyMine):
			m.mineOnly = !m.mineOnly
			m.setTitle()
			return m, m.reload(ctx, deps)
		case key.Matches(msg, keyNewLost):
			return m, func() tea.Msg { return openFormMsg{typ: domain.ReportLost} }
		case key.Matches(msg, keyNewFnd):
			return m, func() tea.Msg { return openFormMsg{typ: domain.ReportFound} }
		case key.Matches(msg, keyEdit):
			it, ok := m.selected()
			if !ok {
				return m, nil
			}
			if !it.mine {
				m.setError(fmt.Errorf("you can only edit your own postings"))
				return m, nil
			}
			return m, func() tea.Msg { return openFormMsg{typ: it.typ, id: it.id} }
		case key.Matches(msg, keyDelete):
			it, ok := m.selected()
			if !ok {
				return m, nil
			}
			if !it.mine {
				m.setError(fmt.Errorf("you can only delete your own postings"))
				return m, nil
			}
			m.confirm = &it
			return m, nil
		case key.Matches(msg, keyMap):
			return m, openURLCmd(deps.OpenURL, m.mapURL)
		case key.Matches(msg, keyReload):
			m.status, m.err = "", ""
			return m, m.reload(ctx, deps)
		case key.Matches(msg, keyLogout):
			return m, func() tea.Msg { return logoutMsg{} }
		case msg.String() == "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m homeModel) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")

	if it, ok := m.selected(); ok {
		detail := []string{}
		if it.author != "" {
			detail = append(detail, "by "+it.author)
		}
		if it.contact != "" {
			detail = append(detail, "contact "+it.contact)
		}
		if it.coords != "" {
			detail = append(detail, "at "+it.coords)
		} else {
			detail = append(detail, "no coordinates")
		}
		b.WriteString(mutedStyle.Render(strings.Join(detail, " · ")) + "\n")
	}

	switch {
	case m.confirm != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %q? y to confirm, any other key to cancel.", m.confirm.title)))
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
	case m.mapURL != "":
		b.WriteString(mutedStyle.Render("Map: " + m.mapURL))
	}
	return panel(b.String())
}
