package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/usecases"
)

const (
	authUsername = iota
	authPassword
	authConfirm
	authContact
)

// authModel is the sign-in screen; ctrl+n toggles registration, which adds
// the confirmation and contact fields.
type authModel struct {
	registering bool
	fields      inputGroup
	err         string
	status      string
	busy        bool
}

func newAuthModel() authModel {
	m := authModel{fields: newInputGroup("Username", "Password", "Confirm password", "Contact (optional)")}
	for _, i := range []int{authPassword, authConfirm} {
		m.fields.inputs[i].EchoMode = textinput.EchoPassword
		m.fields.inputs[i].EchoCharacter = '•'
	}
	return m
}

func (m authModel) Init() tea.Cmd {
	return m.fields.focusCmd()
}

// visible is the number of inputs shown in the current mode.
func (m authModel) visible() int {
	if m.registering {
		return 4
	}
	return 2
}

func (m authModel) Update(ctx context.Context, deps Deps, msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		m.busy = false
		if msg.err != nil {
			m.err = registerError(msg.err)
			return m, nil
		}
		m.registering = false
		m.status = "Account created. Sign in to continue."
		m.err = ""
		m.fields.set(authPassword, "")
		m.fields.set(authConfirm, "")
		m.fields.focus = authPassword
		cmd := m.fields.focusCmd()
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "ctrl+n":
			m.registering = !m.registering
			m.err, m.status = "", ""
			if m.fields.focus >= m.visible() {
				m.fields.focus = 0
			}
			cmd := m.fields.focusCmd()
			return m, cmd
		case "tab", "down":
			m.fields.focus = (m.fields.focus + 1) % m.visible()
			cmd := m.fields.focusCmd()
			return m, cmd
		case "shift+tab", "up":
			m.fields.focus = (m.fields.focus - 1 + m.visible()) % m.visible()
			cmd := m.fields.focusCmd()
			return m, cmd
		case "enter":
			if m.busy {
				return m, nil
			}
			return m.submit(ctx, deps)
		}
	}
	cmd := m.fields.update(msg)
	return m, cmd
}

func (m authModel) submit(ctx context.Context, deps Deps) (authModel, tea.Cmd) {
	username := m.fields.value(authUsername)
	password := m.fields.inputs[authPassword].Value()
	if username == "" || password == "" {
		m.err = "Username and password are required."
		return m, nil
	}
	m.err, m.status = "", ""
	m.busy = true

	if !m.registering {
		return m, loginCmd(ctx, deps.Users, username, password)
	}
	return m, registerCmd(ctx, deps.Users, usecases.RegisterInput{
		Username:        username,
		Password:        password,
		ConfirmPassword: m.fields.inputs[authConfirm].Value(),
		Contact:         m.fields.value(authContact),
	})
}

func (m authModel) View() string {
	var b strings.Builder
	title := "Sign in"
	hint := "enter: sign in · ctrl+n: create account · esc: quit"
	if m.registering {
		title = "Create account"
		hint = "enter: register · ctrl+n: back to sign in · esc: quit"
	}
	b.WriteString(titleStyle.Render("SIARA · "+title) + "\n\n")

	g := m.fields
	g.labels = g.labels[:m.visible()]
	g.inputs = g.inputs[:m.visible()]
	b.WriteString(g.view())

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + successStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(hint))
	return panel(b.String())
}

func registerError(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "That username is already taken."
	case errors.Is(err, domain.ErrInvalidInput):
		return "Username is required and both passwords must match."
	default:
		return err.Error()
	}
}
