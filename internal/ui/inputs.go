package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputGroup is a vertical stack of labeled text inputs with one focused.
type inputGroup struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newInputGroup(labels ...string) inputGroup {
	g := inputGroup{labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i := range g.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 500
		g.inputs[i] = ti
	}
	return g
}

func (g *inputGroup) focusCmd() tea.Cmd {
	for i := range g.inputs {
		g.inputs[i].Blur()
	}
	if len(g.inputs) == 0 {
		return nil
	}
	return g.inputs[g.focus].Focus()
}

func (g *inputGroup) next() tea.Cmd {
	g.focus = (g.focus + 1) % len(g.inputs)
	return g.focusCmd()
}

func (g *inputGroup) prev() tea.Cmd {
	g.focus = (g.focus - 1 + len(g.inputs)) % len(g.inputs)
	return g.focusCmd()
}

func (g *inputGroup) value(i int) string {
	return strings.TrimSpace(g.inputs[i].Value())
}

func (g *inputGroup) set(i int, v string) {
	g.inputs[i].SetValue(v)
	g.inputs[i].CursorEnd()
}

func (g *inputGroup) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	g.inputs[g.focus], cmd = g.inputs[g.focus].Update(msg)
	return cmd
}

func (g inputGroup) view() string {
	var b strings.Builder
	for i, ti := range g.inputs {
		label := g.labels[i]
		if i == g.focus {
			label = accentStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		b.WriteString(label + "\n" + ti.View() + "\n")
	}
	return b.String()
}
