package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/siara/internal/adapters/sqlite"
	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/pickstore"
	"github.com/samirrijal/siara/internal/core/usecases"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "ui.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	return Deps{
		Users:   usecases.NewUserService(sqlite.NewUserRepo(db), bcrypt.MinCost),
		Reports: usecases.NewReportService(sqlite.NewLostAnimalRepo(db), sqlite.NewFoundReportRepo(db), nil, nil),
		Picks:   pickstore.New(),
		MapURL:  "http://127.0.0.1:1/map.html",
		OpenURL: func(string) error { return nil },
	}
}

func press(s string) tea.KeyMsg {
	switch s {
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out, cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return update(t, m, cmd())
}

func signedIn(t *testing.T, deps Deps, username string) Model {
	t.Helper()
	ctx := context.Background()
	_, err := deps.Users.Register(ctx, usecases.RegisterInput{
		Username: username, Password: "pw", ConfirmPassword: "pw",
	})
	if err != nil {
		t.Fatal(err)
	}

	m := New(ctx, deps)
	m.auth.fields.set(authUsername, username)
	m.auth.fields.set(authPassword, "pw")
	m, cmd := update(t, m, press("enter"))
	m, cmd = run(t, m, cmd) // loggedInMsg
	if m.screen != screenHome {
		t.Fatalf("expected home screen after login, got %d (err %q)", m.screen, m.auth.err)
	}
	m, _ = run(t, m, cmd) // reportsLoadedMsg
	return m
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	deps := newTestDeps(t)
	m := New(context.Background(), deps)

	m, _ = update(t, m, press("ctrl+n"))
	if !m.auth.registering {
		t.Fatal("expected registration mode")
	}
	m.auth.fields.set(authUsername, "ana")
	m.auth.fields.set(authPassword, "secret")
	m.auth.fields.set(authConfirm, "secret")
	m.auth.fields.set(authContact, "ana@example.org")

	m, cmd := update(t, m, press("enter"))
	m, _ = run(t, m, cmd)
	if m.auth.registering || m.auth.err != "" {
		t.Fatalf("registration failed: %q", m.auth.err)
	}

	m.auth.fields.set(authPassword, "wrong")
	m, cmd = update(t, m, press("enter"))
	m, _ = run(t, m, cmd)
	if m.screen != screenAuth || !strings.Contains(m.auth.err, "Invalid") {
		t.Fatalf("expected invalid credentials, got screen %d err %q", m.screen, m.auth.err)
	}

	m.auth.fields.set(authPassword, "secret")
	m, cmd = update(t, m, press("enter"))
	m, _ = run(t, m, cmd)
	if m.screen != screenHome || m.user == nil || m.user.Username != "ana" {
		t.Fatalf("expected signed-in home screen, got %d", m.screen)
	}
}

func TestAuth_DuplicateUsername(t *testing.T) {
	deps := newTestDeps(t)
	signedIn(t, deps, "ana")

	m := New(context.Background(), deps)
	m, _ = update(t, m, press("ctrl+n"))
	m.auth.fields.set(authUsername, "ana")
	m.auth.fields.set(authPassword, "x")
	m.auth.fields.set(authConfirm, "x")
	m, cmd := update(t, m, press("enter"))
	m, _ = run(t, m, cmd)
	if !strings.Contains(m.auth.err, "taken") {
		t.Errorf("expected username taken error, got %q", m.auth.err)
	}
}

func TestForm_PullPickBeforeAnyPick(t *testing.T) {
	deps := newTestDeps(t)
	f := newFormModel(domain.ReportLost, "u1", nil, nil)

	f, cmd := f.Update(context.Background(), deps, press("ctrl+p"))
	if cmd != nil {
		t.Error("expected no preview without a pick")
	}
	if !strings.Contains(f.err, "Click the map first") {
		t.Errorf("unexpected message %q", f.err)
	}
	if f.fields.value(f.latIdx()) != "" || f.fields.value(f.lonIdx()) != "" {
		t.Error("coordinate fields changed")
	}
}

func TestForm_PullPickNormalizesLongitude(t *testing.T) {
	deps := newTestDeps(t)
	deps.Picks.Set(-23.55, 190)
	f := newFormModel(domain.ReportFound, "u1", nil, nil)

	f, cmd := f.Update(context.Background(), deps, press("ctrl+p"))
	if got := f.fields.value(f.latIdx()); got != "-23.550000" {
		t.Errorf("lat field = %q", got)
	}
	if got := f.fields.value(f.lonIdx()); got != "-170.000000" {
		t.Errorf("lon field = %q", got)
	}
	if cmd == nil {
		t.Fatal("expected a preview command")
	}

	msg, ok := cmd().(previewMsg)
	if !ok {
		t.Fatal("expected previewMsg")
	}
	if !strings.Contains(msg.mapURL, "staticmap") {
		t.Errorf("unexpected preview URL %q", msg.mapURL)
	}
	f, _ = f.Update(context.Background(), deps, msg)
	if f.address == "" {
		t.Error("expected address placeholder")
	}
}

func TestForm_PreviewFailureKeepsAddressEmpty(t *testing.T) {
	deps := newTestDeps(t)
	f := newFormModel(domain.ReportLost, "u1", nil, nil)

	f, _ = f.Update(context.Background(), deps, previewMsg{mapURL: "u", err: errors.New("geocoder down")})
	if f.address != "" {
		t.Errorf("expected no address on failure, got %q", f.address)
	}
	if !strings.Contains(f.err, "geocoder down") {
		t.Errorf("expected preview error, got %q", f.err)
	}

	f, _ = f.Update(context.Background(), deps, previewMsg{mapURL: "u"})
	if f.address != "No address found for these coordinates." {
		t.Errorf("expected not-found placeholder, got %q", f.address)
	}
}

func TestForm_Coords(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
		want     bool
		wantErr  bool
	}{
		{"both empty", "", "", false, false},
		{"both set", "-23.55", "-46.63", true, false},
		{"only lat", "1", "", false, true},
		{"only lon", "", "1", false, true},
		{"not a number", "abc", "1", false, true},
		{"lat out of range", "91", "0", false, true},
		{"lon out of range", "0", "181", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFormModel(domain.ReportLost, "u1", nil, nil)
			f.fields.set(f.latIdx(), tt.lat)
			f.fields.set(f.lonIdx(), tt.lon)
			lat, lon, err := f.coords()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (lat != nil && lon != nil) != tt.want {
				t.Errorf("got coordinates %v/%v, want present=%v", lat, lon, tt.want)
			}
		})
	}
}

func TestForm_HalfCoordinatesRejectedOnSave(t *testing.T) {
	deps := newTestDeps(t)
	f := newFormModel(domain.ReportLost, "u1", nil, nil)
	f.fields.set(lostName, "Rex")
	f.fields.set(f.latIdx(), "1")

	f, cmd := f.Update(context.Background(), deps, press("ctrl+s"))
	if cmd != nil {
		t.Error("expected no save command")
	}
	if f.err != errHalfCoords.Error() {
		t.Errorf("unexpected error %q", f.err)
	}
}

func TestHome_CreateEditDeleteFlow(t *testing.T) {
	deps := newTestDeps(t)
	m := signedIn(t, deps, "ana")

	// New lost posting with picked coordinates.
	m, cmd := update(t, m, press("n"))
	m, _ = run(t, m, cmd)
	if m.screen != screenForm || m.form.typ != domain.ReportLost {
		t.Fatalf("expected lost form, got screen %d", m.screen)
	}
	deps.Picks.Set(-23.55, -46.63)
	m.form.fields.set(lostName, "Rex")
	m, _ = update(t, m, press("ctrl+p"))
	m, cmd = update(t, m, press("ctrl+s"))
	m, cmd = run(t, m, cmd) // savedMsg
	if m.screen != screenHome {
		t.Fatalf("expected home after save, got %d (err %q)", m.screen, m.form.err)
	}
	m, _ = run(t, m, cmd) // reportsLoadedMsg

	items := m.home.list.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(items))
	}
	it := items[0].(reportItem)
	if it.title != "Rex" || !it.mine || it.coords != "-23.550000, -46.630000" {
		t.Errorf("unexpected item %+v", it)
	}

	// Edit loads the record into the form.
	m, cmd = update(t, m, press("e"))
	m, cmd = run(t, m, cmd) // openFormMsg
	m, _ = run(t, m, cmd)   // recordLoadedMsg
	if m.screen != screenForm || m.form.editID != it.id {
		t.Fatalf("expected edit form for %s, got screen %d", it.id, m.screen)
	}
	if got := m.form.fields.value(lostName); got != "Rex" {
		t.Errorf("name field = %q", got)
	}
	m, _ = update(t, m, press("esc"))
	m, _ = run(t, m, func() tea.Msg { return closeFormMsg{} })
	if m.screen != screenHome {
		t.Fatalf("expected home after esc, got %d", m.screen)
	}

	// Delete asks for confirmation, then removes the selected posting.
	m, _ = update(t, m, press("d"))
	if m.home.confirm == nil || m.home.confirm.id != it.id {
		t.Fatal("expected delete confirmation for the selected posting")
	}
	m, cmd = update(t, m, press("y"))
	m, cmd = run(t, m, cmd) // deletedMsg
	if m.home.err != "" {
		t.Fatalf("delete failed: %s", m.home.err)
	}
	m, _ = run(t, m, cmd)
	if n := len(m.home.list.Items()); n != 0 {
		t.Errorf("expected empty list after delete, got %d", n)
	}
}

func TestHome_CannotEditOthersPostings(t *testing.T) {
	deps := newTestDeps(t)
	owner := signedIn(t, deps, "owner")
	if _, err := deps.Reports.CreateFound(context.Background(), owner.user.ID, usecases.FoundInput{Species: "cat"}); err != nil {
		t.Fatal(err)
	}

	m := signedIn(t, deps, "other")
	m, _ = update(t, m, press("e"))
	if !strings.Contains(m.home.err, "own postings") {
		t.Errorf("expected ownership error, got %q", m.home.err)
	}
	m, _ = update(t, m, press("d"))
	if m.home.confirm != nil {
		t.Error("delete confirmation shown for someone else's posting")
	}
}

func TestHome_OpenMap(t *testing.T) {
	deps := newTestDeps(t)
	var opened string
	deps.OpenURL = func(u string) error { opened = u; return nil }
	m := signedIn(t, deps, "ana")

	m, cmd := update(t, m, press("o"))
	m, _ = run(t, m, cmd)
	if opened != deps.MapURL {
		t.Errorf("opened %q, want %q", opened, deps.MapURL)
	}
	if !strings.Contains(m.home.status, "Map opened") {
		t.Errorf("unexpected status %q", m.home.status)
	}

	deps.OpenURL = func(string) error { return errors.New("no browser") }
	m.deps = deps
	m, cmd = update(t, m, press("o"))
	m, _ = run(t, m, cmd)
	if !strings.Contains(m.home.err, "no browser") {
		t.Errorf("expected browser error, got %q", m.home.err)
	}
}

func TestReportsChangedReloads(t *testing.T) {
	deps := newTestDeps(t)
	m := signedIn(t, deps, "ana")
	if _, err := deps.Reports.CreateLost(context.Background(), m.user.ID, usecases.LostInput{Name: "Mia"}); err != nil {
		t.Fatal(err)
	}

	m, cmd := update(t, m, ReportsChangedMsg{})
	m, _ = run(t, m, cmd)
	if n := len(m.home.list.Items()); n != 1 {
		t.Errorf("expected 1 posting after refresh, got %d", n)
	}
}
