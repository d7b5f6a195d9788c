package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lectern/internal/appearance"
	"github.com/dshills/lectern/internal/input/shortcut"
	"github.com/dshills/lectern/internal/notify"
	"github.com/dshills/lectern/internal/term"
)

// View holds the render model: the current route, the timetable
// orientation, overlay visibility, and the active notice. It
// implements every UI surface the action dispatcher drives.
type View struct {
	mu sync.Mutex

	route         string
	faculty       string
	horizontal    bool
	helpVisible   bool
	downloadsOpen bool
	focusTarget   string

	notice      notify.Notice
	noticeUntil time.Time
}

// NewView creates a view at the default route.
func NewView() *View {
	return &View{route: "/timetable", horizontal: true}
}

// Navigate implements action.Router. Navigation closes transient
// surfaces.
func (v *View) Navigate(route string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.route = route
	v.downloadsOpen = false
	v.helpVisible = false
}

// Focus implements action.Focuser.
func (v *View) Focus(target string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.focusTarget = target
}

// ToggleOrientation implements action.Timetable.
func (v *View) ToggleOrientation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.horizontal = !v.horizontal
}

// OpenMenu implements action.Downloads.
func (v *View) OpenMenu() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.downloadsOpen = true
}

// ToggleVisible implements action.HelpView.
func (v *View) ToggleVisible() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.helpVisible = !v.helpVisible
}

// SetFaculty sets the faculty shown in the status bar.
func (v *View) SetFaculty(faculty string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.faculty = faculty
}

// CloseOverlays hides the help overlay and the download menu.
func (v *View) CloseOverlays() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.helpVisible = false
	v.downloadsOpen = false
}

// HelpVisible reports whether the help overlay is showing.
func (v *View) HelpVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.helpVisible
}

// Route returns the current route.
func (v *View) Route() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.route
}

// ShowNotice installs a notice. An overwritable incumbent is always
// replaced; a non-overwritable one keeps the slot until it expires.
func (v *View) ShowNotice(n notify.Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if v.notice.Message != "" && !v.notice.Overwritable && now.Before(v.noticeUntil) {
		return
	}
	v.notice = n
	v.noticeUntil = now.Add(n.Timeout)
}

// activeNotice returns the notice text if one is still live.
func (v *View) activeNotice(now time.Time) string {
	if v.notice.Message == "" || now.After(v.noticeUntil) {
		return ""
	}
	return v.notice.Message
}

// Render draws the full screen: a status bar tinted with the active
// theme accent, the body for the current route, the help overlay when
// visible, and the notice line.
func (v *View) Render(t *term.Terminal, snap appearance.Snapshot, catalog *appearance.Catalog, registry *shortcut.Registry) {
	v.mu.Lock()
	defer v.mu.Unlock()

	t.Clear()
	_, height := t.Size()

	theme, _ := catalog.ByID(snap.Theme)
	accent := theme.AccentFor(snap.Mode)
	barStyle := term.StyleFromHex(appearance.TextColor(accent), accent)

	t.FillRow(0, barStyle)
	orientation := "horizontal"
	if !v.horizontal {
		orientation = "vertical"
	}
	status := fmt.Sprintf("%s | %s (%s) | %s", v.route, theme.Name, snap.Mode, orientation)
	if v.faculty != "" {
		status += " | " + v.faculty
	}
	t.DrawText(1, 0, barStyle, status)

	body := term.StyleFromHex(accent, "")
	switch {
	case v.downloadsOpen:
		t.DrawText(2, 2, body, "Download timetable")
		t.DrawText(2, 3, body, "  [p] PDF   [i] iCal   [c] CSV")
	case v.helpVisible:
		v.renderHelp(t, body, registry)
	default:
		t.DrawText(2, 2, body, "Press ? for keyboard shortcuts")
		if v.focusTarget != "" {
			t.DrawText(2, 3, body, "Focus: "+v.focusTarget)
		}
	}

	if msg := v.activeNotice(time.Now()); msg != "" {
		t.DrawText(1, height-1, barStyle, msg)
	}

	t.Show()
}

// renderHelp draws the grouped shortcut listing.
func (v *View) renderHelp(t *term.Terminal, style tcell.Style, registry *shortcut.Registry) {
	row := 2
	for _, group := range shortcut.Project(registry.ListActive()) {
		t.DrawText(2, row, style, string(group.Section))
		row++
		for _, b := range group.Bindings {
			t.DrawText(4, row, style, fmt.Sprintf("%-24s %s", shortcut.FormatShortcut(b), b.Description))
			row++
		}
		row++
	}
}
