package app

import (
	"github.com/dshills/lectern/internal/action"
	"github.com/dshills/lectern/internal/appearance"
	"github.com/dshills/lectern/internal/input/shortcut"
)

// konamiChord applies a surprise theme. It ships enabled; the
// description keeps the secret.
const konamiChord = "up up down down left right left right b a"

// defaultBindings is the stock binding set. quit requests event-loop
// shutdown.
func defaultBindings(d *action.Dispatcher, view *View, quit func()) []shortcut.Binding {
	return []shortcut.Binding{
		// Navigation
		{
			Keys:        "t",
			Section:     shortcut.SectionNavigation,
			Description: "Go to timetable",
			Handler:     d.Navigate(view, "/timetable"),
		},
		{
			Keys:        "e",
			Section:     shortcut.SectionNavigation,
			Description: "Go to exams",
			Handler:     d.Navigate(view, "/exams"),
		},
		{
			Keys:        "ctrl+f",
			Section:     shortcut.SectionNavigation,
			Description: "Focus course search",
			Handler:     d.Focus(view, "course-search"),
		},
		{
			Alternates:  []string{"?", "f1"},
			Section:     shortcut.SectionNavigation,
			Description: "Keyboard shortcuts",
			Handler:     d.ShowHelp(view),
		},
		{
			Keys:        "escape",
			Section:     shortcut.SectionNavigation,
			Description: "Close open panel",
			Handler:     view.CloseOverlays,
		},
		{
			Keys:        "ctrl+q",
			Section:     shortcut.SectionNavigation,
			Description: "Quit",
			Handler:     quit,
		},

		// Appearance
		{
			Keys:        "alt+right",
			Section:     shortcut.SectionAppearance,
			Description: "Next theme",
			Handler:     d.CycleTheme(appearance.Forward),
		},
		{
			Keys:        "alt+left",
			Section:     shortcut.SectionAppearance,
			Description: "Previous theme",
			Handler:     d.CycleTheme(appearance.Backward),
		},
		{
			Keys:        "alt+n",
			Section:     shortcut.SectionAppearance,
			Description: "Toggle night mode",
			Handler:     d.ToggleNightMode(),
		},
		{
			Keys:        konamiChord,
			Section:     shortcut.SectionAppearance,
			Description: "Try it",
			Handler:     d.RandomTheme(),
		},

		// Timetable
		{
			Keys:        "o",
			Section:     shortcut.SectionTimetable,
			Description: "Flip timetable orientation",
			Handler:     d.ToggleOrientation(view),
		},
		{
			Keys:        "ctrl+d",
			Section:     shortcut.SectionTimetable,
			Description: "Download timetable",
			Handler:     d.OpenDownloadMenu(view),
		},
	}
}
