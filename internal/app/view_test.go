package app

import (
	"testing"
	"time"

	"github.com/dshills/lectern/internal/notify"
)

func TestViewNavigationClosesOverlays(t *testing.T) {
	v := NewView()

	v.ToggleVisible()
	v.OpenMenu()
	v.Navigate("/exams")

	if v.HelpVisible() {
		t.Error("help still visible after navigation")
	}
	if v.Route() != "/exams" {
		t.Errorf("route = %q, want /exams", v.Route())
	}
}

func TestViewHelpToggle(t *testing.T) {
	v := NewView()

	v.ToggleVisible()
	if !v.HelpVisible() {
		t.Error("help not visible after toggle")
	}
	v.ToggleVisible()
	if v.HelpVisible() {
		t.Error("help visible after second toggle")
	}
}

func TestShowNoticeOverwritePolicy(t *testing.T) {
	v := NewView()
	now := time.Now()

	v.ShowNotice(notify.Notice{Message: "first", Overwritable: true, Timeout: time.Minute})
	v.ShowNotice(notify.Notice{Message: "second", Overwritable: true, Timeout: time.Minute})
	if got := v.activeNotice(now); got != "second" {
		t.Errorf("notice = %q, want second (overwritable replaced)", got)
	}

	v.ShowNotice(notify.Notice{Message: "sticky", Overwritable: false, Timeout: time.Minute})
	v.ShowNotice(notify.Notice{Message: "late", Overwritable: true, Timeout: time.Minute})
	if got := v.activeNotice(now); got != "sticky" {
		t.Errorf("notice = %q, want sticky (non-overwritable holds)", got)
	}
}

func TestActiveNoticeExpires(t *testing.T) {
	v := NewView()

	v.ShowNotice(notify.Notice{Message: "gone", Timeout: time.Millisecond})
	if got := v.activeNotice(time.Now().Add(time.Second)); got != "" {
		t.Errorf("expired notice still active: %q", got)
	}
}
