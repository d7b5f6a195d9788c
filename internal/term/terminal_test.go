package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lectern/internal/input/key"
)

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone), "b"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), "alt+x"},
		{"ctrl letter code", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), "ctrl+s"},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "up"},
		{"shift arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), "shift+left"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "escape"},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "f5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertKey(tt.ev)
			if !ok {
				t.Fatal("ConvertKey rejected the event")
			}
			if got.Spec() != tt.want {
				t.Errorf("Spec() = %q, want %q", got.Spec(), tt.want)
			}
		})
	}
}

func TestConvertKeyNamedFormsWin(t *testing.T) {
	// Enter and Tab share key codes with ctrl+m and ctrl+i; they must
	// come through as the named keys.
	tests := []struct {
		ev   *tcell.EventKey
		want key.Key
	}{
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.KeyEnter},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), key.KeyTab},
		{tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone), key.KeyBackspace},
	}

	for _, tt := range tests {
		got, ok := ConvertKey(tt.ev)
		if !ok || got.Key != tt.want {
			t.Errorf("ConvertKey(%v) = %v %v, want key %v", tt.ev.Key(), got.Key, ok, tt.want)
		}
	}
}

func TestConvertKeyRejectsUnmapped(t *testing.T) {
	if _, ok := ConvertKey(tcell.NewEventKey(tcell.KeyF40, 0, tcell.ModNone)); ok {
		t.Error("ConvertKey accepted a key with no shortcut representation")
	}
}

func TestStyleFromHex(t *testing.T) {
	style := StyleFromHex("#1b6ca8", "#000000")
	fg, bg, _ := style.Decompose()
	if fg == tcell.ColorDefault || bg == tcell.ColorDefault {
		t.Error("hex colors did not apply")
	}

	def := StyleFromHex("", "")
	fg, bg, _ = def.Decompose()
	if fg != tcell.ColorDefault || bg != tcell.ColorDefault {
		t.Error("empty colors must keep terminal defaults")
	}
}
