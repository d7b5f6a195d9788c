package notify

import (
	"testing"
	"time"
)

func TestPublishReachesSubscribers(t *testing.T) {
	n := NewNotifier()

	var got []Notice
	n.Subscribe(func(notice Notice) { got = append(got, notice) })
	n.Subscribe(func(notice Notice) { got = append(got, notice) })

	n.Publish(Notice{Message: "hello", Timeout: time.Second})

	if len(got) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(got))
	}
	for _, notice := range got {
		if notice.Message != "hello" || notice.Timeout != time.Second {
			t.Errorf("notice = %+v", notice)
		}
	}
}

func TestPublishDefaultsTimeout(t *testing.T) {
	n := NewNotifier()

	var got Notice
	n.Subscribe(func(notice Notice) { got = notice })
	n.Publish(Notice{Message: "x"})

	if got.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", got.Timeout, DefaultTimeout)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	n := NewNotifier()
	n.Publish(Notice{Message: "nobody listening"}) // must not panic
}

func TestUnsubscribe(t *testing.T) {
	n := NewNotifier()

	calls := 0
	sub := n.Subscribe(func(Notice) { calls++ })

	n.Info("one")
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent
	n.Info("two")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestInfoIsOverwritable(t *testing.T) {
	n := NewNotifier()

	var got Notice
	n.Subscribe(func(notice Notice) { got = notice })
	n.Info("theme: Ocean")

	if !got.Overwritable {
		t.Error("Info notice not overwritable")
	}
}
