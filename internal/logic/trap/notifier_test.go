package trap

import (
	"testing"
	"time"
)

func TestNotifier_SubscribeAndReceive(t *testing.T) {
	n := NewNotifier()
	ch, unsub := n.Subscribe()
	defer unsub()

	n.Publish(ModeChanged{From: ModeIdle, To: ModePreview})

	select {
	case evt := <-ch:
		mc, ok := evt.(ModeChanged)
		if !ok {
			t.Fatalf("event = %T, want ModeChanged", evt)
		}
		if mc.From != ModeIdle || mc.To != ModePreview {
			t.Errorf("transition = %s->%s, want idle->preview", mc.From, mc.To)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNotifier_MultipleSubscribers(t *testing.T) {
	n := NewNotifier()
	ch1, unsub1 := n.Subscribe()
	defer unsub1()
	ch2, unsub2 := n.Subscribe()
	defer unsub2()

	n.Publish(ImageCaptured{Path: "/tmp/a.jpeg", Taken: time.Now(), Mode: ModeRecording})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			ic, ok := evt.(ImageCaptured)
			if !ok {
				t.Fatalf("subscriber %d: event = %T, want ImageCaptured", i, evt)
			}
			if ic.Path != "/tmp/a.jpeg" {
				t.Errorf("subscriber %d: path = %q", i, ic.Path)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never got the event", i)
		}
	}
}

func TestNotifier_UnsubscribeClosesChannel(t *testing.T) {
	n := NewNotifier()
	ch, unsub := n.Subscribe()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}
}

func TestNotifier_FullChannelDropsEvent(t *testing.T) {
	n := NewNotifier()
	ch, unsub := n.Subscribe()
	defer unsub()

	for i := 0; i < eventBuffer; i++ {
		n.Publish(ModeChanged{From: ModeIdle, To: ModePreview})
	}

	// Must not block or panic; the overflow event is dropped.
	n.Publish(ModeChanged{From: ModePreview, To: ModeIdle})

	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			if count != eventBuffer {
				t.Errorf("expected %d buffered events, got %d", eventBuffer, count)
			}
			return
		}
	}
}

func TestNotifier_PublishAfterUnsubscribeDoesNotPanic(t *testing.T) {
	n := NewNotifier()
	_, unsub := n.Subscribe()
	unsub()

	n.Publish(CaptureFailed{})
}
