package realtime

import "testing"

func TestBroadcaster_PublishReachesSubscribers(t *testing.T) {
	b := NewBroadcaster[int]()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(7)

	if got := <-a; got != 7 {
		t.Errorf("subscriber a got %d, want 7", got)
	}
	if got := <-c; got != 7 {
		t.Errorf("subscriber c got %d, want 7", got)
	}
}

func TestBroadcaster_PublishDoesNotBlockOnLaggingSubscriber(t *testing.T) {
	b := NewBroadcaster[int]()
	ch := b.Subscribe()

	for i := 0; i < DefaultBuffer*3; i++ {
		b.Publish(i)
	}

	if len(ch) != DefaultBuffer {
		t.Errorf("buffered = %d, want %d", len(ch), DefaultBuffer)
	}
	if first := <-ch; first != 0 {
		t.Errorf("first value = %d, want 0", first)
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster[string]()
	ch := b.Subscribe()

	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}

	// Second unsubscribe and publish must not panic.
	b.Unsubscribe(ch)
	b.Publish("after")
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster[int]()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Close()

	for _, ch := range []chan int{a, c} {
		if _, ok := <-ch; ok {
			t.Error("channel should be closed")
		}
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}
