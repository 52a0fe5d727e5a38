package live

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func receive(t *testing.T, ch <-chan struct{}) bool {
	t.Helper()
	select {
	case _, ok := <-ch:
		return ok
	case <-time.After(time.Second):
		return false
	}
}

func TestLocalBrokerDeliversPerOwner(t *testing.T) {
	b := NewLocalBroker()
	ctx := context.Background()

	alice, cancelA := b.Subscribe(1)
	defer cancelA()
	bob, cancelB := b.Subscribe(2)
	defer cancelB()

	b.Publish(ctx, 1)

	if !receive(t, alice) {
		t.Fatal("expected alice to be notified")
	}
	select {
	case <-bob:
		t.Error("expected bob not to be notified")
	default:
	}
}

func TestLocalBrokerCoalesces(t *testing.T) {
	b := NewLocalBroker()
	ctx := context.Background()

	ch, cancel := b.Subscribe(1)
	defer cancel()

	for range 5 {
		b.Publish(ctx, 1)
	}

	if !receive(t, ch) {
		t.Fatal("expected a notification")
	}
	select {
	case <-ch:
		t.Error("expected notifications to coalesce into one")
	default:
	}
}

func TestLocalBrokerCancel(t *testing.T) {
	b := NewLocalBroker()

	ch, cancel := b.Subscribe(7)
	if b.Subscribers(7) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.Subscribers(7))
	}

	cancel()
	cancel()

	if b.Subscribers(7) != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.Subscribers(7))
	}
	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}

	// Publishing after cancel must not panic.
	b.Publish(context.Background(), 7)
}

func TestOwnerCodec(t *testing.T) {
	tests := []struct {
		payload string
		want    int64
		wantErr bool
	}{
		{encodeOwner(42), 42, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := decodeOwner(tt.payload)
		if (err != nil) != tt.wantErr {
			t.Errorf("decodeOwner(%q) error = %v, wantErr %v", tt.payload, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("decodeOwner(%q) = %d, want %d", tt.payload, got, tt.want)
		}
	}
}

func TestRedisBrokerFallsBackToLocal(t *testing.T) {
	// Nothing listens on this port; publishing fails fast.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	b := NewRedisBroker(client, "")
	ch, cancel := b.Subscribe(3)
	defer cancel()

	if err := b.Publish(context.Background(), 3); err == nil {
		t.Fatal("expected publish error without a server")
	}
	if !receive(t, ch) {
		t.Error("expected local subscriber to be notified anyway")
	}
}
