package changes_test

import (
	"context"
	"testing"
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/changes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveTick(t *testing.T, ch <-chan changes.Kind) (changes.Kind, bool) {
	t.Helper()
	select {
	case kind, ok := <-ch:
		return kind, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
		return "", false
	}
}

func TestSubscriberReceivesMatchingKinds(t *testing.T) {
	broker := changes.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx, changes.KindAccount)
	broker.Publish(changes.KindAccount)

	kind, ok := receiveTick(t, ch)
	require.True(t, ok)
	assert.Equal(t, changes.KindAccount, kind)
}

func TestSubscriberIgnoresOtherKinds(t *testing.T) {
	broker := changes.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx, changes.KindAccount)
	broker.Publish(changes.KindCurrency)

	select {
	case kind := <-ch:
		t.Fatalf("unexpected tick %q", kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	broker := changes.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx, changes.KindTransaction)

	// Nobody is draining; extra ticks coalesce into the single pending one.
	for i := 0; i < 100; i++ {
		broker.Publish(changes.KindTransaction)
	}

	_, ok := receiveTick(t, ch)
	require.True(t, ok)

	select {
	case kind := <-ch:
		t.Fatalf("expected ticks to coalesce, got extra %q", kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannelClosesOnCancel(t *testing.T) {
	broker := changes.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch := broker.Subscribe(ctx, changes.KindAccount)
	cancel()

	for {
		kind, ok := receiveTick(t, ch)
		if !ok {
			break
		}
		_ = kind
	}

	// Publishing after removal must not panic or deliver.
	broker.Publish(changes.KindAccount)
}

func TestMultipleSubscribers(t *testing.T) {
	broker := changes.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := broker.Subscribe(ctx, changes.KindProfile)
	second := broker.Subscribe(ctx, changes.KindProfile, changes.KindAccount)

	broker.Publish(changes.KindProfile)

	_, ok := receiveTick(t, first)
	require.True(t, ok)
	_, ok = receiveTick(t, second)
	require.True(t, ok)
}
