package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"oficios_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncDispatchesToSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var calls int
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("other.happened", HandlerFunc(func(context.Context, Event) error {
		t.Error("handler for unrelated event must not run")
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

func TestPublishSyncReturnsFirstErrorAndRunsAll(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	first := errors.New("first failure")
	var secondRan bool
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		return first
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		secondRan = true
		return errors.New("second failure")
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	if !errors.Is(err, first) {
		t.Fatalf("expected first error, got %v", err)
	}
	if !secondRan {
		t.Fatal("later handlers must still run after a failure")
	}
}

func TestPublishIsAsynchronousAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		panic("handler blew up")
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		wg.Done()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler after a panicking one never ran")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody.listening"})
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody.listening"}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}
