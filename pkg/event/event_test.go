// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
)

func TestBus_PublishReachesSubscribersOfType(t *testing.T) {
	bus := NewEventBus()

	var started, stopped int
	bus.Subscribe(EngineStarted, func(e Event) { started++ })
	bus.Subscribe(EngineStarted, func(e Event) { started++ })
	bus.Subscribe(EngineStopped, func(e Event) { stopped++ })

	bus.Publish(NewEngineEvent(nil, true))

	if started != 2 {
		t.Errorf("expected both engine_started handlers to run, got %d", started)
	}
	if stopped != 0 {
		t.Errorf("engine_stopped handler should not run, got %d", stopped)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(NewActuatorEvent(FlapsChanged, nil, 0, 0.3))
}

func TestBus_NilBusDropsEvents(t *testing.T) {
	var bus *Bus
	bus.Publish(NewEngineEvent(nil, false))
}

func TestBus_HandlersRunInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(BrakesChanged, func(e Event) { order = append(order, i) })
	}

	bus.Publish(NewActuatorEvent(BrakesChanged, nil, 0, 100))

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("unexpected handler order %v", order)
	}
}

func TestSubscription_Cancel(t *testing.T) {
	bus := NewEventBus()

	var first, second int
	sub := bus.Subscribe(ThrottleTargetChanged, func(e Event) { first++ })
	bus.Subscribe(ThrottleTargetChanged, func(e Event) { second++ })

	if sub.ID == 0 {
		t.Error("expected a non-zero subscription ID")
	}

	sub.Cancel()
	sub.Cancel()
	bus.Publish(NewActuatorEvent(ThrottleTargetChanged, nil, 0, 1))

	if first != 0 {
		t.Errorf("cancelled handler ran %d times", first)
	}
	if second != 1 {
		t.Errorf("remaining handler should run once, got %d", second)
	}
}

func TestSubscription_CancelLastRemovesType(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(SimulationStarted, func(e Event) {})
	sub.Cancel()

	bus.mu.RLock()
	_, ok := bus.handlers[SimulationStarted]
	bus.mu.RUnlock()
	if ok {
		t.Error("expected empty handler list to be removed")
	}
}

func TestBus_HandlerMaySubscribe(t *testing.T) {
	bus := NewEventBus()
	var late int
	bus.Subscribe(EngineStarted, func(e Event) {
		bus.Subscribe(EngineStarted, func(e Event) { late++ })
	})

	bus.Publish(NewEngineEvent(nil, true))
	if late != 0 {
		t.Errorf("handler added during publish should wait for the next event, ran %d", late)
	}

	bus.Publish(NewEngineEvent(nil, true))
	if late != 1 {
		t.Errorf("expected late handler to run once, got %d", late)
	}
}

func TestNewEngineEvent(t *testing.T) {
	source := "aircraft"

	on := NewEngineEvent(source, true)
	if on.GetType() != EngineStarted || !on.Running {
		t.Errorf("unexpected start event %+v", on)
	}
	if on.GetSource() != source {
		t.Errorf("expected source %q, got %v", source, on.GetSource())
	}

	off := NewEngineEvent(source, false)
	if off.GetType() != EngineStopped || off.Running {
		t.Errorf("unexpected stop event %+v", off)
	}
}

func TestNewActuatorEvent(t *testing.T) {
	e := NewActuatorEvent(FlapsChanged, nil, 0, 0.3)
	if e.GetType() != FlapsChanged {
		t.Errorf("expected flaps_changed, got %s", e.GetType())
	}
	if e.Previous != 0 || e.Current != 0.3 {
		t.Errorf("unexpected values %v -> %v", e.Previous, e.Current)
	}

	var received Event
	bus := NewEventBus()
	bus.Subscribe(FlapsChanged, func(ev Event) { received = ev })
	bus.Publish(e)

	actuator, ok := received.(*ActuatorEvent)
	if !ok {
		t.Fatalf("expected *ActuatorEvent, got %T", received)
	}
	if actuator.Current != 0.3 {
		t.Errorf("expected current 0.3, got %v", actuator.Current)
	}
}

func TestBus_ConcurrentSubscribePublish(t *testing.T) {
	bus := NewEventBus()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(BrakesChanged, func(e Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			bus.Publish(NewActuatorEvent(BrakesChanged, nil, 0, 100))
			sub.Cancel()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count < 8 {
		t.Errorf("each publisher should reach at least its own handler, got %d deliveries", count)
	}
}
