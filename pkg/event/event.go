// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Control transition event types
const (
	EngineStarted         Type = "engine_started"
	EngineStopped         Type = "engine_stopped"
	ThrottleTargetChanged Type = "throttle_target_changed"
	FlapsChanged          Type = "flaps_changed"
	BrakesChanged         Type = "brakes_changed"
	SimulationStarted     Type = "simulation_started"
	SimulationStopped     Type = "simulation_stopped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

// unsubscribe removes the handler registered under id
func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Publish sends an event to all subscribed handlers.
// A nil bus drops the event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := append([]subscriber(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// EngineEvent is published when the engine run state flips
type EngineEvent struct {
	BaseEvent
	Running bool
}

// NewEngineEvent creates a new engine event
func NewEngineEvent(source interface{}, running bool) *EngineEvent {
	eventType := EngineStopped
	if running {
		eventType = EngineStarted
	}
	return &EngineEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Running: running,
	}
}

// ActuatorEvent is published when a discrete actuator command changes
// (throttle target, flap setting, brake torque)
type ActuatorEvent struct {
	BaseEvent
	Previous float64
	Current  float64
}

// NewActuatorEvent creates a new actuator event
func NewActuatorEvent(eventType Type, source interface{}, previous, current float64) *ActuatorEvent {
	return &ActuatorEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Previous: previous,
		Current:  current,
	}
}
