package combat

import (
	"sync"
	"time"
)

// EventType indicates the category of a battle event.
type EventType string

const (
	EventBattleStarted     EventType = "BATTLE_STARTED"
	EventRoundStarted      EventType = "ROUND_STARTED"
	EventTurnStarted       EventType = "TURN_STARTED"
	EventTurnSkipped       EventType = "TURN_SKIPPED"
	EventActionExecuted    EventType = "ACTION_EXECUTED"
	EventActionUndone      EventType = "ACTION_UNDONE"
	EventCombatantDefeated EventType = "COMBATANT_DEFEATED"
	EventRoundEnded        EventType = "ROUND_ENDED"
	EventBattleEnded       EventType = "BATTLE_ENDED"
)

// Event is a state change other subsystems may react to: the websocket
// hub, the replay recorder, and logging all subscribe.
type Event struct {
	Type        EventType
	BattleID    string
	ActorID     string
	TargetID    string
	Round       int
	Turn        int
	Result      *ActionResult
	Description string
	Timestamp   time.Time
}

// Listener reacts to incoming events.
type Listener func(Event)

// EventBus is a synchronous publish/subscribe fan-out. Delivery happens on
// the publishing goroutine, in subscription order per listener set.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]typedListener
	nextHandle     int
}

type typedListener struct {
	handle   int
	callback Listener
}

// NewEventBus constructs a fresh event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]typedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], typedListener{
		handle:   handle,
		callback: listener,
	})
	return handle
}

// Unsubscribe removes the listener identified by the handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.callback(event)
	}
}
