package model

import "sync"

const (
	EventChange    = "change"
	EventBeginLoad = "beginLoad"
	EventLoad      = "load"
	EventError     = "error"
	EventInvalid   = "invalid"

	// EventAll subscribes to every event a node emits.
	EventAll = "all"
)

// ChangeEvent is the name of the event fired when attribute key changes.
func ChangeEvent(key string) string {
	return EventChange + ":" + key
}

// Event is delivered to handlers. Data depends on the event: the new value for
// change:<key>, the error for error, the field map or message for invalid.
type Event struct {
	Name    string
	Emitter Node
	Data    any
}

type Handler func(ev Event)

type subscription struct {
	id      int
	handler Handler
}

type emitter struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string][]subscription
}

// On registers h for event and returns a function that removes it.
func (e *emitter) On(event string, h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[string][]subscription)
	}

	e.nextID++
	id := e.nextID
	e.handlers[event] = append(e.handlers[event], subscription{id: id, handler: h})

	return func() { e.off(event, id) }
}

func (e *emitter) off(event string, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.handlers[event]
	for i, s := range subs {
		if s.id == id {
			e.handlers[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// trigger runs handlers on the calling goroutine. The handler list is copied
// first so handlers may subscribe or unsubscribe while being called.
func (e *emitter) trigger(from Node, name string, data any) {
	e.mu.RLock()
	subs := make([]subscription, 0, len(e.handlers[name])+len(e.handlers[EventAll]))
	subs = append(subs, e.handlers[name]...)
	subs = append(subs, e.handlers[EventAll]...)
	e.mu.RUnlock()

	ev := Event{Name: name, Emitter: from, Data: data}
	for _, s := range subs {
		s.handler(ev)
	}
}
