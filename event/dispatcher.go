package event

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// Listener reacts to a dispatched event.
type Listener interface {
	Handle(ctx context.Context, ev Event) error
}

// ListenerFunc adapts a plain func to a Listener.
type ListenerFunc func(ctx context.Context, ev Event) error

func (f ListenerFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

type entry struct {
	id       uint64
	priority int
	listener Listener
}

// Dispatcher routes events to the listeners registered for their name.
// It is safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	seq       uint64
	listeners map[string][]entry
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]entry)}
}

// AddListener registers l for the named event. Higher priorities run
// first. The returned func removes the registration.
func (d *Dispatcher) AddListener(name string, l Listener, priority int) (remove func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	id := d.seq

	list := append(d.listeners[name], entry{id: id, priority: priority, listener: l})
	slices.SortStableFunc(list, func(a, b entry) int {
		return cmp.Compare(b.priority, a.priority)
	})
	d.listeners[name] = list

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(name, id) })
	}
}

// AddListenerFunc is AddListener for a plain func.
func (d *Dispatcher) AddListenerFunc(name string, fn func(ctx context.Context, ev Event) error, priority int) (remove func()) {
	return d.AddListener(name, ListenerFunc(fn), priority)
}

// RemoveListeners drops every listener registered for name.
func (d *Dispatcher) RemoveListeners(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, name)
}

// HasListeners reports whether anything listens on name.
func (d *Dispatcher) HasListeners(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.listeners[name]) > 0
}

// Listeners returns the listeners for name in the order they run.
func (d *Dispatcher) Listeners(name string) []Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Listener, 0, len(d.listeners[name]))
	for _, e := range d.listeners[name] {
		out = append(out, e.listener)
	}

	return out
}

// Dispatch hands ev to its listeners until one fails or stops propagation.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	listeners := d.Listeners(ev.Name())

	stopper, _ := ev.(Stopper)
	for _, l := range listeners {
		if stopper != nil && stopper.PropagationStopped() {
			return nil
		}

		if err := l.Handle(ctx, ev); err != nil {
			return fmt.Errorf("%s listener: %w", ev.Name(), err)
		}
	}

	return nil
}

func (d *Dispatcher) remove(name string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[name] = slices.DeleteFunc(d.listeners[name], func(e entry) bool {
		return e.id == id
	})
	if len(d.listeners[name]) == 0 {
		delete(d.listeners, name)
	}
}
