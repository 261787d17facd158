package event_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/tmdb/event"
)

func record(order *[]string, name string) event.ListenerFunc {
	return func(context.Context, event.Event) error {
		*order = append(*order, name)
		return nil
	}
}

func TestDispatcher_PriorityOrder(t *testing.T) {
	d := event.NewDispatcher()

	var order []string
	d.AddListener(event.NameResponse, record(&order, "low"), -10)
	d.AddListener(event.NameResponse, record(&order, "first-default"), 0)
	d.AddListener(event.NameResponse, record(&order, "high"), 100)
	d.AddListener(event.NameResponse, record(&order, "second-default"), 0)

	if err := d.Dispatch(t.Context(), &event.Response{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	exp := []string{"high", "first-default", "second-default", "low"}
	if diff := cmp.Diff(exp, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcher_StopPropagation(t *testing.T) {
	d := event.NewDispatcher()

	var order []string
	d.AddListenerFunc(event.NameBeforeRequest, func(_ context.Context, ev event.Event) error {
		order = append(order, "stopper")
		ev.(*event.BeforeRequest).StopPropagation()
		return nil
	}, 10)
	d.AddListener(event.NameBeforeRequest, record(&order, "never"), 0)

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if err := d.Dispatch(t.Context(), &event.BeforeRequest{Request: req}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if diff := cmp.Diff([]string{"stopper"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcher_ListenerError(t *testing.T) {
	d := event.NewDispatcher()
	boom := errors.New("boom")

	var order []string
	d.AddListenerFunc(event.NameResponse, func(context.Context, event.Event) error { return boom }, 1)
	d.AddListener(event.NameResponse, record(&order, "after"), 0)

	err := d.Dispatch(t.Context(), &event.Response{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(order) != 0 {
		t.Errorf("listeners after a failure must not run, got %v", order)
	}
}

func TestDispatcher_Remove(t *testing.T) {
	d := event.NewDispatcher()

	var order []string
	remove := d.AddListener(event.NameResponse, record(&order, "a"), 0)
	d.AddListener(event.NameAPIError, record(&order, "b"), 0)

	if !d.HasListeners(event.NameResponse) {
		t.Fatal("expected listener registered")
	}

	remove()
	remove() // second call is a no-op

	if d.HasListeners(event.NameResponse) {
		t.Error("expected response listeners removed")
	}

	d.RemoveListeners(event.NameAPIError)
	if d.HasListeners(event.NameAPIError) {
		t.Error("expected api error listeners removed")
	}
}

func TestDispatcher_Concurrent(t *testing.T) {
	d := event.NewDispatcher()

	var mu sync.Mutex
	var count int
	d.AddListenerFunc(event.NameResponse, func(context.Context, event.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}, 0)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), &event.Response{})
		}()
		go func() {
			defer wg.Done()
			remove := d.AddListenerFunc(event.NameAPIError, func(context.Context, event.Event) error { return nil }, 0)
			remove()
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("expected 50 dispatches, got %d", count)
	}
}
