package events

import (
	"errors"
	"log/slog"
	"testing"
)

func collect(types ...string) (*ObserverFunc, *[]Event) {
	var got []Event
	obs := &ObserverFunc{
		ObserverName: "collector",
		Types:        types,
		Fn: func(event Event) error {
			got = append(got, event)
			return nil
		},
	}
	return obs, &got
}

func TestDispatcher_DispatchFiltersByType(t *testing.T) {
	d := NewDispatcher(slog.Default())
	obs, got := collect(TypeWishlistChanged)
	d.Register(obs)

	d.Dispatch(Event{Type: TypeCollectionChanged, Data: QuantityChange{CardID: 1}})
	d.Dispatch(Event{Type: TypeWishlistChanged, Data: WishlistChange{CardID: 2, InWishlist: true}})

	if len(*got) != 1 {
		t.Fatalf("got %d events, want 1", len(*got))
	}
	change, ok := (*got)[0].Data.(WishlistChange)
	if !ok || change.CardID != 2 || !change.InWishlist {
		t.Errorf("unexpected payload: %+v", (*got)[0].Data)
	}
}

func TestDispatcher_Unregister(t *testing.T) {
	d := NewDispatcher(nil)
	obs, got := collect()
	d.Register(obs)
	d.Unregister(obs)

	d.Dispatch(Event{Type: TypeSessionExpired})

	if len(*got) != 0 {
		t.Errorf("unregistered observer still received %d events", len(*got))
	}
}

func TestDispatcher_ObserverErrorDoesNotStopDelivery(t *testing.T) {
	d := NewDispatcher(slog.Default())
	failing := &ObserverFunc{
		ObserverName: "failing",
		Fn:           func(Event) error { return errors.New("boom") },
	}
	obs, got := collect()
	d.Register(failing)
	d.Register(obs)

	d.Dispatch(Event{Type: TypeCollectionReloaded, Data: ReloadResult{Cards: 10}})

	if len(*got) != 1 {
		t.Errorf("second observer got %d events, want 1", len(*got))
	}
}

func TestObserverFunc_ShouldHandle(t *testing.T) {
	all := &ObserverFunc{ObserverName: "all", Fn: func(Event) error { return nil }}
	if !all.ShouldHandle(TypeCollectionChanged) {
		t.Error("observer with no type list should handle everything")
	}

	only := &ObserverFunc{ObserverName: "only", Types: []string{TypeSessionExpired}, Fn: func(Event) error { return nil }}
	if only.ShouldHandle(TypeCollectionChanged) {
		t.Error("observer should not handle unlisted type")
	}
}
