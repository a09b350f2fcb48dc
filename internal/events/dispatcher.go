// Package events distributes domain events (collection changes, wishlist
// changes, session expiry) to registered observers. It replaces the ad hoc
// onUpdate callback props of the original mobile client with an explicit
// subscription model.
package events

import (
	"log/slog"
	"sync"
)

// Event types emitted by the companion.
const (
	TypeCollectionChanged  = "collection:changed"
	TypeCollectionReloaded = "collection:reloaded"
	TypeWishlistChanged    = "wishlist:changed"
	TypeSessionExpired     = "session:expired"
)

// QuantityChange is the payload of TypeCollectionChanged.
type QuantityChange struct {
	CardID     int  `json:"cardId"`
	OldNormal  int  `json:"oldNormal"`
	NewNormal  int  `json:"newNormal"`
	OldFoil    int  `json:"oldFoil"`
	NewFoil    int  `json:"newFoil"`
	RolledBack bool `json:"rolledBack"`
}

// WishlistChange is the payload of TypeWishlistChanged.
type WishlistChange struct {
	CardID     int  `json:"cardId"`
	InWishlist bool `json:"inWishlist"`
	RolledBack bool `json:"rolledBack"`
}

// ReloadResult is the payload of TypeCollectionReloaded.
type ReloadResult struct {
	Cards      int `json:"cards"`
	OwnedCards int `json:"ownedCards"`
	Wishlisted int `json:"wishlisted"`
}

// Event is a single domain event.
type Event struct {
	Type string
	Data any
}

// Observer receives dispatched events.
type Observer interface {
	// OnEvent is called for each event the observer accepts.
	OnEvent(event Event) error

	// Name identifies the observer in logs.
	Name() string

	// ShouldHandle filters event types the observer cares about.
	ShouldHandle(eventType string) bool
}

// Dispatcher fans events out to observers. Safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher. logger may be nil.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Register adds an observer for all future events it accepts.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	d.logger.Debug("observer registered", "observer", observer.Name())
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			d.logger.Debug("observer unregistered", "observer", observer.Name())
			return
		}
	}
}

// Dispatch notifies observers sequentially in registration order. Observer
// errors are logged and do not stop delivery to the rest.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			d.logger.Warn("observer failed",
				"observer", observer.Name(),
				"event", event.Type,
				"error", err)
		}
	}
}

// ObserverFunc adapts a function to the Observer interface, accepting only
// the listed event types (all types when none are listed).
type ObserverFunc struct {
	ObserverName string
	Types        []string
	Fn           func(event Event) error
}

func (o *ObserverFunc) OnEvent(event Event) error { return o.Fn(event) }

func (o *ObserverFunc) Name() string { return o.ObserverName }

func (o *ObserverFunc) ShouldHandle(eventType string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == eventType {
			return true
		}
	}
	return false
}
