// Package collection reconciles the card catalog, the user's owned
// quantities, and the wishlist into a single set of per-card view-models,
// and keeps that set consistent under optimistic local edits.
//
// All mutations go through the Reconciler. An edit is applied locally
// first, confirmed or rolled back when the server answers, and conflicts
// where the server already holds the intended state are absorbed as
// confirmations. A full Reload discards every optimistic remnant and is
// the recovery path for anything the state machine cannot resolve.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/lorcana-companion/internal/events"
	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

var (
	// ErrUnknownCard means the card id is not part of the reconciled set.
	ErrUnknownCard = errors.New("collection: unknown card")

	// ErrOperationPending means an operation of the same kind is already
	// in flight for this card. The caller may retry after it resolves;
	// the request is rejected, never silently dropped.
	ErrOperationPending = errors.New("collection: operation already pending for card")
)

// Catalog is the slice of the remote client the reconciler uses.
type Catalog interface {
	ListSets(ctx context.Context) ([]lorcana.Set, error)
	ListSetCards(ctx context.Context, setID int) ([]lorcana.Card, error)
	ListUserCards(ctx context.Context) ([]lorcana.OwnedQuantity, error)
	SetOwnedQuantity(ctx context.Context, cardID, normal, foil int) error
	ListWishlist(ctx context.Context) ([]lorcana.Card, error)
	AddToWishlist(ctx context.Context, cardID int) error
	RemoveFromWishlist(ctx context.Context, cardID int) error
}

// Config tunes the reconciler.
type Config struct {
	// SetID restricts the catalog to one set; 0 loads every set.
	SetID int

	// ReloadRetries is how many extra attempts a Reload makes when the
	// service is unavailable. Bounded; only the list-loading path retries.
	ReloadRetries int

	// ReloadRetryDelay is the pause before each retry attempt.
	ReloadRetryDelay time.Duration
}

// DefaultConfig mirrors the original client: up to 3 retries, 5s apart.
func DefaultConfig() *Config {
	return &Config{
		ReloadRetries:    3,
		ReloadRetryDelay: 5 * time.Second,
	}
}

type pendingKey struct {
	cardID int
	op     PendingOp
}

// Reconciler owns the reconciled view-model set.
type Reconciler struct {
	catalog    Catalog
	dispatcher *events.Dispatcher
	logger     *slog.Logger
	config     *Config

	mu         sync.Mutex
	views      []*CardView
	byID       map[int]*CardView
	pending    map[pendingKey]struct{}
	generation uint64
}

// NewReconciler creates a Reconciler with an empty view-model set; call
// Reload or Load before reading. dispatcher and logger may be nil.
func NewReconciler(catalog Catalog, dispatcher *events.Dispatcher, logger *slog.Logger, config *Config) *Reconciler {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		catalog:    catalog,
		dispatcher: dispatcher,
		logger:     logger,
		config:     config,
		byID:       make(map[int]*CardView),
		pending:    make(map[pendingKey]struct{}),
	}
}

// Load installs an already-fetched dataset, replacing all previous state.
// Reload is Load with the fetching done for you.
func (r *Reconciler) Load(cards []lorcana.Card, owned []lorcana.OwnedQuantity, wishlist []lorcana.Card) []CardView {
	views := Rebuild(cards, owned, wishlist)

	r.mu.Lock()
	r.generation++
	r.views = make([]*CardView, len(views))
	r.byID = make(map[int]*CardView, len(views))
	r.pending = make(map[pendingKey]struct{})
	for i := range views {
		v := views[i]
		r.views[i] = &v
		r.byID[v.Card.ID] = &v
	}
	r.mu.Unlock()

	return views
}

// Snapshot returns a copy of the current view-models in catalog order.
func (r *Reconciler) Snapshot() []CardView {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CardView, len(r.views))
	for i, v := range r.views {
		out[i] = *v
	}
	return out
}

// Get returns a copy of one card's view-model.
func (r *Reconciler) Get(cardID int) (CardView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[cardID]
	if !ok {
		return CardView{}, false
	}
	return *v, true
}

// ToggleWishlist flips the card's wishlist membership optimistically, then
// confirms against the server. It returns the final membership state.
//
// A rejection saying the server already holds the intended state
// (ErrAlreadyInWishlist / ErrNotInWishlist) confirms the flip. Any other
// failure rolls the flip back to the exact prior value and is returned.
func (r *Reconciler) ToggleWishlist(ctx context.Context, cardID int) (bool, error) {
	r.mu.Lock()
	v, ok := r.byID[cardID]
	if !ok {
		r.mu.Unlock()
		return false, fmt.Errorf("%w: %d", ErrUnknownCard, cardID)
	}
	key := pendingKey{cardID: cardID, op: PendingWishlist}
	if _, busy := r.pending[key]; busy {
		r.mu.Unlock()
		return v.InWishlist, fmt.Errorf("%w: %d", ErrOperationPending, cardID)
	}

	prev := v.InWishlist
	target := !prev
	v.InWishlist = target
	v.Pending = PendingWishlist
	r.pending[key] = struct{}{}
	gen := r.generation
	r.mu.Unlock()

	var callErr error
	if target {
		callErr = r.catalog.AddToWishlist(ctx, cardID)
	} else {
		callErr = r.catalog.RemoveFromWishlist(ctx, cardID)
	}

	confirmed := callErr == nil || lorcana.IsStateConflict(callErr)
	if callErr != nil && confirmed {
		// The server already matched the optimistic state; absorb.
		r.logger.Debug("wishlist conflict absorbed", "card", cardID, "error", callErr)
		callErr = nil
	}

	r.mu.Lock()
	if gen != r.generation {
		// A reload rebuilt the views while we were in flight; its data
		// already reflects the authoritative server state.
		r.mu.Unlock()
		r.logger.Debug("stale wishlist confirmation discarded", "card", cardID)
		if confirmed {
			return target, nil
		}
		return prev, callErr
	}

	delete(r.pending, key)
	final := target
	if !confirmed {
		v.InWishlist = prev
		final = prev
	}
	r.settlePendingLocked(v, cardID)
	r.mu.Unlock()

	r.emit(events.Event{Type: events.TypeWishlistChanged, Data: events.WishlistChange{
		CardID:     cardID,
		InWishlist: final,
		RolledBack: !confirmed,
	}})

	if !confirmed {
		return prev, callErr
	}
	return target, nil
}

// ChangeQuantity adjusts one variant's owned count by delta, clamped at
// zero, optimistically and then against the server. It returns the final
// (normal, foil) counts.
//
// Decrementing an already-zero count is a local no-op: no network call, no
// error. The untouched variant is always passed through unchanged.
func (r *Reconciler) ChangeQuantity(ctx context.Context, cardID int, variant Variant, delta int) (int, int, error) {
	r.mu.Lock()
	v, ok := r.byID[cardID]
	if !ok {
		r.mu.Unlock()
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownCard, cardID)
	}
	key := pendingKey{cardID: cardID, op: PendingQuantity}
	if _, busy := r.pending[key]; busy {
		r.mu.Unlock()
		return v.NormalCount, v.FoilCount, fmt.Errorf("%w: %d", ErrOperationPending, cardID)
	}

	prev := v.Count(variant)
	next := prev + delta
	if next < 0 {
		next = 0
	}
	if next == prev {
		normal, foil := v.NormalCount, v.FoilCount
		r.mu.Unlock()
		return normal, foil, nil
	}

	r.setCountLocked(v, variant, next)
	v.Pending = PendingQuantity
	r.pending[key] = struct{}{}
	normal, foil := v.NormalCount, v.FoilCount
	gen := r.generation
	r.mu.Unlock()

	callErr := r.catalog.SetOwnedQuantity(ctx, cardID, normal, foil)

	confirmed := callErr == nil || lorcana.IsStateConflict(callErr)
	if callErr != nil && confirmed {
		r.logger.Debug("quantity conflict absorbed", "card", cardID, "error", callErr)
		callErr = nil
	}

	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		r.logger.Debug("stale quantity confirmation discarded", "card", cardID)
		if confirmed {
			return normal, foil, nil
		}
		prevNormal, prevFoil := normal, foil
		if variant == Foil {
			prevFoil = prev
		} else {
			prevNormal = prev
		}
		return prevNormal, prevFoil, callErr
	}

	delete(r.pending, key)
	if !confirmed {
		// Restore exactly the touched variant; the other variant may have
		// been changed by an unrelated confirmed operation meanwhile.
		r.setCountLocked(v, variant, prev)
	}
	finalNormal, finalFoil := v.NormalCount, v.FoilCount
	r.settlePendingLocked(v, cardID)
	r.mu.Unlock()

	r.emit(events.Event{Type: events.TypeCollectionChanged, Data: events.QuantityChange{
		CardID:     cardID,
		OldNormal:  pickOld(variant, Normal, prev, normal),
		NewNormal:  finalNormal,
		OldFoil:    pickOld(variant, Foil, prev, foil),
		NewFoil:    finalFoil,
		RolledBack: !confirmed,
	}})

	if !confirmed {
		return finalNormal, finalFoil, callErr
	}
	return finalNormal, finalFoil, nil
}

// Reload fetches the catalog, owned quantities, and wishlist concurrently,
// waits for all three, and rebuilds the view-models from scratch. All
// optimistic state is discarded; late confirmations from superseded
// operations are detected by generation and ignored.
func (r *Reconciler) Reload(ctx context.Context) ([]CardView, error) {
	var (
		cards    []lorcana.Card
		owned    []lorcana.OwnedQuantity
		wishlist []lorcana.Card
	)

	fetch := func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			cards, err = r.loadCards(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			owned, err = r.catalog.ListUserCards(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			wishlist, err = r.catalog.ListWishlist(gctx)
			return err
		})
		return g.Wait()
	}

	err := fetch()
	for attempt := 0; err != nil && errors.Is(err, lorcana.ErrServiceUnavailable) && attempt < r.config.ReloadRetries; attempt++ {
		r.logger.Warn("reload failed, retrying",
			"attempt", attempt+1,
			"delay", r.config.ReloadRetryDelay,
			"error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.config.ReloadRetryDelay):
		}
		err = fetch()
	}
	if err != nil {
		return nil, fmt.Errorf("reload collection: %w", err)
	}

	views := r.Load(cards, owned, wishlist)

	r.emit(events.Event{Type: events.TypeCollectionReloaded, Data: events.ReloadResult{
		Cards:      len(cards),
		OwnedCards: len(owned),
		Wishlisted: len(wishlist),
	}})
	r.logger.Info("collection reloaded",
		"cards", len(cards),
		"owned", len(owned),
		"wishlisted", len(wishlist))
	return views, nil
}

// loadCards fetches the configured card scope: one set, or every set in
// listing order.
func (r *Reconciler) loadCards(ctx context.Context) ([]lorcana.Card, error) {
	if r.config.SetID > 0 {
		return r.catalog.ListSetCards(ctx, r.config.SetID)
	}

	sets, err := r.catalog.ListSets(ctx)
	if err != nil {
		return nil, err
	}
	var cards []lorcana.Card
	for _, set := range sets {
		setCards, err := r.catalog.ListSetCards(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		cards = append(cards, setCards...)
	}
	return cards, nil
}

// settlePendingLocked recomputes a view's Pending marker from the ops
// still in flight for the card. Called with r.mu held.
func (r *Reconciler) settlePendingLocked(v *CardView, cardID int) {
	switch {
	case r.hasPendingLocked(cardID, PendingQuantity):
		v.Pending = PendingQuantity
	case r.hasPendingLocked(cardID, PendingWishlist):
		v.Pending = PendingWishlist
	default:
		v.Pending = PendingNone
	}
}

func (r *Reconciler) hasPendingLocked(cardID int, op PendingOp) bool {
	_, ok := r.pending[pendingKey{cardID: cardID, op: op}]
	return ok
}

func (r *Reconciler) setCountLocked(v *CardView, variant Variant, count int) {
	if variant == Foil {
		v.FoilCount = count
	} else {
		v.NormalCount = count
	}
}

func (r *Reconciler) emit(event events.Event) {
	if r.dispatcher != nil {
		r.dispatcher.Dispatch(event)
	}
}

// pickOld returns the pre-operation count of one variant given which
// variant the operation touched.
func pickOld(touched, want Variant, prev, optimistic int) int {
	if touched == want {
		return prev
	}
	return optimistic
}
