package collection

import (
	"strings"

	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

// PendingOp marks an optimistic mutation awaiting server confirmation.
type PendingOp int

const (
	PendingNone PendingOp = iota
	PendingWishlist
	PendingQuantity
)

func (p PendingOp) String() string {
	switch p {
	case PendingWishlist:
		return "wishlist"
	case PendingQuantity:
		return "quantity"
	default:
		return "none"
	}
}

// Variant selects which print quantity a change targets.
type Variant int

const (
	Normal Variant = iota
	Foil
)

func (v Variant) String() string {
	if v == Foil {
		return "foil"
	}
	return "normal"
}

// CardView is the reconciled per-card view-model: catalog data joined with
// the user's owned quantities and wishlist membership. The reconciler owns
// the live instances; the view layer only ever sees copies.
type CardView struct {
	Card        lorcana.Card
	NormalCount int
	FoilCount   int
	InWishlist  bool
	Pending     PendingOp
}

// Owned reports whether any copy of the card is owned.
func (v CardView) Owned() bool {
	return v.NormalCount+v.FoilCount > 0
}

// TotalCount is the owned copy count across both variants.
func (v CardView) TotalCount() int {
	return v.NormalCount + v.FoilCount
}

// Count returns the owned count of one variant.
func (v CardView) Count(variant Variant) int {
	if variant == Foil {
		return v.FoilCount
	}
	return v.NormalCount
}

// Rebuild joins the three datasets into one view-model per card, preserving
// the input card order. Quantities default to zero when a card has no owned
// row; wishlist membership is card-id presence in the wishlist slice.
//
// Pure function: no network, no shared state. The reconciler calls it under
// its own lock; tests call it directly.
func Rebuild(cards []lorcana.Card, owned []lorcana.OwnedQuantity, wishlist []lorcana.Card) []CardView {
	ownedByID := make(map[int]lorcana.OwnedQuantity, len(owned))
	for _, q := range owned {
		ownedByID[q.CardID] = q
	}
	wishlisted := make(map[int]struct{}, len(wishlist))
	for _, c := range wishlist {
		wishlisted[c.ID] = struct{}{}
	}

	views := make([]CardView, 0, len(cards))
	for _, card := range cards {
		q := ownedByID[card.ID]
		_, inWishlist := wishlisted[card.ID]
		views = append(views, CardView{
			Card:        card,
			NormalCount: q.Normal,
			FoilCount:   q.Foil,
			InWishlist:  inWishlist,
		})
	}
	return views
}

// Search filters views by a whitespace-separated term query. Every term
// must match the card's name, type, effect, or lore, case-insensitively.
// An empty query returns the input unchanged.
func Search(views []CardView, query string) []CardView {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return views
	}

	matched := make([]CardView, 0, len(views))
	for _, v := range views {
		haystack := strings.ToLower(v.Card.Name + " " + v.Card.Type + " " + v.Card.Effect + " " + v.Card.Lore)
		ok := true
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, v)
		}
	}
	return matched
}

// FilterOwned keeps only owned cards.
func FilterOwned(views []CardView) []CardView {
	out := make([]CardView, 0, len(views))
	for _, v := range views {
		if v.Owned() {
			out = append(out, v)
		}
	}
	return out
}

// FilterVariant keeps only cards owned in the given variant.
func FilterVariant(views []CardView, variant Variant) []CardView {
	out := make([]CardView, 0, len(views))
	for _, v := range views {
		if v.Count(variant) > 0 {
			out = append(out, v)
		}
	}
	return out
}

// FilterWishlisted keeps only wishlisted cards.
func FilterWishlisted(views []CardView) []CardView {
	out := make([]CardView, 0, len(views))
	for _, v := range views {
		if v.InWishlist {
			out = append(out, v)
		}
	}
	return out
}
