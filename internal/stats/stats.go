// Package stats computes aggregate collection statistics from reconciled
// card view-models. Everything here is pure: callers pass a snapshot and
// get numbers back.
package stats

import (
	"sort"

	"github.com/ramonehamilton/lorcana-companion/internal/collection"
)

// CollectionStats summarizes ownership across a card snapshot.
type CollectionStats struct {
	// TotalCards counts every owned copy, multiples included.
	TotalCards int

	// UniqueCards counts cards owned in any variant.
	UniqueCards int

	// NormalCards / FoilCards count cards owned in that variant.
	NormalCards int
	FoilCards   int

	// Wishlisted counts wishlist members in the snapshot.
	Wishlisted int

	// ByRarity counts unique owned cards per rarity label.
	ByRarity map[string]int
}

// SetProgress is the completion state of one set.
type SetProgress struct {
	SetID      int
	SetName    string
	OwnedCards int
	TotalCards int
	Pct        float64
}

// Compute derives CollectionStats from a snapshot.
func Compute(views []collection.CardView) CollectionStats {
	s := CollectionStats{ByRarity: make(map[string]int)}
	for _, v := range views {
		if v.InWishlist {
			s.Wishlisted++
		}
		if !v.Owned() {
			continue
		}
		s.UniqueCards++
		s.TotalCards += v.TotalCount()
		if v.NormalCount > 0 {
			s.NormalCards++
		}
		if v.FoilCount > 0 {
			s.FoilCards++
		}
		if v.Card.Rarity != "" {
			s.ByRarity[v.Card.Rarity]++
		}
	}
	return s
}

// SetCompletion groups the snapshot by set and reports per-set completion,
// ordered by set id. setNames maps set ids to display names and may be nil.
func SetCompletion(views []collection.CardView, setNames map[int]string) []SetProgress {
	bySet := make(map[int]*SetProgress)
	for _, v := range views {
		p, ok := bySet[v.Card.SetID]
		if !ok {
			p = &SetProgress{SetID: v.Card.SetID, SetName: setNames[v.Card.SetID]}
			bySet[v.Card.SetID] = p
		}
		p.TotalCards++
		if v.Owned() {
			p.OwnedCards++
		}
	}

	out := make([]SetProgress, 0, len(bySet))
	for _, p := range bySet {
		if p.TotalCards > 0 {
			p.Pct = float64(p.OwnedCards) / float64(p.TotalCards) * 100
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SetID < out[j].SetID })
	return out
}
