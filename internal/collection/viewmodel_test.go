package collection

import (
	"testing"

	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

func TestRebuild_JoinCorrectness(t *testing.T) {
	cards := []lorcana.Card{
		{ID: 3, Name: "Stitch - Rock Star"},
		{ID: 1, Name: "Mickey Mouse - Wayward Sorcerer"},
		{ID: 2, Name: "Elsa - Snow Queen"},
	}
	owned := []lorcana.OwnedQuantity{
		{CardID: 1, Normal: 2, Foil: 1},
		{CardID: 9, Normal: 4, Foil: 0}, // not in the catalog slice: ignored
	}
	wishlist := []lorcana.Card{{ID: 2, Name: "Elsa - Snow Queen"}}

	views := Rebuild(cards, owned, wishlist)

	if len(views) != 3 {
		t.Fatalf("got %d views, want exactly one per input card", len(views))
	}

	// Input order preserved.
	for i, wantID := range []int{3, 1, 2} {
		if views[i].Card.ID != wantID {
			t.Errorf("views[%d].Card.ID = %d, want %d (input order)", i, views[i].Card.ID, wantID)
		}
	}

	if views[0].NormalCount != 0 || views[0].FoilCount != 0 {
		t.Errorf("card without owned row should default to zero, got %d/%d", views[0].NormalCount, views[0].FoilCount)
	}
	if views[1].NormalCount != 2 || views[1].FoilCount != 1 {
		t.Errorf("owned quantities not joined: %d/%d", views[1].NormalCount, views[1].FoilCount)
	}
	if views[0].InWishlist || views[1].InWishlist || !views[2].InWishlist {
		t.Errorf("wishlist membership wrong: %v %v %v", views[0].InWishlist, views[1].InWishlist, views[2].InWishlist)
	}
	for i := range views {
		if views[i].Pending != PendingNone {
			t.Errorf("views[%d].Pending = %v, want PendingNone", i, views[i].Pending)
		}
	}
}

func TestRebuild_EmptyInputs(t *testing.T) {
	views := Rebuild(nil, nil, nil)
	if len(views) != 0 {
		t.Errorf("Rebuild(nil, nil, nil) = %d views, want 0", len(views))
	}

	views = Rebuild(
		[]lorcana.Card{{ID: 1, Name: "Mickey"}},
		nil,
		nil,
	)
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	v := views[0]
	if v.NormalCount != 0 || v.FoilCount != 0 || v.InWishlist {
		t.Errorf("empty owned/wishlist should yield zero state, got %+v", v)
	}
}

func TestCardView_Owned(t *testing.T) {
	tests := []struct {
		name   string
		normal int
		foil   int
		want   bool
	}{
		{"none", 0, 0, false},
		{"normal only", 1, 0, true},
		{"foil only", 0, 2, true},
		{"both", 3, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CardView{NormalCount: tt.normal, FoilCount: tt.foil}
			if v.Owned() != tt.want {
				t.Errorf("Owned() = %v, want %v", v.Owned(), tt.want)
			}
		})
	}
}

func TestSearch_MultiTermAcrossFields(t *testing.T) {
	views := []CardView{
		{Card: lorcana.Card{ID: 1, Name: "Mickey Mouse", Type: "Hero", Effect: "Draw a card"}},
		{Card: lorcana.Card{ID: 2, Name: "Maleficent", Type: "Villain", Lore: "Mistress of All Evil"}},
		{Card: lorcana.Card{ID: 3, Name: "Mouse Armor", Type: "Item"}},
	}

	got := Search(views, "mouse")
	if len(got) != 2 {
		t.Fatalf("Search(mouse) = %d results, want 2", len(got))
	}

	got = Search(views, "mouse hero")
	if len(got) != 1 || got[0].Card.ID != 1 {
		t.Errorf("every term must match: got %d results", len(got))
	}

	got = Search(views, "evil")
	if len(got) != 1 || got[0].Card.ID != 2 {
		t.Errorf("lore should be searched: got %d results", len(got))
	}

	got = Search(views, "  ")
	if len(got) != 3 {
		t.Errorf("blank query should return everything, got %d", len(got))
	}
}

func TestFilters(t *testing.T) {
	views := []CardView{
		{Card: lorcana.Card{ID: 1}, NormalCount: 1},
		{Card: lorcana.Card{ID: 2}, FoilCount: 2},
		{Card: lorcana.Card{ID: 3}, InWishlist: true},
	}

	if got := FilterOwned(views); len(got) != 2 {
		t.Errorf("FilterOwned = %d, want 2", len(got))
	}
	if got := FilterVariant(views, Normal); len(got) != 1 || got[0].Card.ID != 1 {
		t.Errorf("FilterVariant(Normal) wrong: %v", got)
	}
	if got := FilterVariant(views, Foil); len(got) != 1 || got[0].Card.ID != 2 {
		t.Errorf("FilterVariant(Foil) wrong: %v", got)
	}
	if got := FilterWishlisted(views); len(got) != 1 || got[0].Card.ID != 3 {
		t.Errorf("FilterWishlisted wrong: %v", got)
	}
}
