package stats

import (
	"testing"

	"github.com/ramonehamilton/lorcana-companion/internal/collection"
	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

func view(id, setID, normal, foil int, rarity string, wishlisted bool) collection.CardView {
	return collection.CardView{
		Card:        lorcana.Card{ID: id, SetID: setID, Rarity: rarity},
		NormalCount: normal,
		FoilCount:   foil,
		InWishlist:  wishlisted,
	}
}

func TestCompute(t *testing.T) {
	views := []collection.CardView{
		view(1, 1, 2, 1, "Common", false),
		view(2, 1, 0, 0, "Rare", true),
		view(3, 2, 0, 3, "Rare", true),
		view(4, 2, 1, 0, "", false),
	}

	s := Compute(views)

	if s.TotalCards != 7 {
		t.Errorf("TotalCards = %d, want 7 (multiples counted)", s.TotalCards)
	}
	if s.UniqueCards != 3 {
		t.Errorf("UniqueCards = %d, want 3", s.UniqueCards)
	}
	if s.NormalCards != 2 || s.FoilCards != 2 {
		t.Errorf("variant counts = %d/%d, want 2/2", s.NormalCards, s.FoilCards)
	}
	if s.Wishlisted != 2 {
		t.Errorf("Wishlisted = %d, want 2", s.Wishlisted)
	}
	if s.ByRarity["Common"] != 1 || s.ByRarity["Rare"] != 1 {
		t.Errorf("ByRarity = %v", s.ByRarity)
	}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)
	if s.TotalCards != 0 || s.UniqueCards != 0 || s.Wishlisted != 0 {
		t.Errorf("stats of empty snapshot should be zero: %+v", s)
	}
}

func TestSetCompletion(t *testing.T) {
	views := []collection.CardView{
		view(1, 2, 1, 0, "", false),
		view(2, 2, 0, 0, "", false),
		view(3, 1, 0, 1, "", false),
		view(4, 1, 2, 0, "", false),
	}
	names := map[int]string{1: "The First Chapter", 2: "Rise of the Floodborn"}

	progress := SetCompletion(views, names)

	if len(progress) != 2 {
		t.Fatalf("got %d sets, want 2", len(progress))
	}
	if progress[0].SetID != 1 || progress[1].SetID != 2 {
		t.Errorf("sets not ordered by id: %v", progress)
	}
	first := progress[0]
	if first.SetName != "The First Chapter" || first.OwnedCards != 2 || first.TotalCards != 2 || first.Pct != 100 {
		t.Errorf("unexpected first set progress: %+v", first)
	}
	second := progress[1]
	if second.OwnedCards != 1 || second.TotalCards != 2 || second.Pct != 50 {
		t.Errorf("unexpected second set progress: %+v", second)
	}
}
