package main

import (
	"fmt"

	"github.com/ramonehamilton/lorcana-companion/internal/collection"
)

const maxCardRows = 50

// displayCards displays a card list with ownership and wishlist markers.
func displayCards(views []collection.CardView) {
	if len(views) == 0 {
		fmt.Println("No cards to display.")
		return
	}

	fmt.Println("Cards")
	fmt.Println("=====")
	fmt.Println()

	shown := 0
	for _, v := range views {
		if shown >= maxCardRows {
			fmt.Printf("  ... and %d more\n", len(views)-shown)
			break
		}
		fmt.Printf("  %s\n", cardRow(v))
		shown++
	}
	fmt.Println()
}

// cardRow formats one card line: id, wishlist star, name, counts, attributes.
func cardRow(v collection.CardView) string {
	star := " "
	if v.InWishlist {
		star = "*"
	}

	row := fmt.Sprintf("[%4d] %s %-40s", v.Card.ID, star, v.Card.Name)
	if v.Owned() {
		row += fmt.Sprintf(" %dN/%dF", v.NormalCount, v.FoilCount)
	} else {
		row += "     -"
	}
	if v.Card.Rarity != "" {
		row += "  " + v.Card.Rarity
	}
	if v.Card.Cost > 0 {
		row += fmt.Sprintf("  cost %d", v.Card.Cost)
	}
	if v.Pending != collection.PendingNone {
		row += fmt.Sprintf("  (pending %s)", v.Pending)
	}
	return row
}
