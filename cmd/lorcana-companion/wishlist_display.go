package main

import (
	"fmt"

	"github.com/ramonehamilton/lorcana-companion/internal/collection"
)

// displayWishlist displays the wishlisted cards.
func displayWishlist(views []collection.CardView) {
	fmt.Println("Wishlist")
	fmt.Println("========")
	fmt.Println()

	if len(views) == 0 {
		fmt.Println("Your wishlist is empty.")
		fmt.Println()
		return
	}

	for _, v := range views {
		owned := ""
		if v.Owned() {
			owned = fmt.Sprintf("  (owned: %dN/%dF)", v.NormalCount, v.FoilCount)
		}
		fmt.Printf("  [%4d] %s%s\n", v.Card.ID, v.Card.Name, owned)
	}
	fmt.Println()
}
