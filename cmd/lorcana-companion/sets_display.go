package main

import (
	"fmt"

	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

// displaySets displays the available card sets.
func displaySets(sets []lorcana.Set) {
	if len(sets) == 0 {
		fmt.Println("No sets available.")
		return
	}

	fmt.Println("Card Sets")
	fmt.Println("=========")
	fmt.Println()
	for _, set := range sets {
		fmt.Printf("  [%3d] %s", set.ID, set.Name)
		if set.Code != "" {
			fmt.Printf(" (%s)", set.Code)
		}
		if set.CardCount > 0 {
			fmt.Printf(" - %d cards", set.CardCount)
		}
		if set.ReleaseDate != "" {
			fmt.Printf(", released %s", set.ReleaseDate)
		}
		fmt.Println()
	}
	fmt.Println()
}
