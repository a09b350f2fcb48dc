package main

import (
	"fmt"

	"github.com/ramonehamilton/lorcana-companion/internal/collection"
)

// displayCollection displays the owned cards with a summary line.
func displayCollection(views []collection.CardView) {
	fmt.Println("Collection")
	fmt.Println("==========")
	fmt.Println()

	if len(views) == 0 {
		fmt.Println("You don't own any cards yet.")
		fmt.Println()
		return
	}

	total := 0
	for _, v := range views {
		total += v.TotalCount()
	}
	fmt.Printf("%d unique cards, %d copies total\n", len(views), total)
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
