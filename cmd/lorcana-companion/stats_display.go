package main

import (
	"fmt"
	"sort"

	"github.com/ramonehamilton/lorcana-companion/internal/stats"
)

// displayStats displays collection statistics and per-set completion.
func displayStats(s stats.CollectionStats, completion []stats.SetProgress) {
	fmt.Println("Collection Statistics")
	fmt.Println("=====================")
	fmt.Println()

	fmt.Println("Summary:")
	fmt.Printf("  Total Copies:   %d\n", s.TotalCards)
	fmt.Printf("  Unique Cards:   %d\n", s.UniqueCards)
	fmt.Printf("  Normal Cards:   %d\n", s.NormalCards)
	fmt.Printf("  Foil Cards:     %d\n", s.FoilCards)
	fmt.Printf("  Wishlisted:     %d\n", s.Wishlisted)
	fmt.Println()

	if len(s.ByRarity) > 0 {
		fmt.Println("By Rarity:")
		rarities := make([]string, 0, len(s.ByRarity))
		for rarity := range s.ByRarity {
			rarities = append(rarities, rarity)
		}
		sort.Strings(rarities)
		for _, rarity := range rarities {
			fmt.Printf("  %s: %d\n", rarity, s.ByRarity[rarity])
		}
		fmt.Println()
	}

	if len(completion) > 0 {
		fmt.Println("Set Completion:")
		for _, p := range completion {
			name := p.SetName
			if name == "" {
				name = fmt.Sprintf("Set %d", p.SetID)
			}
			fmt.Printf("  %s: %d/%d (%.1f%%)\n", name, p.OwnedCards, p.TotalCards, p.Pct)
		}
		fmt.Println()
	}
}
