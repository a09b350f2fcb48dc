package lorcana

import "strings"

// The catalog service changed shape over time: image references moved across
// four different keys, owned rows switched between "id" and "card_id", and
// the wishlist mutation endpoints were reworked between API generations.
// Everything in this file absorbs that drift so the typed model stays clean.

// WireVersion selects which generation of the wishlist mutation endpoints
// the client speaks.
type WireVersion int

const (
	// WireV1 is the original API: POST /wishlist with {"cardId": n} and
	// DELETE /wishlist/{id}.
	WireV1 WireVersion = iota + 1

	// WireV2 is the current API: POST /wishlist/add and POST
	// /wishlist/remove, both with {"card_id": n}.
	WireV2
)

// dataEnvelope unwraps the {"data": ...} wrapper the list endpoints use.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// errorBody is the JSON error shape on 4xx/5xx.
type errorBody struct {
	Message string `json:"message"`
}

// rawCard is the on-the-wire card shape with every image-key variant the
// server has ever produced.
type rawCard struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	SetID  int    `json:"set_id"`
	Number string `json:"number"`

	ImageURL   string `json:"image_url"`
	ImageURL2  string `json:"imageUrl"`
	Image      string `json:"image"`
	ArtworkURL string `json:"artwork_url"`

	Type   string `json:"type"`
	Rarity string `json:"rarity"`
	Cost   int    `json:"cost"`
	Ink    int    `json:"ink"`
	Power  int    `json:"power"`
	Effect string `json:"effect"`
	Lore   string `json:"lore"`
}

// normalize converts a raw wire card into the canonical model, collapsing
// the image variants with the same precedence the original client used.
func (r rawCard) normalize() Card {
	img := r.ImageURL
	for _, alt := range []string{r.ImageURL2, r.Image, r.ArtworkURL} {
		if img == "" {
			img = alt
		}
	}
	return Card{
		ID:       r.ID,
		Name:     r.Name,
		SetID:    r.SetID,
		Number:   r.Number,
		ImageURL: img,
		Type:     r.Type,
		Rarity:   r.Rarity,
		Cost:     r.Cost,
		Ink:      r.Ink,
		Power:    r.Power,
		Effect:   r.Effect,
		Lore:     r.Lore,
	}
}

func normalizeCards(raw []rawCard) []Card {
	cards := make([]Card, 0, len(raw))
	for _, r := range raw {
		cards = append(cards, r.normalize())
	}
	return cards
}

// rawOwned accepts both key generations for the card identifier.
type rawOwned struct {
	ID     int `json:"id"`
	CardID int `json:"card_id"`
	Normal int `json:"normal"`
	Foil   int `json:"foil"`
}

// normalizeOwned maps wire rows to OwnedQuantity, dropping zero/zero rows.
// GET /me/cards is ambiguous upstream (some server versions return the full
// catalog zero-filled, some only owned cards); declaring the contract as
// sparse makes both behave identically after the join.
func normalizeOwned(raw []rawOwned) []OwnedQuantity {
	owned := make([]OwnedQuantity, 0, len(raw))
	for _, r := range raw {
		if r.Normal <= 0 && r.Foil <= 0 {
			continue
		}
		id := r.CardID
		if id == 0 {
			id = r.ID
		}
		owned = append(owned, OwnedQuantity{CardID: id, Normal: r.Normal, Foil: r.Foil})
	}
	return owned
}

// classifyWishlistConflict maps the server's plain-4xx wishlist rejections
// onto the sentinel conflict errors. The service signals them either with
// 409 or with a recognizable message; both generations are sniffed here so
// string matching never leaks upward.
func classifyWishlistConflict(statusCode int, message string, adding bool) error {
	lower := strings.ToLower(message)
	switch {
	case adding && (statusCode == 409 || strings.Contains(lower, "already")):
		return ErrAlreadyInWishlist
	case !adding && (statusCode == 409 || strings.Contains(lower, "not in") || strings.Contains(lower, "not found in")):
		return ErrNotInWishlist
	}
	return nil
}
