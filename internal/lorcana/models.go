package lorcana

// Card represents a Lorcana card from the catalog service.
// Cards are reference data: the server owns them and they do not change
// within a session.
type Card struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	SetID  int    `json:"set_id"`
	Number string `json:"number,omitempty"`

	// Canonical image reference. The wire layer collapses the historical
	// image_url/imageUrl/image/artwork_url variants into this field.
	ImageURL string `json:"image_url,omitempty"`

	Type   string `json:"type,omitempty"`
	Rarity string `json:"rarity,omitempty"`

	// Gameplay attributes.
	Cost  int `json:"cost,omitempty"`
	Ink   int `json:"ink,omitempty"`
	Power int `json:"power,omitempty"`

	// Free-text fields.
	Effect string `json:"effect,omitempty"`
	Lore   string `json:"lore,omitempty"`
}

// Set represents a card set (a release/expansion, "chapitre" in the
// original French UI).
type Set struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	CardCount   int    `json:"card_count,omitempty"`
}

// OwnedQuantity is the per-user quantity of a card, split by print variant.
// A card is owned iff Normal+Foil > 0; absent means zero/zero.
type OwnedQuantity struct {
	CardID int `json:"card_id"`
	Normal int `json:"normal"`
	Foil   int `json:"foil"`
}

// User is the authenticated account.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginResponse is the success shape of POST /login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
