// Package entities defines the three record kinds of the catalog and the
// schemas their request bodies are validated against.
package entities

import "github.com/KirkDiggler/teyvat-catalog/internal/schema"

// Collection names, also used as the /api/{entity} path segment.
const (
	CharactersCollection = "characters"
	WeaponsCollection    = "weapons"
	MonstersCollection   = "monsters"
)

// Rarity is bounded to one through five stars.
var rarityRange = &schema.Range{Min: 1, Max: 5}
