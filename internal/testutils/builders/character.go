// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	character *entities.Character
}

// NewCharacterBuilder creates a new builder with valid defaults
func NewCharacterBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		character: &entities.Character{
			ID:          1,
			Image:       "traveler.png",
			Name:        "Traveler",
			Element:     "Anemo",
			Weapon:      "Sword",
			Region:      "Mondstadt",
			Rarity:      5,
			Description: "A traveler from another world.",
		},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id int64) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.Name = name
	return b
}

// WithElement sets the character element
func (b *CharacterBuilder) WithElement(element string) *CharacterBuilder {
	b.character.Element = element
	return b
}

// WithWeapon sets the weapon class the character wields
func (b *CharacterBuilder) WithWeapon(weapon string) *CharacterBuilder {
	b.character.Weapon = weapon
	return b
}

// WithRegion sets the character region
func (b *CharacterBuilder) WithRegion(region string) *CharacterBuilder {
	b.character.Region = region
	return b
}

// WithRarity sets the rarity
func (b *CharacterBuilder) WithRarity(rarity int64) *CharacterBuilder {
	b.character.Rarity = rarity
	return b
}

// Build returns the built character
func (b *CharacterBuilder) Build() *entities.Character {
	c := *b.character
	return &c
}

// Fields returns the character as a request body, without its id
func (b *CharacterBuilder) Fields() map[string]any {
	c := b.character
	return map[string]any{
		"image":       c.Image,
		"name":        c.Name,
		"element":     c.Element,
		"weapon":      c.Weapon,
		"region":      c.Region,
		"rarity":      float64(c.Rarity),
		"description": c.Description,
	}
}
