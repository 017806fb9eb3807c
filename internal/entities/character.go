package entities

import "github.com/KirkDiggler/teyvat-catalog/internal/schema"

// Character is a playable character
type Character struct {
	ID          int64  `json:"id" bson:"id"`
	Image       string `json:"image" bson:"image"`
	Name        string `json:"name" bson:"name"`
	Element     string `json:"element" bson:"element"`
	Weapon      string `json:"weapon" bson:"weapon"`
	Region      string `json:"region" bson:"region"`
	Rarity      int64  `json:"rarity" bson:"rarity"`
	Description string `json:"description" bson:"description"`
}

// RecordID returns the character id
func (c *Character) RecordID() int64 { return c.ID }

// SetRecordID assigns the character id
func (c *Character) SetRecordID(id int64) { c.ID = id }

// CharacterSchema validates character request bodies
var CharacterSchema = &schema.Schema{
	Entity: CharactersCollection,
	Fields: []schema.Field{
		{Name: "image", Kind: schema.String, Required: true},
		{Name: "name", Kind: schema.String, Required: true},
		{Name: "element", Kind: schema.String, Required: true},
		{Name: "weapon", Kind: schema.String, Required: true},
		{Name: "region", Kind: schema.String, Required: true},
		{Name: "rarity", Kind: schema.Integer, Required: true, Range: rarityRange},
		{Name: "description", Kind: schema.String, Required: true},
	},
}
