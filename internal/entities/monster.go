package entities

import "github.com/KirkDiggler/teyvat-catalog/internal/schema"

// Monster is an enemy. Elemental is nil for monsters without an element.
// HP may carry decoration ("~33,000 HP").
type Monster struct {
	ID          int64   `json:"id" bson:"id"`
	Image       string  `json:"img" bson:"img"`
	Name        string  `json:"name" bson:"name"`
	Type        string  `json:"type" bson:"type"`
	Elemental   *string `json:"elemental" bson:"elemental"`
	HP          string  `json:"hp" bson:"hp"`
	Description string  `json:"description" bson:"description"`
}

// RecordID returns the monster id
func (m *Monster) RecordID() int64 { return m.ID }

// SetRecordID assigns the monster id
func (m *Monster) SetRecordID(id int64) { m.ID = id }

// MonsterSchema validates monster request bodies
var MonsterSchema = &schema.Schema{
	Entity: MonstersCollection,
	Fields: []schema.Field{
		{Name: "img", Kind: schema.String, Required: true},
		{Name: "name", Kind: schema.String, Required: true},
		{Name: "type", Kind: schema.String, Required: true},
		{Name: "elemental", Kind: schema.String, Nullable: true},
		{Name: "hp", Kind: schema.String, Required: true},
		{Name: "description", Kind: schema.String, Required: true},
	},
}
