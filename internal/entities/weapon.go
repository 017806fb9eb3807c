package entities

import "github.com/KirkDiggler/teyvat-catalog/internal/schema"

// Weapon is an equippable weapon. BaseAttack is a display string such as
// "42 ATK"; its numeric part is extracted when sorting.
type Weapon struct {
	ID             int64  `json:"id" bson:"id"`
	Image          string `json:"image" bson:"image"`
	Name           string `json:"name" bson:"name"`
	Type           string `json:"type" bson:"type"`
	Rarity         int64  `json:"rarity" bson:"rarity"`
	BaseAttack     string `json:"baseattack" bson:"baseattack"`
	Substat        string `json:"substat" bson:"substat"`
	PassiveAbility string `json:"passiveAbility" bson:"passiveAbility"`
}

// RecordID returns the weapon id
func (w *Weapon) RecordID() int64 { return w.ID }

// SetRecordID assigns the weapon id
func (w *Weapon) SetRecordID(id int64) { w.ID = id }

// WeaponSchema validates weapon request bodies
var WeaponSchema = &schema.Schema{
	Entity: WeaponsCollection,
	Fields: []schema.Field{
		{Name: "image", Kind: schema.String, Required: true},
		{Name: "name", Kind: schema.String, Required: true},
		{Name: "type", Kind: schema.String, Required: true},
		{Name: "rarity", Kind: schema.Integer, Required: true, Range: rarityRange},
		{Name: "baseattack", Kind: schema.String, Required: true},
		{Name: "substat", Kind: schema.String, Required: true},
		{Name: "passiveAbility", Kind: schema.String, Required: true},
	},
}
