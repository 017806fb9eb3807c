package queryview

import (
	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
)

// Field reads one displayed attribute of a record
type Field[T any] struct {
	Name string
	// Numeric fields sort by NumericValue instead of collation
	Numeric bool
	Value   func(rec T) string
}

// Fields lists what a view can sort and filter a collection by
type Fields[T any] struct {
	Sort   []Field[T]
	Filter []Field[T]
}

func (f Fields[T]) sortField(name string) (Field[T], bool) {
	return find(f.Sort, name)
}

func (f Fields[T]) filterField(name string) (Field[T], bool) {
	return find(f.Filter, name)
}

// SortNames returns the sortable field names
func (f Fields[T]) SortNames() []string {
	return names(f.Sort)
}

// FilterNames returns the filterable field names
func (f Fields[T]) FilterNames() []string {
	return names(f.Filter)
}

func find[T any](fields []Field[T], name string) (Field[T], bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field[T]{}, false
}

func names[T any](fields []Field[T]) []string {
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = field.Name
	}
	return out
}

// NoElement is how a monster without an element is shown and filtered.
const NoElement = "none"

// CharacterFields sorts by name and rarity and filters by element, weapon and region
func CharacterFields() Fields[*entities.Character] {
	return Fields[*entities.Character]{
		Sort: []Field[*entities.Character]{
			{Name: "name", Value: func(c *entities.Character) string { return c.Name }},
			{Name: "rarity", Numeric: true, Value: func(c *entities.Character) string { return itoa(c.Rarity) }},
		},
		Filter: []Field[*entities.Character]{
			{Name: "element", Value: func(c *entities.Character) string { return c.Element }},
			{Name: "weapon", Value: func(c *entities.Character) string { return c.Weapon }},
			{Name: "region", Value: func(c *entities.Character) string { return c.Region }},
		},
	}
}

// WeaponFields sorts by name, rarity and base attack and filters by type
func WeaponFields() Fields[*entities.Weapon] {
	return Fields[*entities.Weapon]{
		Sort: []Field[*entities.Weapon]{
			{Name: "name", Value: func(w *entities.Weapon) string { return w.Name }},
			{Name: "rarity", Numeric: true, Value: func(w *entities.Weapon) string { return itoa(w.Rarity) }},
			{Name: "baseattack", Numeric: true, Value: func(w *entities.Weapon) string { return w.BaseAttack }},
		},
		Filter: []Field[*entities.Weapon]{
			{Name: "type", Value: func(w *entities.Weapon) string { return w.Type }},
		},
	}
}

// MonsterFields sorts by name and hp and filters by type and elemental
func MonsterFields() Fields[*entities.Monster] {
	return Fields[*entities.Monster]{
		Sort: []Field[*entities.Monster]{
			{Name: "name", Value: func(m *entities.Monster) string { return m.Name }},
			{Name: "hp", Numeric: true, Value: func(m *entities.Monster) string { return m.HP }},
		},
		Filter: []Field[*entities.Monster]{
			{Name: "type", Value: func(m *entities.Monster) string { return m.Type }},
			{Name: "elemental", Value: monsterElement},
		},
	}
}

func monsterElement(m *entities.Monster) string {
	if m.Elemental == nil || *m.Elemental == "" {
		return NoElement
	}
	return *m.Elemental
}
