package testutils

import (
	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
)

// Fixture names used across tests
const (
	TestCharacterName = "Amber"
	TestWeaponName    = "Favonius Sword"
	TestMonsterName   = "Hilichurl"
)

// CreateTestCharacters returns the two-record character collection used by
// lifecycle tests: Amber (id 1) and Bennett (id 2).
func CreateTestCharacters() []*entities.Character {
	return []*entities.Character{
		{
			ID:          1,
			Image:       "amber.png",
			Name:        TestCharacterName,
			Element:     "Pyro",
			Weapon:      "Bow",
			Region:      "Mondstadt",
			Rarity:      4,
			Description: "Outrider of the Knights of Favonius.",
		},
		{
			ID:          2,
			Image:       "bennett.png",
			Name:        "Bennett",
			Element:     "Pyro",
			Weapon:      "Sword",
			Region:      "Mondstadt",
			Rarity:      4,
			Description: "Leader of Benny's Adventure Team.",
		},
	}
}

// CreateTestWeapon returns a single valid weapon
func CreateTestWeapon(id int64) *entities.Weapon {
	return &entities.Weapon{
		ID:             id,
		Image:          "favonius_sword.png",
		Name:           TestWeaponName,
		Type:           "Sword",
		Rarity:         4,
		BaseAttack:     "41",
		Substat:        "Energy Recharge",
		PassiveAbility: "Windfall",
	}
}

// CreateTestMonster returns a single valid monster with the given element,
// or none when elemental is nil
func CreateTestMonster(id int64, elemental *string) *entities.Monster {
	return &entities.Monster{
		ID:          id,
		Image:       "hilichurl.png",
		Name:        TestMonsterName,
		Type:        "Common",
		Elemental:   elemental,
		HP:          "1,200",
		Description: "Primitive tribes of Teyvat's wilderness.",
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
