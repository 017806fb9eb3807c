package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/teyvat-catalog/internal/config"
	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/logging"
	"github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection"
	"github.com/KirkDiggler/teyvat-catalog/internal/storage"
)

// storageDriver overrides storage.driver when set
var storageDriver string

func addStorageFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&storageDriver, "storage", "", "Storage driver override (file, memory, mongo, redis, sqlite)")
}

// loadConfig layers the config file, the environment and command flags,
// then installs the logger.
func loadConfig(apply func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if storageDriver != "" {
		cfg.Storage.Driver = storageDriver
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := logging.New(cfg.Log, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

type services struct {
	characters collection.Service[*entities.Character]
	weapons    collection.Service[*entities.Weapon]
	monsters   collection.Service[*entities.Monster]
}

func newServices(stores *storage.Stores) (*services, error) {
	characters, err := collection.NewOrchestrator(&collection.Config[*entities.Character]{
		Repository: stores.Characters,
		Schema:     entities.CharacterSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create characters service: %w", err)
	}

	weapons, err := collection.NewOrchestrator(&collection.Config[*entities.Weapon]{
		Repository: stores.Weapons,
		Schema:     entities.WeaponSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create weapons service: %w", err)
	}

	monsters, err := collection.NewOrchestrator(&collection.Config[*entities.Monster]{
		Repository: stores.Monsters,
		Schema:     entities.MonsterSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create monsters service: %w", err)
	}

	return &services{
		characters: characters,
		weapons:    weapons,
		monsters:   monsters,
	}, nil
}
