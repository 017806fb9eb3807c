package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection"
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
	"github.com/KirkDiggler/teyvat-catalog/internal/storage"
)

var (
	seedCharacters string
	seedWeapons    string
	seedMonsters   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load JSON array files into the configured storage",
	Long: `Seed reads JSON arrays of records and creates each one through the collection
service, so every record is validated and assigned the next free id.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedCharacters, "characters", "", "JSON array of characters")
	seedCmd.Flags().StringVar(&seedWeapons, "weapons", "", "JSON array of weapons")
	seedCmd.Flags().StringVar(&seedMonsters, "monsters", "", "JSON array of monsters")
	addStorageFlag(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if seedCharacters == "" && seedWeapons == "" && seedMonsters == "" {
		return fmt.Errorf("at least one of --characters, --weapons or --monsters is required")
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stores, err := storage.Open(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		_ = stores.Close(ctx) // nolint:errcheck // process is exiting
	}()

	svc, err := newServices(stores)
	if err != nil {
		return err
	}

	if err := seedFile(ctx, svc.characters, entities.CharactersCollection, seedCharacters); err != nil {
		return err
	}
	if err := seedFile(ctx, svc.weapons, entities.WeaponsCollection, seedWeapons); err != nil {
		return err
	}
	return seedFile(ctx, svc.monsters, entities.MonstersCollection, seedMonsters)
}

func seedFile[T records.Record](ctx context.Context, svc collection.Service[T], entity, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.Open(path) // nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("failed to open %s seed file: %w", entity, err)
	}
	defer func() {
		_ = file.Close() // nolint:errcheck // read-only
	}()

	created, err := seedCollection(ctx, svc, file)
	if err != nil {
		return fmt.Errorf("failed to seed %s after %d records: %w", entity, created, err)
	}

	fmt.Printf("Seeded %d %s from %s\n", created, entity, path)
	return nil
}

// seedCollection creates every object of the JSON array in r and returns
// how many were stored. It stops at the first rejected record.
func seedCollection[T records.Record](ctx context.Context, svc collection.Service[T], r io.Reader) (int, error) {
	var bodies []map[string]any
	if err := json.NewDecoder(r).Decode(&bodies); err != nil {
		return 0, errors.InvalidArgumentf("seed data must be a JSON array of objects: %v", err)
	}

	for i, fields := range bodies {
		out, err := svc.Create(ctx, &collection.CreateInput{Fields: fields})
		if err != nil {
			return i, errors.Wrapf(err, "record %d rejected", i)
		}
		slog.DebugContext(ctx, "Seeded record",
			"id", out.Record.RecordID(),
		)
	}
	return len(bodies), nil
}
