package records_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
	"github.com/KirkDiggler/teyvat-catalog/internal/testutils"
)

// RepositoryTestSuite runs the same contract against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) (records.Repository[*entities.Character], func())
	repo    records.Repository[*entities.Character]
	cleanup func()
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.cleanup = s.newRepo(s.T())
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func TestFileRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) (records.Repository[*entities.Character], func()) {
			repo, err := records.NewFile[*entities.Character](&records.FileConfig{
				Path: filepath.Join(t.TempDir(), "characters.json"),
			})
			if err != nil {
				t.Fatalf("failed to create file repository: %v", err)
			}
			return repo, nil
		},
	})
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(_ *testing.T) (records.Repository[*entities.Character], func()) {
			return records.NewInMemory[*entities.Character](), nil
		},
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) (records.Repository[*entities.Character], func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := records.NewRedis[*entities.Character](&records.RedisConfig{
				Client: client,
				Key:    "catalog:characters",
			})
			if err != nil {
				t.Fatalf("failed to create redis repository: %v", err)
			}
			return repo, cleanup
		},
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) (records.Repository[*entities.Character], func()) {
			db, err := sql.Open("sqlite", ":memory:")
			if err != nil {
				t.Fatalf("failed to open sqlite: %v", err)
			}
			// each connection to :memory: is its own database
			db.SetMaxOpenConns(1)

			repo, err := records.NewSQLite[*entities.Character](context.Background(), &records.SQLiteConfig{
				DB:    db,
				Table: "characters",
			})
			if err != nil {
				t.Fatalf("failed to create sqlite repository: %v", err)
			}
			return repo, func() {
				_ = db.Close() // nolint:errcheck // safe to ignore in cleanup
			}
		},
	})
}

func (s *RepositoryTestSuite) seed() {
	for _, c := range testutils.CreateTestCharacters() {
		_, err := s.repo.Insert(s.ctx, records.InsertInput[*entities.Character]{Record: c})
		s.Require().NoError(err)
	}
}

func (s *RepositoryTestSuite) ids() []int64 {
	out, err := s.repo.List(s.ctx, records.ListInput{})
	s.Require().NoError(err)

	ids := make([]int64, 0, len(out.Records))
	for _, rec := range out.Records {
		ids = append(ids, rec.ID)
	}
	return ids
}

func (s *RepositoryTestSuite) TestEmptyCollection() {
	out, err := s.repo.List(s.ctx, records.ListInput{})
	s.Require().NoError(err)
	s.Empty(out.Records)

	maxID, err := s.repo.MaxID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), maxID)
}

func (s *RepositoryTestSuite) TestInsertAndGet() {
	s.seed()

	out, err := s.repo.Get(s.ctx, records.GetInput{ID: 2})
	s.Require().NoError(err)
	s.True(out.Found)
	s.Equal("Bennett", out.Record.Name)
	s.Equal(int64(4), out.Record.Rarity)

	maxID, err := s.repo.MaxID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), maxID)
}

func (s *RepositoryTestSuite) TestGetAbsent() {
	s.seed()

	out, err := s.repo.Get(s.ctx, records.GetInput{ID: 99})
	s.Require().NoError(err)
	s.False(out.Found)
	s.Nil(out.Record)
}

func (s *RepositoryTestSuite) TestInsertDuplicateID() {
	s.seed()

	dup := testutils.CreateTestCharacters()[0]
	dup.Name = "Not Amber"

	_, err := s.repo.Insert(s.ctx, records.InsertInput[*entities.Character]{Record: dup})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))

	out, err := s.repo.Get(s.ctx, records.GetInput{ID: 1})
	s.Require().NoError(err)
	s.Equal(testutils.TestCharacterName, out.Record.Name)
}

func (s *RepositoryTestSuite) TestInsertNil() {
	_, err := s.repo.Insert(s.ctx, records.InsertInput[*entities.Character]{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestUpdateMergesFields() {
	s.seed()

	out, err := s.repo.Update(s.ctx, records.UpdateInput{
		ID:     2,
		Fields: map[string]any{"rarity": int64(5), "id": int64(40)},
	})
	s.Require().NoError(err)
	s.True(out.Found)
	s.Equal(int64(2), out.Record.ID)
	s.Equal(int64(5), out.Record.Rarity)
	s.Equal("Bennett", out.Record.Name)
	s.Equal("Sword", out.Record.Weapon)

	got, err := s.repo.Get(s.ctx, records.GetInput{ID: 2})
	s.Require().NoError(err)
	s.Equal(out.Record, got.Record)
}

func (s *RepositoryTestSuite) TestUpdateAbsent() {
	s.seed()

	out, err := s.repo.Update(s.ctx, records.UpdateInput{
		ID:     99,
		Fields: map[string]any{"rarity": int64(5)},
	})
	s.Require().NoError(err)
	s.False(out.Found)
	s.Equal([]int64{1, 2}, s.ids())
}

func (s *RepositoryTestSuite) TestDelete() {
	s.seed()

	out, err := s.repo.Delete(s.ctx, records.DeleteInput{ID: 1})
	s.Require().NoError(err)
	s.True(out.Deleted)
	s.Equal([]int64{2}, s.ids())

	out, err = s.repo.Delete(s.ctx, records.DeleteInput{ID: 1})
	s.Require().NoError(err)
	s.False(out.Deleted)
	s.Equal([]int64{2}, s.ids())
}

func (s *RepositoryTestSuite) TestReturnedRecordsAreCopies() {
	s.seed()

	out, err := s.repo.Get(s.ctx, records.GetInput{ID: 1})
	s.Require().NoError(err)
	out.Record.Name = "changed"

	again, err := s.repo.Get(s.ctx, records.GetInput{ID: 1})
	s.Require().NoError(err)
	s.Equal(testutils.TestCharacterName, again.Record.Name)
}

func (s *RepositoryTestSuite) TestLifecycle() {
	s.seed()

	maxID, err := s.repo.MaxID(s.ctx)
	s.Require().NoError(err)

	diluc := &entities.Character{
		ID:          maxID + 1,
		Image:       "diluc.png",
		Name:        "Diluc",
		Element:     "Pyro",
		Weapon:      "Claymore",
		Region:      "Mondstadt",
		Rarity:      5,
		Description: "Tycoon of the Dawn Winery.",
	}
	inserted, err := s.repo.Insert(s.ctx, records.InsertInput[*entities.Character]{Record: diluc})
	s.Require().NoError(err)
	s.Equal(int64(3), inserted.Record.ID)

	updated, err := s.repo.Update(s.ctx, records.UpdateInput{ID: 2, Fields: map[string]any{"rarity": int64(5)}})
	s.Require().NoError(err)
	s.Equal(int64(5), updated.Record.Rarity)

	deleted, err := s.repo.Delete(s.ctx, records.DeleteInput{ID: 1})
	s.Require().NoError(err)
	s.True(deleted.Deleted)

	s.Equal([]int64{2, 3}, s.ids())
}

func (s *RepositoryTestSuite) TestMaxIDKeepsDeletedIDs() {
	s.seed()

	out, err := s.repo.Delete(s.ctx, records.DeleteInput{ID: 2})
	s.Require().NoError(err)
	s.True(out.Deleted)

	maxID, err := s.repo.MaxID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), maxID)

	out, err = s.repo.Delete(s.ctx, records.DeleteInput{ID: 1})
	s.Require().NoError(err)
	s.True(out.Deleted)

	maxID, err = s.repo.MaxID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), maxID)
	s.Empty(s.ids())
}
