package v1_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	v1 "github.com/KirkDiggler/teyvat-catalog/internal/handlers/api/v1"
	"github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection"
	"github.com/KirkDiggler/teyvat-catalog/internal/pkg/idgen"
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
	"github.com/KirkDiggler/teyvat-catalog/internal/testutils"
)

// RouterTestSuite drives the assembled app over in-memory collections
type RouterTestSuite struct {
	suite.Suite
	app *fiber.App
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	characters, err := collection.NewOrchestrator(&collection.Config[*entities.Character]{
		Repository: records.NewInMemory(testutils.CreateTestCharacters()...),
		Schema:     entities.CharacterSchema,
	})
	s.Require().NoError(err)
	weapons, err := collection.NewOrchestrator(&collection.Config[*entities.Weapon]{
		Repository: records.NewInMemory[*entities.Weapon](),
		Schema:     entities.WeaponSchema,
	})
	s.Require().NoError(err)
	monsters, err := collection.NewOrchestrator(&collection.Config[*entities.Monster]{
		Repository: records.NewInMemory(testutils.CreateTestMonster(1, nil)),
		Schema:     entities.MonsterSchema,
	})
	s.Require().NoError(err)

	app, err := v1.NewApp(&v1.AppConfig{
		Characters: characters,
		Weapons:    weapons,
		Monsters:   monsters,
		RequestIDs: idgen.NewSequential("req"),
	})
	s.Require().NoError(err)
	s.app = app
}

func (s *RouterTestSuite) do(method, target, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

func (s *RouterTestSuite) readJSON(resp *http.Response, out any) {
	defer func() {
		_ = resp.Body.Close() // nolint:errcheck // safe to ignore in cleanup
	}()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *RouterTestSuite) TestNewAppValidation() {
	_, err := v1.NewApp(&v1.AppConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RouterTestSuite) TestHealth() {
	resp := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.readJSON(resp, &body)
	s.Equal("ok", body["status"])
}

func (s *RouterTestSuite) TestRequestIDHeader() {
	resp := s.do(http.MethodGet, "/health", "")
	s.Equal("req_1", resp.Header.Get(fiber.HeaderXRequestID))
}

func (s *RouterTestSuite) TestUnknownRoute() {
	resp := s.do(http.MethodGet, "/api/dragons", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	var body errors.Response
	s.readJSON(resp, &body)
	s.Equal(errors.CodeNotFound, body.Code)
}

func (s *RouterTestSuite) TestCharacterLifecycle() {
	resp := s.do(http.MethodPost, "/api/characters", `{
		"id": 77,
		"image": "diluc.png",
		"name": "Diluc",
		"element": "Pyro",
		"weapon": "Claymore",
		"region": "Mondstadt",
		"rarity": 5,
		"description": "Tycoon of the Dawn Winery.",
		"nickname": "dropped"
	}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created map[string]any
	s.readJSON(resp, &created)
	s.Equal(float64(3), created["id"])
	s.NotContains(created, "nickname")

	resp = s.do(http.MethodPut, "/api/characters/2", `{"rarity": 5}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated entities.Character
	s.readJSON(resp, &updated)
	s.Equal(int64(5), updated.Rarity)
	s.Equal("Bennett", updated.Name)

	resp = s.do(http.MethodDelete, "/api/characters/1", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close() // nolint:errcheck // safe to ignore in tests

	resp = s.do(http.MethodGet, "/api/characters", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var all []entities.Character
	s.readJSON(resp, &all)
	s.Require().Len(all, 2)
	s.Equal(int64(2), all[0].ID)
	s.Equal(int64(3), all[1].ID)

	resp = s.do(http.MethodGet, "/api/characters/1", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *RouterTestSuite) TestCreateRarityOutOfRange() {
	resp := s.do(http.MethodPost, "/api/characters", `{
		"image": "x.png", "name": "X", "element": "Pyro", "weapon": "Bow",
		"region": "Mondstadt", "rarity": 6, "description": "x"
	}`)
	s.Require().Equal(http.StatusInternalServerError, resp.StatusCode)

	var body errors.Response
	s.readJSON(resp, &body)
	s.Contains(body.Fields, "rarity")

	resp = s.do(http.MethodGet, "/api/characters", "")
	var all []entities.Character
	s.readJSON(resp, &all)
	s.Len(all, 2)
}

func (s *RouterTestSuite) TestWeaponsStartEmpty() {
	resp := s.do(http.MethodGet, "/api/weapons", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var all []entities.Weapon
	s.readJSON(resp, &all)
	s.Empty(all)
}

func (s *RouterTestSuite) TestMonsterWithoutElement() {
	resp := s.do(http.MethodGet, "/api/monsters?id=1", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body map[string]any
	s.readJSON(resp, &body)
	s.Contains(body, "elemental")
	s.Nil(body["elemental"])
	s.Equal("hilichurl.png", body["img"])
}
