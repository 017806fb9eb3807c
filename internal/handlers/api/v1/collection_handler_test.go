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
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	v1 "github.com/KirkDiggler/teyvat-catalog/internal/handlers/api/v1"
	"github.com/KirkDiggler/teyvat-catalog/internal/handlers/middleware"
	"github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection"
	collectionmock "github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection/mock"
	"github.com/KirkDiggler/teyvat-catalog/internal/testutils"
)

type CollectionHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *collectionmock.MockService[*entities.Character]
	app         *fiber.App
}

func TestCollectionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CollectionHandlerTestSuite))
}

func (s *CollectionHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = collectionmock.NewMockService[*entities.Character](s.ctrl)

	handler, err := v1.NewCollectionHandler(&v1.CollectionHandlerConfig[*entities.Character]{
		Entity:  entities.CharactersCollection,
		Service: s.mockService,
	})
	s.Require().NoError(err)

	s.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	handler.Register(s.app.Group("/api"))
}

func (s *CollectionHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CollectionHandlerTestSuite) do(method, target, body string) (int, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer func() {
		_ = resp.Body.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, raw
}

func (s *CollectionHandlerTestSuite) decodeError(raw []byte) errors.Response {
	var body errors.Response
	s.Require().NoError(json.Unmarshal(raw, &body))
	return body
}

func (s *CollectionHandlerTestSuite) TestNewCollectionHandlerValidation() {
	_, err := v1.NewCollectionHandler(&v1.CollectionHandlerConfig[*entities.Character]{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *CollectionHandlerTestSuite) TestListAll() {
	s.mockService.EXPECT().
		List(gomock.Any(), &collection.ListInput{}).
		Return(&collection.ListOutput[*entities.Character]{Records: testutils.CreateTestCharacters()}, nil)

	status, raw := s.do(http.MethodGet, "/api/characters", "")
	s.Equal(http.StatusOK, status)

	var got []entities.Character
	s.Require().NoError(json.Unmarshal(raw, &got))
	s.Len(got, 2)
	s.Equal("Amber", got[0].Name)
}

func (s *CollectionHandlerTestSuite) TestListEmptyIsArray() {
	s.mockService.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(&collection.ListOutput[*entities.Character]{}, nil)

	status, raw := s.do(http.MethodGet, "/api/characters", "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(raw))
}

func (s *CollectionHandlerTestSuite) TestListWithQueryID() {
	id := int64(2)
	bennett := testutils.CreateTestCharacters()[1]
	s.mockService.EXPECT().
		List(gomock.Any(), &collection.ListInput{ID: &id}).
		Return(&collection.ListOutput[*entities.Character]{Record: bennett}, nil)

	status, raw := s.do(http.MethodGet, "/api/characters?id=2", "")
	s.Equal(http.StatusOK, status)

	var got entities.Character
	s.Require().NoError(json.Unmarshal(raw, &got))
	s.Equal("Bennett", got.Name)
}

func (s *CollectionHandlerTestSuite) TestListWithQueryIDNotFound() {
	s.mockService.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("character 9 not found"))

	status, raw := s.do(http.MethodGet, "/api/characters?id=9", "")
	s.Equal(http.StatusNotFound, status)
	s.Equal(errors.CodeNotFound, s.decodeError(raw).Code)
}

func (s *CollectionHandlerTestSuite) TestNonNumericID() {
	for _, target := range []string{"/api/characters?id=abc", "/api/characters/abc"} {
		status, raw := s.do(http.MethodGet, target, "")
		s.Equal(http.StatusInternalServerError, status, target)
		s.Equal(errors.CodeInvalidArgument, s.decodeError(raw).Code, target)
	}

	status, _ := s.do(http.MethodDelete, "/api/characters/1.5", "")
	s.Equal(http.StatusInternalServerError, status)
}

func (s *CollectionHandlerTestSuite) TestStoreFailureIsGeneric() {
	s.mockService.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(nil, errors.StoreUnavailable(io.ErrUnexpectedEOF, "failed to read /var/data/characters.json"))

	status, raw := s.do(http.MethodGet, "/api/characters", "")
	s.Equal(http.StatusInternalServerError, status)

	body := s.decodeError(raw)
	s.Equal(errors.CodeInternal, body.Code)
	s.Equal("internal server error", body.Message)
	s.NotContains(string(raw), "/var/data")
}

func (s *CollectionHandlerTestSuite) TestCreate() {
	created := testutils.CreateTestCharacters()[0]
	s.mockService.EXPECT().
		Create(gomock.Any(), &collection.CreateInput{Fields: map[string]any{"name": "Amber"}}).
		Return(&collection.CreateOutput[*entities.Character]{Record: created}, nil)

	status, raw := s.do(http.MethodPost, "/api/characters", `{"name":"Amber"}`)
	s.Equal(http.StatusCreated, status)

	var got entities.Character
	s.Require().NoError(json.Unmarshal(raw, &got))
	s.Equal(int64(1), got.ID)
}

func (s *CollectionHandlerTestSuite) TestCreateValidationFailure() {
	vErr := errors.NewValidationBuilder().
		RequiredField("name").
		Field("rarity", "must be between 1 and 5").
		Build()
	s.mockService.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.Wrap(vErr, "invalid character"))

	status, raw := s.do(http.MethodPost, "/api/characters", `{"rarity":9}`)
	s.Equal(http.StatusInternalServerError, status)

	body := s.decodeError(raw)
	s.Equal(errors.CodeInvalidArgument, body.Code)
	s.Contains(body.Fields, "name")
	s.Contains(body.Fields, "rarity")
}

func (s *CollectionHandlerTestSuite) TestCreateMalformedBody() {
	for _, body := range []string{`{not json`, `[1,2]`, `null`} {
		status, raw := s.do(http.MethodPost, "/api/characters", body)
		s.Equal(http.StatusInternalServerError, status, body)
		s.Equal(errors.CodeInvalidArgument, s.decodeError(raw).Code, body)
	}

	status, _ := s.do(http.MethodPost, "/api/characters", "")
	s.Equal(http.StatusInternalServerError, status)
}

func (s *CollectionHandlerTestSuite) TestUpdate() {
	updated := testutils.CreateTestCharacters()[1]
	updated.Rarity = 5
	s.mockService.EXPECT().
		ReplaceFields(gomock.Any(), &collection.ReplaceFieldsInput{
			ID:     2,
			Fields: map[string]any{"rarity": float64(5)},
		}).
		Return(&collection.ReplaceFieldsOutput[*entities.Character]{Record: updated}, nil)

	status, raw := s.do(http.MethodPut, "/api/characters/2", `{"rarity":5}`)
	s.Equal(http.StatusOK, status)

	var got entities.Character
	s.Require().NoError(json.Unmarshal(raw, &got))
	s.Equal(int64(5), got.Rarity)
}

func (s *CollectionHandlerTestSuite) TestUpdateNotFound() {
	s.mockService.EXPECT().
		ReplaceFields(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("character 7 not found"))

	status, _ := s.do(http.MethodPut, "/api/characters/7", `{"rarity":5}`)
	s.Equal(http.StatusNotFound, status)
}

func (s *CollectionHandlerTestSuite) TestDelete() {
	s.mockService.EXPECT().
		Delete(gomock.Any(), &collection.DeleteInput{ID: 1}).
		Return(&collection.DeleteOutput{}, nil)

	status, raw := s.do(http.MethodDelete, "/api/characters/1", "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"message":"character deleted"}`, string(raw))
}

func (s *CollectionHandlerTestSuite) TestDeleteNotFound() {
	s.mockService.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("character 1 not found"))

	status, _ := s.do(http.MethodDelete, "/api/characters/1", "")
	s.Equal(http.StatusNotFound, status)
}
