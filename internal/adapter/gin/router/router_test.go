package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"users-api/internal/adapter/db/gormstore"
	"users-api/internal/adapter/gin/handler"
	usecase "users-api/internal/usecase/user"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// RouterTestSuite drives the full HTTP stack against an in-memory SQLite store.
type RouterTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(s.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.T().Cleanup(func() { _ = sqlDB.Close() })
	s.Require().NoError(gormstore.Migrate(db))
	s.db = db

	repo := gormstore.NewUserRepo(db, log)
	uc := usecase.New(repo, log)

	s.router = SetupRouter(
		handler.NewUserHandler(uc, log),
		handler.NewHealthHandler(repo, "users-api", log),
		Options{SwaggerEnabled: true},
		log,
	)
}

func (s *RouterTestSuite) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) listUsers() []handler.UserResponse {
	w := s.do(http.MethodGet, "/users", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp handler.ListUsersResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Users
}

func (s *RouterTestSuite) TestListUsers_EmptyStore() {
	w := s.do(http.MethodGet, "/users", "", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"users":[]}`, w.Body.String())
}

func (s *RouterTestSuite) TestCreateThenList() {
	w := s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@example.com"}`, nil)
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Empty(w.Body.String())

	users := s.listUsers()
	s.Require().Len(users, 1)
	s.NotEmpty(users[0].ID)
	s.Equal("Ada", users[0].Name)
	s.Equal("ada@example.com", users[0].Email)
}

func (s *RouterTestSuite) TestCreate_DuplicateEmailsAllowed() {
	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@example.com"}`, nil)
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	users := s.listUsers()
	s.Require().Len(users, 2)
	s.NotEqual(users[0].ID, users[1].ID)
}

func (s *RouterTestSuite) TestCreate_InvalidBodyLeavesStoreUnchanged() {
	bodies := []string{
		`{"email":"ada@example.com"}`,
		`{"name":"Ada"}`,
		`{"name":"Ada","email":"nope"}`,
		`{"name":1,"email":"ada@example.com"}`,
		`not json`,
	}
	for _, body := range bodies {
		w := s.do(http.MethodPost, "/users", body, nil)
		s.Equal(http.StatusBadRequest, w.Code, body)
	}

	s.Empty(s.listUsers())
}

func (s *RouterTestSuite) TestCreate_EmptyNameAccepted() {
	w := s.do(http.MethodPost, "/users", `{"name":"","email":"anon@example.com"}`, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	users := s.listUsers()
	s.Require().Len(users, 1)
	s.Equal("", users[0].Name)
}

func (s *RouterTestSuite) TestDelete_RemovesUser() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@example.com"}`, nil).Code)
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/users", `{"name":"Bob","email":"bob@example.com"}`, nil).Code)

	users := s.listUsers()
	s.Require().Len(users, 2)

	w := s.do(http.MethodDelete, "/users/"+users[0].ID, "", nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())

	remaining := s.listUsers()
	s.Require().Len(remaining, 1)
	s.Equal(users[1].ID, remaining[0].ID)

	// deleting again is a miss
	w = s.do(http.MethodDelete, "/users/"+users[0].ID, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(handler.UserNotFoundMessage, w.Body.String())
}

func (s *RouterTestSuite) TestDelete_UnknownID() {
	w := s.do(http.MethodDelete, "/users/does-not-exist", "", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("User not found.", w.Body.String())
}

func (s *RouterTestSuite) TestDelete_MissingID() {
	w := s.do(http.MethodDelete, "/users", "", nil)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterTestSuite) TestStorageFailureIs500() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	s.Equal(http.StatusInternalServerError, s.do(http.MethodGet, "/users", "", nil).Code)
	s.Equal(http.StatusInternalServerError, s.do(http.MethodPost, "/users", `{"name":"Ada","email":"ada@example.com"}`, nil).Code)
	s.Equal(http.StatusInternalServerError, s.do(http.MethodDelete, "/users/abc", "", nil).Code)
	s.Equal(http.StatusServiceUnavailable, s.do(http.MethodGet, "/health", "", nil).Code)
}

func (s *RouterTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"healthy","service":"users-api"}`, w.Body.String())
}

func (s *RouterTestSuite) TestCORS_ReflectsOrigin() {
	w := s.do(http.MethodGet, "/users", "", map[string]string{"Origin": "http://example.test"})

	s.Equal(http.StatusOK, w.Code)
	s.Equal("http://example.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *RouterTestSuite) TestCORS_Preflight() {
	w := s.do(http.MethodOptions, "/users/abc", "", map[string]string{
		"Origin":                         "http://other.test",
		"Access-Control-Request-Method":  http.MethodDelete,
		"Access-Control-Request-Headers": "Content-Type",
	})

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("http://other.test", w.Header().Get("Access-Control-Allow-Origin"))
	s.Contains(w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func (s *RouterTestSuite) TestRequestID() {
	w := s.do(http.MethodGet, "/users", "", nil)
	s.NotEmpty(w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/users", "", map[string]string{"X-Request-ID": "trace-123"})
	s.Equal("trace-123", w.Header().Get("X-Request-ID"))
}

func (s *RouterTestSuite) TestOpenAPI() {
	w := s.do(http.MethodGet, "/openapi.json", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var doc map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	s.Equal("2.0", doc["swagger"])
	s.Contains(doc["paths"], "/users")
}

func TestSetupRouter_SwaggerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	r := SetupRouter(
		handler.NewUserHandler(usecase.New(nil, log), log),
		handler.NewHealthHandler(nil, "users-api", log),
		Options{},
		log,
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
