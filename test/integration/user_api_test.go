package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"
	"user-directory-service/internal/adapter/gin/router"
	"user-directory-service/internal/adapter/repository/postgres"
	"user-directory-service/internal/usecase/user"
)

// UserAPITestSuite exercises the full HTTP stack against an in-memory
// database: router → handler → usecase → repository.
type UserAPITestSuite struct {
	suite.Suite
	db     *gorm.DB
	engine *gin.Engine
}

func (s *UserAPITestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&postgres.UserSchema{}))
	s.db = db

	log := zaptest.NewLogger(s.T())
	repo := postgres.NewUserRepoPG(db, log)
	uc := user.New(repo, nil, log)
	h := handler.NewUserHandler(uc, log)

	s.engine = router.SetupRouter(h, nil, middleware.RateLimiterConfig{}, log)
}

func (s *UserAPITestSuite) request(method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *UserAPITestSuite) createUser(firstName, lastName, email, address string) handler.UserResponse {
	body, err := json.Marshal(handler.CreateUserRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Address:   address,
	})
	s.Require().NoError(err)

	w := s.request("POST", "/api/users", body)
	s.Require().Equal(http.StatusCreated, w.Code)

	var resp handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *UserAPITestSuite) userCount() int64 {
	var count int64
	s.Require().NoError(s.db.Model(&postgres.UserSchema{}).Count(&count).Error)
	return count
}

// TestCreateGetDeleteLifecycle walks a user through its full lifecycle.
func (s *UserAPITestSuite) TestCreateGetDeleteLifecycle() {
	created := s.createUser("Alice", "User", "alice@example.com", "Addr1")
	s.NotZero(created.ID)
	s.Equal("Alice", created.FirstName)
	s.Equal("User", created.LastName)
	s.Equal("alice@example.com", created.Email)
	s.Equal("Addr1", created.Address)

	w := s.request("GET", fmt.Sprintf("/api/users/%d", created.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	var fetched handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	s.Equal(created, fetched)

	w = s.request("DELETE", fmt.Sprintf("/api/users/%d", created.ID), nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())

	w = s.request("GET", fmt.Sprintf("/api/users/%d", created.ID), nil)
	s.Equal(http.StatusNotFound, w.Code)

	var errResp handler.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &errResp))
	s.Equal(http.StatusNotFound, errResp.Status)
	s.Equal(fmt.Sprintf("User not found with id: %d", created.ID), errResp.Message)
	s.Equal(fmt.Sprintf("/api/users/%d", created.ID), errResp.Path)
	s.NotEmpty(errResp.Timestamp)
}

func (s *UserAPITestSuite) TestDeleteIsIdempotent() {
	w := s.request("DELETE", "/api/users/12345", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *UserAPITestSuite) TestUpdateReplacesAllFields() {
	created := s.createUser("Alice", "User", "alice@example.com", "Addr1")

	body, err := json.Marshal(handler.CreateUserRequest{
		FirstName: "Alicia",
		LastName:  "Person",
		Email:     "alicia@other.org",
	})
	s.Require().NoError(err)

	w := s.request("PUT", fmt.Sprintf("/api/users/%d", created.ID), body)
	s.Equal(http.StatusOK, w.Code)

	var updated handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	s.Equal(created.ID, updated.ID)
	s.Equal("Alicia", updated.FirstName)
	s.Equal("Person", updated.LastName)
	s.Equal("alicia@other.org", updated.Email)
	s.Empty(updated.Address)
}

func (s *UserAPITestSuite) TestUpdateMissingUserReturns404() {
	body, err := json.Marshal(handler.CreateUserRequest{
		FirstName: "Alice", LastName: "User", Email: "alice@example.com",
	})
	s.Require().NoError(err)

	w := s.request("PUT", "/api/users/999", body)
	s.Equal(http.StatusNotFound, w.Code)
	s.Zero(s.userCount())
}

func (s *UserAPITestSuite) TestSearchDispatch() {
	s.createUser("Alice", "Johnson", "alice@example.com", "")
	s.createUser("Alicia", "Smith", "alicia@example.com", "")
	s.createUser("Bob", "Johnson", "bob@other.org", "")

	list := func(path string) []handler.UserResponse {
		w := s.request("GET", path, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		var resp []handler.UserResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	s.Len(list("/api/users"), 3)
	s.Len(list("/api/users?firstName=ali"), 2)
	s.Len(list("/api/users?lastName=JOHNSON"), 2)

	both := list("/api/users?firstName=ali&lastName=john")
	s.Require().Len(both, 1)
	s.Equal("Alice", both[0].FirstName)
}

func (s *UserAPITestSuite) TestSearchByDomain() {
	seeded := s.createUser("Alice", "User", "alice@example.com", "")
	s.createUser("Bob", "User", "bob@other.org", "")

	w := s.request("GET", "/api/users/search/by-domain?domain=@example.com", nil)
	s.Equal(http.StatusOK, w.Code)

	var resp []handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp, 1)
	s.Equal(seeded.ID, resp[0].ID)
	s.Equal("alice@example.com", resp[0].Email)
}

func (s *UserAPITestSuite) uploadCSV(csvContent string) *httptest.ResponseRecorder {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "users.csv")
	s.Require().NoError(err)
	_, err = part.Write([]byte(csvContent))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest("POST", "/api/users/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *UserAPITestSuite) TestUploadCreatesAllRows() {
	w := s.uploadCSV("firstName,lastName,email,address\n" +
		"Alice,User,alice@example.com,Addr1\n" +
		"Bob,User,bob@example.com,Addr2\n")

	s.Equal(http.StatusOK, w.Code)

	var resp []handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp, 2)
	s.Equal("Alice", resp[0].FirstName)
	s.Equal("Bob", resp[1].FirstName)
	s.NotZero(resp[0].ID)
	s.NotZero(resp[1].ID)

	for _, r := range resp {
		w := s.request("GET", fmt.Sprintf("/api/users/%d", r.ID), nil)
		s.Equal(http.StatusOK, w.Code)
	}
}

func (s *UserAPITestSuite) TestUploadMalformedLineLeavesStoreUnchanged() {
	w := s.uploadCSV("firstName,lastName,email,address\n" +
		"Alice,User,alice@example.com,Addr1\n" +
		"Broken,Line\n")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Empty(w.Body.String())
	s.Zero(s.userCount())
}

func (s *UserAPITestSuite) TestUploadDuplicateEmailRollsBackWholeBatch() {
	s.createUser("Alice", "User", "alice@example.com", "")

	w := s.uploadCSV("firstName,lastName,email,address\n" +
		"Bob,User,bob@example.com,Addr\n" +
		"Dup,User,alice@example.com,Addr\n")

	s.Equal(http.StatusBadRequest, w.Code)
	s.EqualValues(1, s.userCount())
}

func (s *UserAPITestSuite) TestHealthEndpoint() {
	w := s.request("GET", "/health", nil)
	s.Equal(http.StatusOK, w.Code)
}

func TestUserAPITestSuite(t *testing.T) {
	suite.Run(t, new(UserAPITestSuite))
}
