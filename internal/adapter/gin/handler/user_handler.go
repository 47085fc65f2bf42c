package handler

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating or
// replacing a user.
type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=50"`
	LastName  string `json:"lastName" binding:"required,min=2,max=50"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Address   string `json:"address" binding:"omitempty,max=200"`
}

// UserResponse represents the HTTP response for user data.
type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

func toHTTPResponse(u *user.UserResponse) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Address:   u.Address,
	}
}

func toHTTPResponses(users []user.UserResponse) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toHTTPResponse(&users[i])
	}
	return out
}

func toUsecaseRequest(req CreateUserRequest) user.CreateUserRequest {
	return user.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address:   req.Address,
	}
}

// formatBindingError converts validator.ValidationErrors into a message
// naming every field that failed.
func formatBindingError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

// parseID extracts the numeric :id path parameter.
func parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "User ID must be a valid number")
		return 0, false
	}
	return id, true
}

// SearchUsers handles GET /api/users. With no query parameters it lists
// every user; otherwise it matches on the supplied name fragments.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	firstName := c.Query("firstName")
	lastName := c.Query("lastName")

	users, err := h.uc.SearchUsers(c.Request.Context(), firstName, lastName)
	if err != nil {
		h.log.Error("search users failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPResponses(users))
}

// GetUser handles GET /api/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get user failed", zap.Int64("id", id), zap.Error(err))
		respondError(c, err)
		return
	}
	if resp == nil {
		respondError(c, apperrors.NewNotFoundError("user", fmt.Sprintf("User not found with id: %d", id)))
		return
	}

	c.JSON(http.StatusOK, toHTTPResponse(resp))
}

// CreateUser handles POST /api/users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request", zap.Error(err))
		writeError(c, http.StatusBadRequest, formatBindingError(err))
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), toUsecaseRequest(req))
	if err != nil {
		h.log.Error("create user failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHTTPResponse(resp))
}

// UpdateUser handles PUT /api/users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request", zap.Int64("id", id), zap.Error(err))
		writeError(c, http.StatusBadRequest, formatBindingError(err))
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), id, toUsecaseRequest(req))
	if err != nil {
		h.log.Error("update user failed", zap.Int64("id", id), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPResponse(resp))
}

// DeleteUser handles DELETE /api/users/:id. Deleting an unknown ID still
// returns 204.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		h.log.Error("delete user failed", zap.Int64("id", id), zap.Error(err))
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadUsers handles POST /api/users/upload. The uploaded file is CSV
// text with a header line followed by firstName,lastName,email,address
// rows. Parsing completes before any persistence call, so a malformed
// line aborts the whole upload with 400 and leaves the store unchanged.
func (h *UserHandler) UploadUsers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.log.Warn("upload missing file field", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.Warn("failed to open uploaded file", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}
	defer f.Close()

	requests, err := parseUserCSV(f)
	if err != nil {
		h.log.Warn("malformed CSV upload", zap.String("file", fileHeader.Filename), zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	saved, err := h.uc.ImportUsers(c.Request.Context(), requests)
	if err != nil {
		h.log.Error("import users failed", zap.Int("count", len(requests)), zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, toHTTPResponses(saved))
}

// parseUserCSV reads the whole CSV stream into create requests. The first
// line is a header and is discarded. Each data line must carry at least
// the four ordered fields; extra fields are ignored.
func parseUserCSV(r io.Reader) ([]user.CreateUserRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Header line. An empty stream yields an empty batch.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return []user.CreateUserRequest{}, nil
		}
		return nil, err
	}

	var requests []user.CreateUserRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", len(requests)+2, len(record))
		}
		requests = append(requests, user.CreateUserRequest{
			FirstName: record[0],
			LastName:  record[1],
			Email:     record[2],
			Address:   record[3],
		})
	}

	if requests == nil {
		requests = []user.CreateUserRequest{}
	}
	return requests, nil
}

// GetUsersByDomain handles GET /api/users/search/by-domain. The domain
// query parameter is the literal email suffix, e.g. "@example.com".
func (h *UserHandler) GetUsersByDomain(c *gin.Context) {
	domain := c.Query("domain")

	users, err := h.uc.GetUsersByEmailDomain(c.Request.Context(), domain)
	if err != nil {
		h.log.Error("get users by domain failed", zap.String("domain", domain), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPResponses(users))
}
