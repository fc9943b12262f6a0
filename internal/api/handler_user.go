package api

import (
	"errors"
	"log"
	"net/http"

	"dailydiet/internal/account"
	"dailydiet/pkg/middleware"
	"dailydiet/pkg/models"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	Accounts     *account.Service
	SecureCookie bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts *account.Service, secureCookie bool) *UserHandler {
	return &UserHandler{Accounts: accounts, SecureCookie: secureCookie}
}

type usersResponse struct {
	Users []models.UserProfile `json:"users"`
}

type loginResponse struct {
	User *models.User `json:"user"`
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user keyed by a fresh session token and sets the sessionId cookie. Fails when a session cookie is already present.
// @Tags         users
// @Accept       json
// @Param        request  body  models.RegisterRequest  true  "Register request"
// @Success      201
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	log.Printf("[API] Register correlation_id=%s", correlationID)

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Accounts.Register(c.Request.Context(), middleware.GetSessionCookie(c), req)
	if errors.Is(err, account.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, middleware.UnauthorizedBody)
		return
	}
	if err != nil {
		log.Printf("[API] Error registering user: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	middleware.SetSessionCookie(c, token, h.SecureCookie)
	c.Status(http.StatusCreated)
}

// Login godoc
// @Summary      Log in
// @Description  Looks up a user by email and password and always issues a new sessionId cookie. user is null when nothing matched.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Login request"
// @Success      200      {object}  loginResponse
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	log.Printf("[API] Login correlation_id=%s", correlationID)

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.Accounts.Login(c.Request.Context(), req)
	if err != nil {
		log.Printf("[API] Error logging in: %v correlation_id=%s", err, correlationID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	middleware.SetSessionCookie(c, token, h.SecureCookie)
	c.JSON(http.StatusOK, loginResponse{User: user})
}

// ListUsers godoc
// @Summary      List users
// @Description  Returns the name, age and weight of every registered user
// @Tags         users
// @Produce      json
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	profiles, err := h.Accounts.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("[API] Error listing users: %v correlation_id=%s", err, middleware.GetCorrelationID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, usersResponse{Users: profiles})
}
