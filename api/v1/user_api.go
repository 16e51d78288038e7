package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bloggerz/api/v1/request"
	"bloggerz/internal/metrics"
	"bloggerz/model"
	"bloggerz/service"
)

// UserAPI exposes HTTP handlers for registration/login/logout flows.
type UserAPI struct {
	service *service.UserService
	maxAge  int // token cookie lifetime in seconds
}

// NewUserAPI wires the service layer into the HTTP handlers.
func NewUserAPI(s *service.UserService, cookieMaxAge int) *UserAPI {
	return &UserAPI{service: s, maxAge: cookieMaxAge}
}

// Register handles new account creation.
func (u *UserAPI) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncRegister("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := &model.User{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Age:      req.Age,
	}
	if err := u.service.Register(c.Request.Context(), user); err != nil {
		if errors.Is(err, service.ErrUserExists) {
			metrics.IncRegister("duplicate")
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		metrics.IncRegister("internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.IncRegister("success")
	c.JSON(http.StatusOK, user)
}

// Login validates the credentials and sets the session token cookie.
func (u *UserAPI) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncLogin("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, token, err := u.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) {
			metrics.IncLogin("unauthorized")
			c.JSON(http.StatusBadRequest, "wrong credentials")
			return
		}
		metrics.IncLogin("internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.IncLogin("success")
	c.SetCookie("token", token, u.maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID.Hex(),
		"username": user.Username,
	})
}

// Profile returns the identity embedded in the verified session token.
func (u *UserAPI) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":       c.GetString("user_id"),
		"username": c.GetString("username"),
	})
}

// Logout clears the token cookie. Tokens are stateless, so the old value
// stays cryptographically valid until it expires; nothing is revoked here.
func (u *UserAPI) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, "Logged Out")
}
