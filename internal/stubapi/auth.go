package stubapi

import (
	"log"
	"net/http"
	"strings"
	"time"

	"admindash-sync/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type handlers struct {
	store     *Store
	logger    *log.Logger
	jwtSecret []byte
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if h.store.passwords[req.Email] != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	var user *domain.ApplicationUser
	for _, u := range h.store.users {
		if u.Email == req.Email {
			user = u
			break
		}
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token issue failed"})
		return
	}
	refresh, err := randomToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token issue failed"})
		return
	}
	h.store.refresh[refresh] = user.ID

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": refresh,
		"user":         user,
	})
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	for _, u := range h.store.users {
		if u.Email == req.Email {
			c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
			return
		}
	}
	id, err := randomToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "id generation failed"})
		return
	}
	user := &domain.ApplicationUser{
		ID:        "u-" + id[:8],
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Roles:     []string{"Admin"},
	}
	h.store.users[user.ID] = user
	h.store.passwords[req.Email] = req.Password

	c.JSON(http.StatusCreated, user)
}

func (h *handlers) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(48 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

// authorized validates the bearer token and stashes the user id in the
// request context.
func (h *handlers) authorized(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
		return
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}
	c.Set("userID", sub)
	c.Next()
}

func (h *handlers) profile(c *gin.Context) {
	userID := c.GetString("userID")

	h.store.mu.Lock()
	user, ok := h.store.users[userID]
	h.store.mu.Unlock()

	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
