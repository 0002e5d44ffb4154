package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// sessionTTL bounds how long an issued token stays valid
const sessionTTL = 12 * time.Hour

// Session is one logged-in portal session
type Session struct {
	Token     string          `json:"token"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// SessionStore holds sessions in process memory. A restart logs everyone out,
// which matches how the portal is operated.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

func (s *SessionStore) Create(username string, role models.UserRole) Session {
	session := Session{
		Token:     uuid.New().String(),
		Username:  username,
		Role:      role,
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return Session{}, false
	}
	if time.Now().After(session.ExpiresAt) {
		s.Delete(token)
		return Session{}, false
	}
	return session, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ===== AUTH HANDLER =====

type AuthHandler struct {
	BaseHandler
	userService services.UserService
	sessions    *SessionStore
}

func NewAuthHandler(userService services.UserService, sessions *SessionStore, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
		sessions:    sessions,
	}
}

// Login exchanges credentials for a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	session := h.sessions.Create(user.Username, user.Role)

	h.LogRequest(c, "User logged in", "username", user.Username, "role", user.Role)
	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user": gin.H{
			"username": user.Username,
			"name":     user.Name,
			"role":     user.Role,
		},
	})
}

// Logout invalidates the current session token
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		h.sessions.Delete(token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	username := CurrentUsername(c)

	user, err := h.userService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ===== MIDDLEWARE =====

// AuthMiddleware resolves the bearer token to a session and stores the
// identity in the request context
func AuthMiddleware(sessions *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header missing or malformed"})
			c.Abort()
			return
		}

		session, ok := sessions.Get(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Session expired or invalid"})
			c.Abort()
			return
		}

		c.Set("username", session.Username)
		c.Set("user_role", session.Role)
		c.Next()
	}
}

// RequireRoleMiddleware restricts a route group to the given roles
func RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		c.Abort()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// CurrentUsername returns the authenticated username from the request context
func CurrentUsername(c *gin.Context) string {
	return c.GetString("username")
}

// CurrentRole returns the authenticated role from the request context
func CurrentRole(c *gin.Context) models.UserRole {
	role, _ := c.Get("user_role")
	r, _ := role.(models.UserRole)
	return r
}
