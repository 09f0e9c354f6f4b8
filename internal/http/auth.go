package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaamkrao/kaamkrao/internal/audit"
	"github.com/kaamkrao/kaamkrao/internal/auth"
	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// AuthController handles signup, login, logout and account endpoints.
type AuthController struct {
	service        *auth.Service
	sessionManager *auth.SessionManager
	rateLimiter    *auth.RateLimiter
	auditor        *audit.Service
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *auth.Service, sm *auth.SessionManager, rl *auth.RateLimiter, auditor *audit.Service) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sm,
		rateLimiter:    rl,
		auditor:        auditor,
	}
}

type signupRequest struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Role     entities.UserRole `json:"role"`
}

// Signup registers a new account and logs the caller in immediately.
func (ac *AuthController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Signup(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			respondBadRequest(c, "Email already in use")
		case errors.Is(err, auth.ErrNameRequired),
			errors.Is(err, auth.ErrEmailRequired),
			errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrInvalidRole),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "signup")
		}
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "signup session")
		return
	}

	if ac.auditor != nil {
		ac.auditor.LogAuth(user.ID, "signup", c.ClientIP(), nil)
	}
	respondCreated(c, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and issues a session. Invalid email and
// invalid password produce the same response.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	clientIP := c.ClientIP()
	email := auth.NormalizeEmail(req.Email)

	if ac.rateLimiter != nil {
		allowed, retryAfter := ac.rateLimiter.Allow(clientIP, email)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, Envelope{Success: false, Message: "too many login attempts"})
			return
		}
	}

	user, err := ac.service.Authenticate(email, req.Password)
	if err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(clientIP, email)
		}
		if ac.auditor != nil {
			ac.auditor.LogAuth(0, "login", clientIP, err)
		}
		respondUnauthorized(c, "Invalid credentials")
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, email)
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "login session")
		return
	}

	if ac.auditor != nil {
		ac.auditor.LogAuth(user.ID, "login", clientIP, nil)
	}
	respondOK(c, user)
}

// Logout revokes the caller's session. Revocation is terminal.
func (ac *AuthController) Logout(c *gin.Context) {
	user := auth.CurrentUser(c)

	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "logout")
		return
	}

	if ac.auditor != nil && user != nil {
		ac.auditor.LogAuth(user.ID, "logout", c.ClientIP(), nil)
	}
	respondMessage(c, "Logged out successfully")
}

// Me returns the authenticated user.
func (ac *AuthController) Me(c *gin.Context) {
	respondOK(c, auth.CurrentUser(c))
}

type profileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UpdateProfile changes the caller's display name and, when submitted,
// password. An empty password field leaves the stored hash alone.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	updated, err := ac.service.UpdateProfile(user.ID, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update profile")
		}
		return
	}

	respondOK(c, updated)
}

// DeleteUser removes an account. Only the account owner may delete it; the
// session is revoked alongside.
func (ac *AuthController) DeleteUser(c *gin.Context) {
	user := auth.CurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if id != user.ID {
		respondForbidden(c, "not authorized to delete this account")
		return
	}

	if err := ac.service.DeleteUser(id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}

	_ = ac.sessionManager.DestroySession(c.Request)

	if ac.auditor != nil {
		ac.auditor.LogResource(user.ID, entities.AuditEventAccount, "user_delete", "user", id, nil)
	}
	respondMessage(c, "User deleted successfully")
}

// CSRFToken hands the SPA the token it must echo in the X-CSRF-Token header
// on mutating requests. Only wired when CSRF protection is enabled.
func (ac *AuthController) CSRFToken(c *gin.Context) {
	respondOK(c, gin.H{"csrf_token": auth.GetCSRFToken(c)})
}
