package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sobrio/internal/domain/user"
	"sobrio/internal/infrastructure/session"
	"sobrio/internal/shared/config"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

const (
	ContextKeyUserID       = "user_id"
	ContextKeyUserRole     = "user_role"
	ContextKeySessionToken = "session_token"
)

type SessionAuthMiddleware struct {
	sessions     *session.Store
	users        user.Repository
	cookieConfig config.CookieConfig
	logger       logger.Interface
}

func NewSessionAuthMiddleware(sessions *session.Store, users user.Repository, cookieConfig config.CookieConfig, logger logger.Interface) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		sessions:     sessions,
		users:        users,
		cookieConfig: cookieConfig,
		logger:       logger,
	}
}

// RequireAuth resolves the session cookie to a user. A session whose user
// no longer exists is destroyed lazily and the request is treated as
// unauthenticated.
func (m *SessionAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetSessionToken(c, m.cookieConfig)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentification requise")
			c.Abort()
			return
		}

		summary, err := m.sessions.Get(c.Request.Context(), token)
		if err != nil {
			m.logger.Errorw("failed to read session", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Session invalide")
			c.Abort()
			return
		}
		if summary == nil {
			utils.ClearSessionCookie(c, m.cookieConfig)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Session expirée")
			c.Abort()
			return
		}

		existing, err := m.users.GetByID(c.Request.Context(), summary.UserID)
		if err != nil {
			m.logger.Errorw("failed to load session user", "user_id", summary.UserID, "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Session invalide")
			c.Abort()
			return
		}
		if existing == nil {
			if err := m.sessions.Destroy(c.Request.Context(), token); err != nil {
				m.logger.Warnw("failed to destroy orphaned session", "error", err)
			}
			utils.ClearSessionCookie(c, m.cookieConfig)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Session expirée")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, summary.UserID)
		c.Set(ContextKeyUserRole, string(summary.Role))
		c.Set(ContextKeySessionToken, token)

		c.Next()
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(c *gin.Context) uint {
	id, _ := c.Get(ContextKeyUserID)
	userID, _ := id.(uint)
	return userID
}
