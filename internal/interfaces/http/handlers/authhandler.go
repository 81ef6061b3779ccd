package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sobrio/internal/application/auth"
	"sobrio/internal/domain/user"
	"sobrio/internal/infrastructure/session"
	"sobrio/internal/shared/config"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

type AuthHandler struct {
	credentials  CredentialService
	sessions     *session.Store
	cookieConfig config.CookieConfig
	logger       logger.Interface
}

func NewAuthHandler(
	credentials CredentialService,
	sessions *session.Store,
	cookieConfig config.CookieConfig,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		credentials:  credentials,
		sessions:     sessions,
		cookieConfig: cookieConfig,
		logger:       logger,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Email et mot de passe requis")
		return
	}

	publicUser, err := h.credentials.Register(c.Request.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.openSession(c, publicUser)

	utils.SuccessResponse(c, http.StatusOK, "Inscription réussie", gin.H{"user": publicUser})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Email et mot de passe requis")
		return
	}

	publicUser, err := h.credentials.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.openSession(c, publicUser)

	utils.SuccessResponse(c, http.StatusOK, "Connexion réussie", gin.H{"user": publicUser})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := utils.GetSessionToken(c, h.cookieConfig)
	if token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			h.logger.Warnw("failed to destroy session", "error", err)
		}
	}
	utils.ClearSessionCookie(c, h.cookieConfig)

	utils.SuccessResponse(c, http.StatusOK, "Déconnexion réussie", nil)
}

// Me resolves the session itself rather than going through RequireAuth so
// an anonymous caller gets a 401 body with an explicit null user.
func (h *AuthHandler) Me(c *gin.Context) {
	token := utils.GetSessionToken(c, h.cookieConfig)
	if token == "" {
		h.unauthenticated(c)
		return
	}

	summary, err := h.sessions.Get(c.Request.Context(), token)
	if err != nil || summary == nil {
		h.unauthenticated(c)
		return
	}

	publicUser, err := h.credentials.GetUserByID(c.Request.Context(), summary.UserID)
	if err != nil {
		// The account disappeared underneath the session; drop it.
		if destroyErr := h.sessions.Destroy(c.Request.Context(), token); destroyErr != nil {
			h.logger.Warnw("failed to destroy orphaned session", "error", destroyErr)
		}
		utils.ClearSessionCookie(c, h.cookieConfig)
		h.unauthenticated(c)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"user": publicUser})
}

func (h *AuthHandler) unauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"user":    nil,
		"message": "Non authentifié",
	})
}

// openSession issues a session token and sets the cookie. A failure here
// is logged but does not undo the completed registration or login.
func (h *AuthHandler) openSession(c *gin.Context, publicUser *user.PublicUser) {
	token, err := h.sessions.Create(c.Request.Context(), session.Summary{
		UserID:    publicUser.ID,
		Email:     publicUser.Email,
		FirstName: publicUser.FirstName,
		LastName:  publicUser.LastName,
		Role:      publicUser.Role,
	})
	if err != nil {
		h.logger.Errorw("failed to create session", "user_id", publicUser.ID, "error", err)
		return
	}

	maxAge := int(h.sessions.TTL().Seconds())
	utils.SetSessionCookie(c, h.cookieConfig, token, maxAge)
}
