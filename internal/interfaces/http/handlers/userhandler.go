package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appAuth "sobrio/internal/application/auth"
	appProgress "sobrio/internal/application/progress"
	"sobrio/internal/interfaces/http/middleware"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

type UserHandler struct {
	credentials CredentialService
	engine      *appProgress.Engine
	logger      logger.Interface
}

func NewUserHandler(credentials CredentialService, engine *appProgress.Engine, logger logger.Interface) *UserHandler {
	return &UserHandler{
		credentials: credentials,
		engine:      engine,
		logger:      logger,
	}
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Requête invalide")
		return
	}

	userID := middleware.UserID(c)
	if err := h.credentials.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Mot de passe mis à jour", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Requête invalide")
		return
	}

	userID := middleware.UserID(c)
	publicUser, err := h.credentials.UpdateProfile(c.Request.Context(), userID, appAuth.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profil mis à jour", gin.H{"user": publicUser})
}

func (h *UserHandler) GetStats(c *gin.Context) {
	userID := middleware.UserID(c)

	stats, err := h.engine.Stats(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"stats": stats})
}

func (h *UserHandler) GetBadges(c *gin.Context) {
	userID := middleware.UserID(c)

	badges, err := h.engine.ListBadges(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"badges": badges})
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.credentials.DeleteAccount(c.Request.Context(), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Compte supprimé", nil)
}
