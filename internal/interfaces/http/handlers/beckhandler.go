package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appBeck "sobrio/internal/application/beck"
	"sobrio/internal/interfaces/http/middleware"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

type BeckHandler struct {
	journal *appBeck.Journal
	logger  logger.Interface
}

func NewBeckHandler(journal *appBeck.Journal, logger logger.Interface) *BeckHandler {
	return &BeckHandler{
		journal: journal,
		logger:  logger,
	}
}

type CreateBeckRequest struct {
	Situation           string `json:"situation" binding:"required"`
	Emotions            string `json:"emotions"`
	EmotionIntensity    int    `json:"emotionIntensity"`
	AutomaticThoughts   string `json:"automaticThoughts"`
	AlternativeThoughts string `json:"alternativeThoughts"`
}

func (h *BeckHandler) Create(c *gin.Context) {
	var req CreateBeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "La situation est requise")
		return
	}

	userID := middleware.UserID(c)
	analysis, err := h.journal.Create(c.Request.Context(), userID, appBeck.CreateInput{
		Situation:           req.Situation,
		Emotions:            req.Emotions,
		EmotionIntensity:    req.EmotionIntensity,
		AutomaticThoughts:   req.AutomaticThoughts,
		AlternativeThoughts: req.AlternativeThoughts,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Analyse enregistrée", gin.H{"analysis": analysis})
}

func (h *BeckHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	analyses, err := h.journal.List(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"analyses": analyses})
}
