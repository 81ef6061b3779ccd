package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appProgress "sobrio/internal/application/progress"
	"sobrio/internal/interfaces/http/middleware"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

const defaultListLimit = 100

type CravingHandler struct {
	engine *appProgress.Engine
	logger logger.Interface
}

func NewCravingHandler(engine *appProgress.Engine, logger logger.Interface) *CravingHandler {
	return &CravingHandler{
		engine: engine,
		logger: logger,
	}
}

type CreateCravingRequest struct {
	Intensity *int     `json:"intensity" binding:"required"`
	Triggers  []string `json:"triggers"`
	Emotions  []string `json:"emotions"`
	Notes     string   `json:"notes"`
}

func (h *CravingHandler) Create(c *gin.Context) {
	var req CreateCravingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "L'intensité est requise")
		return
	}

	userID := middleware.UserID(c)
	entry, err := h.engine.RecordCraving(c.Request.Context(), userID, appProgress.RecordCravingInput{
		Intensity: *req.Intensity,
		Triggers:  req.Triggers,
		Emotions:  req.Emotions,
		Notes:     req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Craving enregistré", gin.H{"entry": entry})
}

func (h *CravingHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	entries, err := h.engine.ListCravings(c.Request.Context(), userID, defaultListLimit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"entries": entries})
}

func (h *CravingHandler) Stats(c *gin.Context) {
	userID := middleware.UserID(c)

	days := appProgress.DefaultTrendWindowDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Le paramètre days doit être un entier positif")
			return
		}
		days = parsed
	}

	trend, err := h.engine.CravingStats(c.Request.Context(), userID, days)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"average": trend.Average,
		"trend":   trend.Trend,
	})
}
