package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appStrategy "sobrio/internal/application/strategy"
	"sobrio/internal/interfaces/http/middleware"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

type StrategyHandler struct {
	validator *appStrategy.Validator
	logger    logger.Interface
}

func NewStrategyHandler(validator *appStrategy.Validator, logger logger.Interface) *StrategyHandler {
	return &StrategyHandler{
		validator: validator,
		logger:    logger,
	}
}

type SubmitStrategiesRequest struct {
	Strategies []appStrategy.Input `json:"strategies"`
}

func (h *StrategyHandler) Submit(c *gin.Context) {
	var req SubmitStrategiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Requête invalide")
		return
	}

	userID := middleware.UserID(c)
	strategies, err := h.validator.Submit(c.Request.Context(), userID, req.Strategies)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"strategies": strategies,
		"count":      len(strategies),
		"message":    "Stratégies enregistrées",
	})
}

func (h *StrategyHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	strategies, err := h.validator.List(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"strategies": strategies})
}
