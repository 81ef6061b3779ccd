package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appProgress "sobrio/internal/application/progress"
	"sobrio/internal/interfaces/http/middleware"
	"sobrio/internal/shared/logger"
	"sobrio/internal/shared/utils"
)

type ExerciseHandler struct {
	engine *appProgress.Engine
	logger logger.Interface
}

func NewExerciseHandler(engine *appProgress.Engine, logger logger.Interface) *ExerciseHandler {
	return &ExerciseHandler{
		engine: engine,
		logger: logger,
	}
}

type CreateSessionRequest struct {
	ExerciseID    uint `json:"exerciseId" binding:"required"`
	Duration      int  `json:"duration" binding:"required"`
	Completed     bool `json:"completed"`
	CravingBefore *int `json:"cravingBefore"`
	CravingAfter  *int `json:"cravingAfter"`
}

func (h *ExerciseHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "L'exercice et la durée sont requis")
		return
	}

	userID := middleware.UserID(c)
	exerciseSession, err := h.engine.RecordExerciseSession(c.Request.Context(), userID, appProgress.RecordSessionInput{
		ExerciseID:    req.ExerciseID,
		Duration:      req.Duration,
		Completed:     req.Completed,
		CravingBefore: req.CravingBefore,
		CravingAfter:  req.CravingAfter,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session enregistrée", gin.H{"session": exerciseSession})
}

func (h *ExerciseHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	sessions, err := h.engine.ListSessions(c.Request.Context(), userID, defaultListLimit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"sessions": sessions})
}
