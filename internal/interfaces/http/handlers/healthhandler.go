package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /health. The database ping degrades the status instead
// of failing the probe so a load balancer can tell "up" from "up but
// storage-impaired".
func (h *HealthHandler) Check(c *gin.Context) {
	status := "healthy"
	dbStatus := "up"

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
		dbStatus = "down"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"service":  "sobrio",
		"database": dbStatus,
	})
}
