package app

import (
	"context"
	"net/http"
	"time"

	"go-onboarding/internal/domain"
	"go-onboarding/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type healthHandler struct {
	db     *gorm.DB
	driver string
}

func newHealthHandler(db *gorm.DB, driver string) *healthHandler {
	return &healthHandler{db: db, driver: driver}
}

// Healthz reports liveness and, when the database answers a ping, readiness.
func (h *healthHandler) Healthz(c *gin.Context) {
	status := http.StatusOK
	ok := true

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		ok = false
	}

	c.JSON(status, gin.H{"ok": ok, "time": time.Now().UTC().Format(time.RFC3339)})
}

func (h *healthHandler) DebugDB(c *gin.Context) {
	ctx := c.Request.Context()

	var weeks, tasks int64
	if err := h.db.WithContext(ctx).Model(&domain.Week{}).Count(&weeks).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}
	if err := h.db.WithContext(ctx).Model(&domain.Task{}).Count(&tasks).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"driver": h.driver,
		"weeks":  weeks,
		"tasks":  tasks,
	}, nil)
}
