package template

import (
	"net/http"
	"strconv"

	"go-onboarding/internal/middleware"
	"go-onboarding/internal/shared/apperror"
	"go-onboarding/internal/shared/response"
	templateerrors "go-onboarding/internal/template/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("template.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("template.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("template request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) param(c *gin.Context, name string, invalid error) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		h.writeServiceError(c, invalid)
		return 0, false
	}
	return uint(n), true
}

func (h *Handler) templateID(c *gin.Context) (uint, bool) {
	return h.param(c, "id", templateerrors.ErrInvalidTemplateID)
}

func (h *Handler) sectionIDs(c *gin.Context) (uint, uint, bool) {
	tid, ok := h.templateID(c)
	if !ok {
		return 0, 0, false
	}
	sid, ok := h.param(c, "sectionId", templateerrors.ErrInvalidSectionID)
	return tid, sid, ok
}

func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	start, end, meta := response.PageBounds(c, len(resp))
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id}, nil)
}

func (h *Handler) Publish(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	resp, err := h.service.Publish(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Retire(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	resp, err := h.service.Retire(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AddSection(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AddSection(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateSection(c *gin.Context) {
	tid, sid, ok := h.sectionIDs(c)
	if !ok {
		return
	}

	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateSection(c.Request.Context(), tid, sid, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteSection(c *gin.Context) {
	tid, sid, ok := h.sectionIDs(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSection(c.Request.Context(), tid, sid); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": sid}, nil)
}

func (h *Handler) AddTask(c *gin.Context) {
	tid, sid, ok := h.sectionIDs(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AddTask(c.Request.Context(), tid, sid, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	tid, sid, ok := h.sectionIDs(c)
	if !ok {
		return
	}
	taskID, ok := h.param(c, "taskId", templateerrors.ErrInvalidTemplateTaskID)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateTask(c.Request.Context(), tid, sid, taskID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	tid, sid, ok := h.sectionIDs(c)
	if !ok {
		return
	}
	taskID, ok := h.param(c, "taskId", templateerrors.ErrInvalidTemplateTaskID)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), tid, sid, taskID); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": taskID}, nil)
}
