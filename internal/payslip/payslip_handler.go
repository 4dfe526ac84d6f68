package payslip

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go-tutorhub/internal/middleware"
	paysliperrors "go-tutorhub/internal/payslip/errors"
	"go-tutorhub/internal/shared/apperror"
	"go-tutorhub/internal/shared/contextutil"
	"go-tutorhub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PermissionGate answers capability checks such as "payslip:admin".
type PermissionGate interface {
	HasPermission(ctx context.Context, userID, capability string) (bool, error)
}

type Handler struct {
	service Service
	gate    PermissionGate
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, gate PermissionGate, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payslip.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.handler")
	}
	return &Handler{service: service, gate: gate, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("payslip request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("payslip request rejected",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeValidationError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, apperror.CodeValidation, apperror.MapValidationError(err).Error(), nil)
}

// actor builds the policy view of the caller. A failing permission gate
// degrades to a non-admin actor.
func (h *Handler) actor(c *gin.Context) (Actor, context.Context, bool) {
	ctx := contextutil.WithLogger(c.Request.Context(), contextutil.GetLogger(c.Request.Context(), h.logger))

	userID := c.GetString("user_id")
	id, err := uuid.Parse(userID)
	if err != nil {
		h.writeServiceError(c, apperror.ErrUnauthenticated)
		return Actor{}, ctx, false
	}

	a := Actor{ID: id}
	if h.gate != nil {
		admin, err := h.gate.HasPermission(ctx, userID, AdminCapability)
		if err != nil {
			h.logger.Warn("permission gate failed", zap.String("user_id", userID), zap.Error(err))
		}
		a.Admin = admin && err == nil
	}
	return a, ctx, true
}

// expectedVersion prefers If-Match over the body version. 0 means none.
func expectedVersion(c *gin.Context, body *int64) (int64, error) {
	if raw := strings.TrimSpace(c.GetHeader("If-Match")); raw != "" {
		raw = strings.TrimPrefix(raw, "W/")
		raw = strings.Trim(raw, `"`)
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 1 {
			return 0, apperror.InvalidField("If-Match")
		}
		return v, nil
	}
	if body != nil {
		if *body < 1 {
			return 0, apperror.InvalidField("version")
		}
		return *body, nil
	}
	return 0, nil
}

// bindOptional binds a JSON body when one was sent.
func bindOptional(c *gin.Context, req any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(req)
}

func (h *Handler) respond(c *gin.Context, resp PayslipResponse, err error) {
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("ETag", fmt.Sprintf(`"%d"`, resp.Version))
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Generate(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var req GeneratePayslipRequest
	if err := bindOptional(c, &req); err != nil {
		middleware.StoreIdempotentResponse(c, h.rdb, 0, nil)
		writeValidationError(c, err)
		return
	}

	resp, err := h.service.Generate(ctx, actor, req)
	if err != nil {
		middleware.StoreIdempotentResponse(c, h.rdb, 0, nil)
		h.writeServiceError(c, err)
		return
	}

	middleware.StoreIdempotentResponse(c, h.rdb, http.StatusCreated, resp)
	c.Header("ETag", fmt.Sprintf(`"%d"`, resp.Version))
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}
	resp, err := h.service.GetByID(ctx, actor, c.Param("id"))
	h.respond(c, resp, err)
}

func (h *Handler) GetMine(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}
	resp, err := h.service.GetMine(ctx, actor)
	h.respond(c, resp, err)
}

func (h *Handler) ListMine(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}
	resp, err := h.service.ListMine(ctx, actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var filter ListPayslipsFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeValidationError(c, err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	resp, total, err := h.service.List(ctx, actor, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) Export(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var filter ListPayslipsFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeValidationError(c, err)
		return
	}

	data, err := h.service.ExportRegister(ctx, actor, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := "payslip_register.xlsx"
	if filter.PayPeriod != "" {
		filename = fmt.Sprintf("payslip_register_%s.xlsx", filter.PayPeriod)
	}
	response.Attachment(c, filename, xlsxContentType, data)
}

func (h *Handler) History(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}
	resp, err := h.service.History(ctx, actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.SetStatus(ctx, actor, c.Param("id"), req.Status, version)
	h.respond(c, resp, err)
}

// Transition serves the per-trigger shortcuts (submit, approve, ...).
func (h *Handler) Transition(trigger Trigger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ctx, ok := h.actor(c)
		if !ok {
			return
		}

		var req VersionRequest
		if err := bindOptional(c, &req); err != nil {
			writeValidationError(c, err)
			return
		}
		version, err := expectedVersion(c, req.Version)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}

		resp, err := h.service.ApplyTransition(ctx, actor, c.Param("id"), trigger, version)
		h.respond(c, resp, err)
	}
}

func (h *Handler) AddLineItem(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	kind, err := ParseRouteKind(c.Param("kind"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if kind == KindEarning {
		h.writeServiceError(c, paysliperrors.ErrEarningsReadOnly)
		return
	}

	var req AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.AddLineItem(ctx, actor, c.Param("id"), kind, req, version)
	h.respond(c, resp, err)
}

// UpdateLineItem also serves earnings, which take a different body.
func (h *Handler) UpdateLineItem(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	kind, err := ParseRouteKind(c.Param("kind"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if kind == KindEarning {
		var req UpdateEarningRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeValidationError(c, err)
			return
		}
		version, err := expectedVersion(c, req.Version)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		resp, err := h.service.UpdateEarning(ctx, actor, c.Param("id"), c.Param("itemId"), req, version)
		h.respond(c, resp, err)
		return
	}

	var req UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.UpdateLineItem(ctx, actor, c.Param("id"), kind, c.Param("itemId"), req, version)
	h.respond(c, resp, err)
}

func (h *Handler) RemoveLineItem(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	kind, err := ParseRouteKind(c.Param("kind"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req VersionRequest
	if err := bindOptional(c, &req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.RemoveLineItem(ctx, actor, c.Param("id"), kind, c.Param("itemId"), version)
	h.respond(c, resp, err)
}

func (h *Handler) AddQuery(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var req AddQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.AddQuery(ctx, actor, c.Param("id"), req, version)
	h.respond(c, resp, err)
}

func (h *Handler) UpdateQuery(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var req UpdateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.UpdateQuery(ctx, actor, c.Param("id"), c.Param("queryId"), req, version)
	h.respond(c, resp, err)
}

func (h *Handler) ResolveQuery(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var req ResolveQueryRequest
	if err := bindOptional(c, &req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ResolveQuery(ctx, actor, c.Param("id"), c.Param("queryId"), req, version)
	h.respond(c, resp, err)
}

func (h *Handler) DeleteQuery(c *gin.Context) {
	actor, ctx, ok := h.actor(c)
	if !ok {
		return
	}

	var req VersionRequest
	if err := bindOptional(c, &req); err != nil {
		writeValidationError(c, err)
		return
	}
	version, err := expectedVersion(c, req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.DeleteQuery(ctx, actor, c.Param("id"), c.Param("queryId"), version)
	h.respond(c, resp, err)
}
