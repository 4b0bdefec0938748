// Package http provides HTTP handlers for the isolation control API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/isolator/internal/httputil"
	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/http/dto"
	isolationUseCase "github.com/allisson/isolator/internal/isolation/usecase"
	customValidation "github.com/allisson/isolator/internal/validation"
)

// IsolationHandler exposes the ControlSurface over HTTP.
type IsolationHandler struct {
	control isolationUseCase.ControlSurface
	logger  *slog.Logger
}

// NewIsolationHandler creates a new isolation handler with required dependencies.
func NewIsolationHandler(control isolationUseCase.ControlSurface, logger *slog.Logger) *IsolationHandler {
	return &IsolationHandler{
		control: control,
		logger:  logger,
	}
}

// StatusHandler returns the engine snapshot.
// GET /v1/isolation/status - Returns 200 OK.
func (h *IsolationHandler) StatusHandler(c *gin.Context) {
	status := h.control.Status(c.Request.Context())
	c.JSON(http.StatusOK, dto.MapStatusToResponse(status))
}

// EnableHandler turns isolation on.
// POST /v1/isolation/enable - Returns 200 OK with the resulting status.
func (h *IsolationHandler) EnableHandler(c *gin.Context) {
	ctx := c.Request.Context()
	h.control.Enable(ctx)
	c.JSON(http.StatusOK, dto.MapStatusToResponse(h.control.Status(ctx)))
}

// DisableHandler turns isolation off; requests then pass through unchanged.
// POST /v1/isolation/disable - Returns 200 OK with the resulting status.
func (h *IsolationHandler) DisableHandler(c *gin.Context) {
	ctx := c.Request.Context()
	h.control.Disable(ctx)
	c.JSON(http.StatusOK, dto.MapStatusToResponse(h.control.Status(ctx)))
}

// NewDomainCircuitHandler rotates the token of one first-party domain.
// POST /v1/isolation/domains/new-circuit - Returns 204 No Content.
func (h *IsolationHandler) NewDomainCircuitHandler(c *gin.Context) {
	var req dto.NewDomainCircuitRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.control.NewCircuitForDomain(c.Request.Context(), req.Domain); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// NewContainerCircuitHandler rotates the token of one container.
// POST /v1/isolation/containers/:id/new-circuit - Returns 204 No Content.
func (h *IsolationHandler) NewContainerCircuitHandler(c *gin.Context) {
	containerID, err := domain.ParseContainerID(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.control.NewCircuitForContainer(c.Request.Context(), containerID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ClearHandler discards all isolation state and starts a new session ("New Identity").
// POST /v1/isolation/clear - Returns 200 OK with the resulting status.
func (h *IsolationHandler) ClearHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.control.ClearIsolation(ctx); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapStatusToResponse(h.control.Status(ctx)))
}

// LookupCredentialsHandler returns the current credentials of a pair without creating any.
// GET /v1/isolation/credentials?domain=&container_id= - Returns 200 OK or 404 Not Found.
func (h *IsolationHandler) LookupCredentialsHandler(c *gin.Context) {
	firstParty := c.Query("domain")
	if err := customValidation.FirstPartyDomain.Validate(firstParty); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	containerID, err := domain.ParseContainerID(c.DefaultQuery("container_id", "0"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	creds, ok := h.control.LookupCredentials(c.Request.Context(), firstParty, containerID)
	if !ok {
		httputil.HandleErrorGin(c, domain.ErrCredentialsNotFound, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialsToResponse(creds))
}

// ResolveHandler reports the proxy a described request would be routed through without
// creating tokens or rotating the catch-all identity. Always 200 OK for a valid body.
// POST /v1/isolation/resolve
func (h *IsolationHandler) ResolveHandler(c *gin.Context) {
	var req dto.ResolveRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	res := h.control.Resolve(
		c.Request.Context(),
		req.Domain,
		domain.ContainerID(req.ContainerID),
		req.Proxy.ToDomain(),
	)

	c.JSON(http.StatusOK, dto.MapResolveToResponse(res))
}
