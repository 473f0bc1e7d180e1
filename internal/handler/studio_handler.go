package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/internal/apperr"
	"studio-service/internal/lifecycle"
	"studio-service/internal/middleware"
	"studio-service/internal/provision"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

// StudioHandler exposes the two privileged lifecycle operations.
type StudioHandler struct {
	provisioner *provision.Provisioner
	controller  *lifecycle.Controller
}

func NewStudioHandler(p *provision.Provisioner, c *lifecycle.Controller) *StudioHandler {
	return &StudioHandler{provisioner: p, controller: c}
}

// respondError maps a taxonomy error onto the HTTP boundary. Callers never
// see backend-specific error shapes; anything unmapped collapses to 500.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	code := apperr.CodeOf(err)
	prometheus.RecordError(string(code))
	if code == apperr.CodeInternal {
		log.Error("Operation failed", zap.Error(err))
	} else {
		log.Warn("Operation rejected", zap.String("code", string(code)), zap.Error(err))
	}
	return c.JSON(apperr.HTTPStatus(code), echo.Map{
		"error": apperr.MessageOf(err),
		"code":  string(code),
	})
}

// CreateStudio provisions a new studio with a bound admin identity.
func (h *StudioHandler) CreateStudio(c echo.Context) error {
	log := logger.FromContext(c)

	var req provision.CreateStudioInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse studio creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	result, err := h.provisioner.CreateStudio(req, middleware.CallerClaims(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"studio_id":          result.StudioID,
		"message":            "Studio created successfully",
		"initial_credential": result.InitialCredential,
	})
}

// ManageStudio archives, unarchives or permanently deletes a studio.
func (h *StudioHandler) ManageStudio(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		StudioID string `json:"studio_id"`
		Action   string `json:"action"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse studio manage request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	caller := middleware.CallerClaims(c)

	var err error
	var message string
	switch req.Action {
	case "archive":
		err = h.controller.SetArchived(req.StudioID, true, caller)
		message = "Studio archived"
	case "unarchive":
		err = h.controller.SetArchived(req.StudioID, false, caller)
		message = "Studio unarchived"
	case "delete":
		err = h.controller.DeleteStudio(req.StudioID, caller)
		message = "Studio permanently deleted"
	default:
		err = apperr.InvalidArgument("action must be one of archive, unarchive, delete")
	}
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": message})
}

// ListStudios returns the index of studios. Pass ?include_archived=true to
// include archived ones.
func (h *StudioHandler) ListStudios(c echo.Context) error {
	log := logger.FromContext(c)

	includeArchived := c.QueryParam("include_archived") == "true"
	studios, err := h.controller.List(includeArchived, middleware.CallerClaims(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, studios)
}
