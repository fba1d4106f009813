package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thaiba/mediatasks/internal/infrastructure/logger"
	"github.com/thaiba/mediatasks/internal/ports"
)

// MetaHandler serves the dashboard's form metadata and role lists.
type MetaHandler struct {
	metadata ports.MetadataService
	roles    ports.RolesService
	logger   *logger.Logger
}

// NewMetaHandler creates a new metadata handler
func NewMetaHandler(metadata ports.MetadataService, roles ports.RolesService, logger *logger.Logger) *MetaHandler {
	return &MetaHandler{
		metadata: metadata,
		roles:    roles,
		logger:   logger,
	}
}

// GetMetadata handles GET /api/v1/metadata
func (h *MetaHandler) GetMetadata(c echo.Context) error {
	meta, err := h.metadata.GetMetadata(c.Request().Context())
	if err != nil {
		h.logger.Error("Get metadata failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, meta)
}

// GetRoles handles GET /api/v1/roles
func (h *MetaHandler) GetRoles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.roles.Roles())
}
