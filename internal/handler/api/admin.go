package api

import (
	"errors"
	"net/http"

	resdto "gym-booking/internal/handler/dto/response"
	"gym-booking/internal/handler/httperr"
	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	schema    commands.SchemaCommands
	directory commands.DirectoryCommands
}

func NewAdminHandler(schema commands.SchemaCommands, directory commands.DirectoryCommands) *AdminHandler {
	return &AdminHandler{schema: schema, directory: directory}
}

// @Summary Bootstrap the booking schema
// @Description Idempotently creates or upgrades the booking table and its indexes
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BootstrapResponse
// @Failure 409 {object} resdto.BootstrapResponse "Duplicate active bookings block the unique index"
// @Failure 412 {object} resdto.BootstrapResponse "The session table is missing or unusable"
// @Failure 500 {object} resdto.BootstrapResponse
// @Router /admin/schema/bootstrap [post]
func (h *AdminHandler) BootstrapSchema(c *gin.Context) {
	report, err := h.schema.Bootstrap(c.Request.Context())

	status, msg := http.StatusOK, ""
	var (
		dupErr     *shared.DuplicateActiveBookingsError
		missingErr *shared.MissingDependencyError
	)
	switch {
	case err == nil:
	case errors.As(err, &dupErr):
		status, msg = http.StatusConflict, "Duplicate active bookings must be resolved before the unique index can be created"
	case errors.As(err, &missingErr):
		status, msg = http.StatusPreconditionFailed, missingErr.Error()
	default:
		status, msg = http.StatusInternalServerError, "Schema bootstrap failed"
	}
	if err != nil {
		_ = c.Error(err)
	}

	res, convErr := resdto.FromBootstrapReport(report, msg)
	if convErr != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, convErr, "Schema bootstrap failed", nil)
		return
	}
	c.JSON(status, res)
}

// @Summary Invalidate directory schema cache
// @Description Forget the discovered employee and card store mappings so the next lookup re-resolves them
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CacheInvalidationResponse
// @Router /admin/directory/cache/invalidate [post]
func (h *AdminHandler) InvalidateDirectoryCache(c *gin.Context) {
	n := h.directory.InvalidateSchemaCache(c.Request.Context())
	c.JSON(http.StatusOK, &resdto.CacheInvalidationResponse{Invalidated: n})
}
