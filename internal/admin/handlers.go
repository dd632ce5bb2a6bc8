package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/routeregistry/internal/async"
	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/registry"
	"github.com/vyrodovalexey/routeregistry/internal/route"
	"github.com/vyrodovalexey/routeregistry/internal/util"
)

type handlers struct {
	repo   registry.Repository
	table  RouteTable
	logger observability.Logger
}

// refreshResponse is returned by POST /refresh.
type refreshResponse struct {
	Version uint64 `json:"version"`
	Routes  int    `json:"routes"`
}

// tableResponse is the published route table returned by GET /table.
type tableResponse struct {
	Version   uint64             `json:"version"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Routes    []route.Definition `json:"routes"`
}

func (h *handlers) listRoutes(c *gin.Context) {
	defs := registry.Collect(c.Request.Context(), h.repo)
	if defs == nil {
		defs = []route.Definition{}
	}
	c.JSON(http.StatusOK, defs)
}

func (h *handlers) getRoute(c *gin.Context) {
	id := c.Param("id")
	def, ok := registry.Find(c.Request.Context(), h.repo, id)
	if !ok {
		h.fail(c, util.NewRouteNotFoundError(id))
		return
	}
	c.JSON(http.StatusOK, def)
}

// saveRoute stores the request body under the id from the path. The body
// is read here and decoded by the registry when it resolves the deferred
// input.
func (h *handlers) saveRoute(c *gin.Context) {
	id := c.Param("id")
	ctx := util.ContextWithRouteID(c.Request.Context(), id)

	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, fmt.Errorf("%w: read request body: %w", util.ErrInvalidInput, err))
		return
	}

	err = h.repo.Save(ctx, decodeDefinition(body, id)).Wait(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", "/routes/"+id)
	c.Status(http.StatusCreated)
}

func (h *handlers) deleteRoute(c *gin.Context) {
	id := c.Param("id")
	ctx := util.ContextWithRouteID(c.Request.Context(), id)

	if err := h.repo.Delete(ctx, async.Just(id)).Wait(ctx); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) refresh(c *gin.Context) {
	if h.table == nil {
		h.unavailable(c, http.StatusNotImplemented, "route table is not configured")
		return
	}
	snap := h.table.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, refreshResponse{Version: snap.Version, Routes: len(snap.Routes)})
}

// getTable returns the route table as last published, which may lag the
// registry until the next refresh.
func (h *handlers) getTable(c *gin.Context) {
	if h.table == nil {
		h.unavailable(c, http.StatusNotImplemented, "route table is not configured")
		return
	}
	snap := h.table.Snapshot()
	if snap == nil {
		h.unavailable(c, http.StatusServiceUnavailable, "route table not loaded")
		return
	}

	routes := snap.Routes
	if routes == nil {
		routes = []route.Definition{}
	}
	c.JSON(http.StatusOK, tableResponse{Version: snap.Version, UpdatedAt: snap.UpdatedAt, Routes: routes})
}

func (h *handlers) getTableRoute(c *gin.Context) {
	if h.table == nil {
		h.unavailable(c, http.StatusNotImplemented, "route table is not configured")
		return
	}
	id := c.Param("id")
	def, ok := h.table.Lookup(id)
	if !ok {
		h.fail(c, util.NewRouteNotFoundError(id))
		return
	}
	c.JSON(http.StatusOK, def)
}

func (h *handlers) unavailable(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// fail logs err against the route id and writes the error response.
func (h *handlers) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	status := statusFor(err)
	logger := h.logger.WithContext(c.Request.Context()).With(
		observability.String("route_id", c.Param("id")),
		observability.Int("status", status),
		observability.Error(err),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("admin route request failed")
	} else {
		logger.Warn("admin route request rejected")
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": err.Error(),
	})
}

// statusFor maps registry errors to HTTP status codes.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, util.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, util.ErrInvalidDefinition), errors.Is(err, util.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeDefinition returns a deferred definition decoded from body. The
// id argument replaces any id in the body.
func decodeDefinition(body []byte, id string) async.Deferred[route.Definition] {
	return func(context.Context) (route.Definition, error) {
		var def route.Definition
		if err := json.Unmarshal(body, &def); err != nil {
			return route.Definition{}, fmt.Errorf("%w: decode route definition: %v", util.ErrInvalidInput, err)
		}
		def.ID = id
		return def, nil
	}
}
