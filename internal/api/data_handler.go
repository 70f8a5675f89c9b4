package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asuyou/anzen-web-api/internal/analytics"
	"github.com/asuyou/anzen-web-api/internal/logger"
	"github.com/asuyou/anzen-web-api/internal/models"
	"github.com/asuyou/anzen-web-api/internal/pipeline"
)

// defaultActivityLimit is used when the activity route gets no limit
// parameter.
const defaultActivityLimit = 10

// StatsEngine is the analytics boundary of the data handlers.
type StatsEngine interface {
	EventStatisticsByKey(ctx context.Context) ([]models.EventKeyStats, error)
	StatusDurationByHour(ctx context.Context, q analytics.StatusQuery) ([]models.StatusDuration, error)
	RecentActivity(ctx context.Context, n int64) (*models.Activity, error)
	Search(ctx context.Context, q analytics.SearchQuery) (*models.SearchResults, error)
}

// DataHandler serves the statistics and query routes.
type DataHandler struct {
	engine StatsEngine
	logger logger.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(engine StatsEngine, log logger.Logger) *DataHandler {
	return &DataHandler{engine: engine, logger: log}
}

// Test echoes the authenticated subject.
func (h *DataHandler) Test(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sub": claims.Sub})
}

// Stats returns the per-key telemetry statistics together with the hourly
// armed/disarmed totals. The two queries are independent reads.
func (h *DataHandler) Stats(c *gin.Context) {
	statusQuery, ok := h.statusQuery(c)
	if !ok {
		return
	}

	eventStats, err := h.engine.EventStatisticsByKey(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	hourlyTotals, err := h.engine.StatusDurationByHour(c.Request.Context(), statusQuery)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"eventStats":   eventStats,
			"hourlyTotals": hourlyTotals,
		},
	})
}

// Activity returns the most recent events and commands.
func (h *DataHandler) Activity(c *gin.Context) {
	limit := int64(defaultActivityLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	activity, err := h.engine.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": activity})
}

// Search returns filtered events and commands with joined references.
func (h *DataHandler) Search(c *gin.Context) {
	armed, ok := optionalBool(c, "armed")
	if !ok {
		return
	}

	results, err := h.engine.Search(c.Request.Context(), analytics.SearchQuery{
		Start:  optionalString(c, "start"),
		End:    optionalString(c, "end"),
		Armed:  armed,
		Device: optionalString(c, "device"),
		Plugin: optionalString(c, "plugin"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}

// statusQuery parses the optional status-duration filters, responding with
// 400 on a malformed armed flag.
func (h *DataHandler) statusQuery(c *gin.Context) (analytics.StatusQuery, bool) {
	armed, ok := optionalBool(c, "armed")
	if !ok {
		return analytics.StatusQuery{}, false
	}
	return analytics.StatusQuery{
		Start:  optionalString(c, "start"),
		End:    optionalString(c, "end"),
		Armed:  armed,
		Device: optionalString(c, "device"),
		Plugin: optionalString(c, "plugin"),
	}, true
}

// respondError translates the analytics error taxonomy into HTTP statuses.
func (h *DataHandler) respondError(c *gin.Context, err error) {
	var parseErr *pipeline.ParseError
	var validationErr *analytics.ValidationError

	switch {
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Query failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func optionalString(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

// optionalBool parses an optional boolean parameter; on a malformed value
// it writes a 400 response and reports failure.
func optionalBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a boolean"})
		return nil, false
	}
	return &v, true
}
