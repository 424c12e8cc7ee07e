package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/models"
	"github.com/Cyvadra/farewatch/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// HistoryReader is the read side of the history store
type HistoryReader interface {
	RecentChecks(routeName string, limit int) ([]models.PriceHistory, error)
	LatestCheck(routeName string) (*models.PriceHistory, error)
	RecentAlerts(limit int) ([]models.AlertRecord, error)
}

// SweepRunner runs one monitoring sweep on demand
type SweepRunner interface {
	RunCheck(ctx context.Context) *services.SweepSummary
	Routes() []config.Route
}

// RouteStatus pairs a configured route with its newest stored check
type RouteStatus struct {
	Route       config.Route         `json:"route"`
	LatestCheck *models.PriceHistory `json:"latest_check"`
}

// HistoryHandler serves the stored check and alert history
type HistoryHandler struct {
	store   HistoryReader
	monitor SweepRunner
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(store HistoryReader, monitor SweepRunner) *HistoryHandler {
	return &HistoryHandler{
		store:   store,
		monitor: monitor,
	}
}

// GetChecks retrieves recent check results, optionally filtered by route
func (h *HistoryHandler) GetChecks(c *gin.Context) {
	limit := parseLimit(c)
	route := c.Query("route")

	checks, err := h.store.RecentChecks(route, limit)
	if err != nil {
		log.Printf("Failed to retrieve checks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checks": checks,
		"route":  route,
		"limit":  limit,
	})
}

// GetLatestCheck retrieves the newest check result for the route named by
// ?route=. Route names may contain '/', so they are not a path segment.
func (h *HistoryHandler) GetLatestCheck(c *gin.Context) {
	route := c.Query("route")
	if route == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "route query parameter is required"})
		return
	}

	check, err := h.store.LatestCheck(route)
	if err != nil {
		log.Printf("Failed to retrieve latest check for %s: %v", route, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve latest check"})
		return
	}
	if check == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No checks recorded for route"})
		return
	}

	c.JSON(http.StatusOK, check)
}

// GetRoutes lists the configured routes with their newest check
func (h *HistoryHandler) GetRoutes(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusOK, gin.H{"routes": []RouteStatus{}})
		return
	}

	routes := h.monitor.Routes()
	statuses := make([]RouteStatus, 0, len(routes))
	for _, route := range routes {
		check, err := h.store.LatestCheck(route.Name)
		if err != nil {
			log.Printf("Failed to retrieve latest check for %s: %v", route.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve routes"})
			return
		}
		statuses = append(statuses, RouteStatus{Route: route, LatestCheck: check})
	}

	c.JSON(http.StatusOK, gin.H{"routes": statuses})
}

// GetAlerts retrieves recently sent alerts
func (h *HistoryHandler) GetAlerts(c *gin.Context) {
	limit := parseLimit(c)

	alerts, err := h.store.RecentAlerts(limit)
	if err != nil {
		log.Printf("Failed to retrieve alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"limit":  limit,
	})
}

// RunCheck runs one sweep synchronously and returns its summary
func (h *HistoryHandler) RunCheck(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Monitor not running"})
		return
	}

	summary := h.monitor.RunCheck(c.Request.Context())
	c.JSON(http.StatusOK, summary)
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
