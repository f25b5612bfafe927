package handlers

import (
	"net/http"
	"strconv"
	"time"

	"news-trust/internal/filter"
	"news-trust/internal/models"
	"news-trust/internal/stats"
	"news-trust/internal/store"

	"github.com/gin-gonic/gin"
)

// Refresher is the slice of the background worker the API needs.
type Refresher interface {
	TriggerRefresh() bool
	InFlight() bool
}

// DashboardHandler serves the read side of the dashboard API from the
// current snapshot.
type DashboardHandler struct {
	store     *store.Store
	refresher Refresher
	feeds     []models.FeedDescriptor
	now       func() time.Time
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(st *store.Store, refresher Refresher, feeds []models.FeedDescriptor) *DashboardHandler {
	return &DashboardHandler{
		store:     st,
		refresher: refresher,
		feeds:     feeds,
		now:       time.Now,
	}
}

// GetArticles handles GET /api/articles
func (h *DashboardHandler) GetArticles(c *gin.Context) {
	snap, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No data yet, first refresh still running",
		})
		return
	}

	var spec filter.Spec
	if err := c.ShouldBindQuery(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}
	if spec.RiskLevel != "" && spec.RiskLevel != "all" {
		if _, ok := models.ParseRiskLevel(spec.RiskLevel); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown risk level: " + spec.RiskLevel})
			return
		}
	}

	filtered := filter.Apply(snap.Articles, spec, h.now())

	// Parse pagination parameters
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * limit
	pageItems := paginate(filtered, offset, limit)

	c.JSON(http.StatusOK, gin.H{
		"articles": pageItems,
		"total":    len(filtered),
		"page":     page,
		"limit":    limit,
		// Rollups over the whole filtered view, not just this page.
		"stats": stats.Overall(filtered),
	})
}

// GetStats handles GET /api/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	snap, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No data yet, first refresh still running",
		})
		return
	}

	c.JSON(http.StatusOK, snap.Overall)
}

// GetPublishers handles GET /api/publishers
func (h *DashboardHandler) GetPublishers(c *gin.Context) {
	snap, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No data yet, first refresh still running",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publishers": snap.Publishers})
}

// GetAuthors handles GET /api/authors
func (h *DashboardHandler) GetAuthors(c *gin.Context) {
	snap, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No data yet, first refresh still running",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authors": snap.Authors})
}

// GetFilters handles GET /api/filters. Returns the distinct values the
// current snapshot supports, so the client can populate its dropdowns.
func (h *DashboardHandler) GetFilters(c *gin.Context) {
	snap, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No data yet, first refresh still running",
		})
		return
	}

	publishers := make([]string, 0, len(snap.Publishers))
	for _, p := range snap.Publishers {
		publishers = append(publishers, p.Name)
	}
	authors := make([]string, 0, len(snap.Authors))
	for _, a := range snap.Authors {
		authors = append(authors, a.Name)
	}

	c.JSON(http.StatusOK, gin.H{
		"publishers":  publishers,
		"authors":     authors,
		"risk_levels": []string{string(models.RiskLow), string(models.RiskMedium), string(models.RiskHigh)},
		"date_ranges": []string{filter.RangeToday, filter.RangeWeek, filter.RangeMonth},
		"sort_keys":   []string{filter.SortByPublishedAt, filter.SortByClickbait, filter.SortByAccuracy, filter.SortByTitle},
	})
}

// GetStatus handles GET /api/status
func (h *DashboardHandler) GetStatus(c *gin.Context) {
	status := gin.H{
		"feeds":       h.feeds,
		"refreshing":  h.refresher.InFlight(),
		"has_data":    false,
		"last_update": nil,
	}

	if snap, ok := h.store.Current(); ok {
		status["has_data"] = true
		status["last_update"] = snap.UpdatedAt
		status["feed_outcomes"] = snap.Outcome.Feeds
		status["all_feeds_failed"] = snap.Outcome.Failed()
	}

	c.JSON(http.StatusOK, status)
}

// TriggerRefresh handles POST /api/refresh
func (h *DashboardHandler) TriggerRefresh(c *gin.Context) {
	if h.refresher.TriggerRefresh() {
		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "skipped", "reason": "refresh already in progress"})
}

// HealthCheck handles GET /health
func (h *DashboardHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "news-trust",
	})
}

func paginate(articles []models.Article, offset, limit int) []models.Article {
	if offset >= len(articles) {
		return []models.Article{}
	}
	end := offset + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[offset:end]
}
