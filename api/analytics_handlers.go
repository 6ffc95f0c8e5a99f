package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-gig-search/model"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	if api.analytics == nil {
		c.JSON(http.StatusOK, model.AnalyticsSummary{
			PopularSearches:   []model.PopularSearch{},
			ZeroResultQueries: []model.PopularSearch{},
		})
		return
	}

	c.JSON(http.StatusOK, api.analytics.Summary())
}

// HealthCheckHandler reports service health and how many listings the store holds
func (api *API) HealthCheckHandler(c *gin.Context) {
	response := gin.H{
		"status":    "healthy",
		"service":   "go-gig-search",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	}

	if api.store != nil {
		count, err := api.store.Count(c.Request.Context())
		if err != nil {
			response["status"] = "unhealthy"
			response["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response["listings"] = count
	}

	c.JSON(http.StatusOK, response)
}
