package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/pkg/metrics"
)

// UnmatchedRouteLabel is the path label for requests that hit no route.
const UnmatchedRouteLabel = "unmatched"

// Metrics observes request latency labelled by route template, so the
// series count stays bounded by the route table.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = UnmatchedRouteLabel
		}

		metrics.APILatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
