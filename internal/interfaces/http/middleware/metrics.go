package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
)

// unmatchedRoute labels requests that matched no route, which keeps the path
// label's cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight requests per route
// template.
func Metrics(m *prometheus.ParserMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		method := c.Request.Method

		active := m.HTTPActiveRequests.WithLabelValues(method, path)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		prometheus.RecordHTTPRequest(m, method, path, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
