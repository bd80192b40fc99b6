package function

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gopkg.in/alexcesaro/statsd.v2"

	"trivia_api/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID keeps the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per request to logger.Log.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Printf("[%s] %s %s %d %v",
			c.GetString("request_id"),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

// Metrics counts each request under its route and times it as
// api_response_time.
func Metrics(stats *statsd.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := stats.NewTiming()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		stats.Increment("api." + strings.ToLower(c.Request.Method) + bucket(route))
		t.Send("api_response_time")
	}
}

// bucket turns /questions/:id/delete into .questions.id.delete
func bucket(route string) string {
	r := strings.NewReplacer("/", ".", ":", "", "*", "")
	return r.Replace(route)
}
