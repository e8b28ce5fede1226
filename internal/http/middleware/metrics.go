package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nurpe/contract-archive/internal/status"
)

// Metrics stamps the API slot of the request start with its latency.
func Metrics(recorder *status.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := recorder.Now()
		c.Next()
		recorder.RecordRequest(started, recorder.Now().Sub(started))
	}
}
