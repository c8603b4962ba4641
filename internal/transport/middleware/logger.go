package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет одну запись на запрос; 4xx и 5xx логируются отдельными уровнями
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"uri":       c.Request.URL.RequestURI(),
			"status":    status,
			"duration":  time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if operator := c.GetString(OperatorKey); operator != "" {
			fields["operator"] = operator
		}
		entry := logrus.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request processed")
		}
	}
}
