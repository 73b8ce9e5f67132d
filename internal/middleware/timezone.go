package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// TimezoneHeader lets clients say which zone "today" should be read in.
	TimezoneHeader     = "X-Timezone"
	requestTimezoneKey = "requestTimezone"
)

// RequestTimezone copies the X-Timezone header into the gin context. The
// value is not validated here; the date resolver skips names it cannot load.
func RequestTimezone() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tz := strings.TrimSpace(c.GetHeader(TimezoneHeader)); tz != "" {
			c.Set(requestTimezoneKey, tz)
		}
		c.Next()
	}
}

// RequestTimezoneFrom returns the zone captured by RequestTimezone, or "".
func RequestTimezoneFrom(c *gin.Context) string {
	return c.GetString(requestTimezoneKey)
}
