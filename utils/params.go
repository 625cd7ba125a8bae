// File: /utils/params.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func StringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
