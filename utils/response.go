package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

// JSONError writes the {"error": {"code", "message"}} envelope the dashboard expects.
func JSONError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

func JSONErrorDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message, "details": details}})
}

// JSONPage wraps a list with paging metadata.
func JSONPage(c *gin.Context, status int, items interface{}, page, perPage int, total int64) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   items,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	})
}
