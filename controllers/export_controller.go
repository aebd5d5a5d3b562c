package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hartwell-supplies/wholesale-orders-api/config"
	"github.com/hartwell-supplies/wholesale-orders-api/services"
)

// ExportOrders handles POST /api/v1/orders/export - serializes recent
// orders and uploads the archive to S3. Admin only.
func ExportOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can export orders",
			},
		})
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_UNAVAILABLE",
				"message": "Archive storage is not configured",
			},
		})
		return
	}

	exportService := services.NewExportService(config.GetDB(), s3Service)
	result, err := exportService.ExportRecentOrders(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to export orders",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"s3_key":       result.Key,
			"download_url": result.DownloadURL,
		},
	})
}
