package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hartwell-supplies/wholesale-orders-api/config"
	"github.com/hartwell-supplies/wholesale-orders-api/models"
)

// PopularProduct is a catalog entry with its recent sale volume
type PopularProduct struct {
	models.Product
	TotalSold int `json:"total_sold"`
}

// GetPopularProducts handles GET /api/v1/products/popular - ranks products
// by the sale records written during order placement (last 30 days)
func GetPopularProducts(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	db := config.GetDB()

	var popular []PopularProduct
	err := db.Model(&models.Product{}).
		Select("products.*, SUM(product_sales.quantity) AS total_sold").
		Joins("JOIN product_sales ON product_sales.product_id = products.id").
		Where("product_sales.sale_date > ?", thirtyDaysAgo()).
		Group("products.id").
		Order("total_sold DESC").
		Limit(limit).
		Find(&popular).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load popular products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": popular,
	})
}

func thirtyDaysAgo() time.Time {
	return time.Now().AddDate(0, 0, -30)
}
