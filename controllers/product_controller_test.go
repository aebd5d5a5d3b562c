package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hartwell-supplies/wholesale-orders-api/config"
	"github.com/hartwell-supplies/wholesale-orders-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPopularProducts(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	customer := createCustomer(t, "auth0|shopper")

	widget := models.Product{Name: "Widget", SKU: "W-1", Price: 5.00, Category: "hardware"}
	gasket := models.Product{Name: "Gasket", SKU: "G-1", Price: 1.25, Category: "hardware"}
	apron := models.Product{Name: "Apron", SKU: "A-1", Price: 8.00, Category: "workwear"}
	db.Create(&widget)
	db.Create(&gasket)
	db.Create(&apron)

	// Recent sales: gasket outsells widget; apron only sold long ago
	db.Create(&models.ProductSale{ProductID: widget.ID, Quantity: 3})
	db.Create(&models.ProductSale{ProductID: gasket.ID, Quantity: 5})
	db.Create(&models.ProductSale{ProductID: gasket.ID, Quantity: 2})

	stale := models.ProductSale{ProductID: apron.ID, Quantity: 50}
	db.Create(&stale)
	db.Model(&models.ProductSale{}).
		Where("id = ?", stale.ID).
		Update("sale_date", time.Now().AddDate(0, 0, -45))

	fetch := func(path string) *httptest.ResponseRecorder {
		router := setupTestRouter()
		router.GET("/products/popular", mockAuthMiddleware(customer.Auth0ID, "customer", "token"), GetPopularProducts)

		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Ranks by 30-day sale volume", func(t *testing.T) {
		w := fetch("/products/popular")
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		products := response["products"].([]interface{})
		require.Len(t, products, 2, "Stale sales fall outside the window")

		first := products[0].(map[string]interface{})
		second := products[1].(map[string]interface{})
		assert.Equal(t, "Gasket", first["name"])
		assert.Equal(t, float64(7), first["total_sold"])
		assert.Equal(t, "Widget", second["name"])
		assert.Equal(t, float64(3), second["total_sold"])
	})

	t.Run("Limit caps the result", func(t *testing.T) {
		w := fetch("/products/popular?limit=1")
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		products := response["products"].([]interface{})
		require.Len(t, products, 1)
		assert.Equal(t, "Gasket", products[0].(map[string]interface{})["name"])
	})
}
