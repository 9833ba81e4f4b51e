package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"econdash_backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func financialRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	require.NoError(t, models.MigrateFinancialModels(db))

	fc := NewFinancialController(db)
	router := gin.New()
	router.GET("/api/financials", fc.GetFinancials)
	router.POST("/api/financials", fc.UpsertFinancial)
	router.DELETE("/api/financials/:period", fc.DeleteFinancial)
	return router, db
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestUpsertFinancial(t *testing.T) {
	router, db := financialRouter(t)

	w := postJSON(router, "/api/financials", `{
		"quarter": "Q1",
		"year": 2024,
		"total_revenue": "26044",
		"net_income": "14881"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var row models.CompanyFinancial
	require.NoError(t, db.First(&row).Error)
	require.Equal(t, "2024-Q1", row.FiscalPeriod)
	require.Equal(t, "26044", row.TotalRevenue.String())

	// Posting the same quarter again replaces it, not duplicates
	w = postJSON(router, "/api/financials", `{
		"quarter": "Q1",
		"year": 2024,
		"total_revenue": "26100"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var total int64
	require.NoError(t, db.Model(&models.CompanyFinancial{}).Count(&total).Error)
	require.EqualValues(t, 1, total)
	require.NoError(t, db.First(&row).Error)
	require.Equal(t, "26100", row.TotalRevenue.String())
}

func TestUpsertFinancial_Validation(t *testing.T) {
	router, _ := financialRouter(t)

	w := postJSON(router, "/api/financials", `{"quarter": "Q5", "year": 2024}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/api/financials", `{"year": 2024}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteFinancial(t *testing.T) {
	router, _ := financialRouter(t)

	w := postJSON(router, "/api/financials", `{"quarter": "Q2", "year": 2024}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/financials/2024-Q2")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "2024-Q2", body["deleted"])

	w = performRequest(router, http.MethodDelete, "/api/financials/2024-Q2")
	require.Equal(t, http.StatusNotFound, w.Code)
}
