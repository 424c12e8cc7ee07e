package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cyvadra/farewatch/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, handlers.NewHistoryHandler(nil, nil))

	t.Run("Health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","service":"farewatch"}`, w.Body.String())
	})

	t.Run("Routes without monitor", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/routes", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"routes":[]}`, w.Body.String())
	})

	t.Run("Latest check requires a route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/checks/latest", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Manual sweep without monitor", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/checks/run", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
