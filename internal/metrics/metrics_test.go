package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/games/:gid", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/12", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/13", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `commons_http_requests_total{method="GET",path="/games/:gid",status="200"} 2`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("expected %q in exposition", want)
	}
}
