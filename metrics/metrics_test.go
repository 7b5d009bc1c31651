package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `greenlink_http_request_duration_seconds_count{method="GET",route="/items/:id",status="204"} 1`))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(PromotionRedemptions.WithLabelValues("applied"))
	PromotionRedemptions.WithLabelValues("applied").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PromotionRedemptions.WithLabelValues("applied")))
}
