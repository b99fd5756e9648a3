package metric

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/melkeydev/mcp-odata/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestQueryStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"not found", fmt.Errorf("x: %w", types.ErrNotFound), "not_found"},
		{"not authorized", fmt.Errorf("x: %w", types.ErrNotAuthorized), "not_authorized"},
		{"validation", types.NewValidationError("query", "bad"), "invalid"},
		{"other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryStatus(tt.err))
		})
	}
}

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("search", "not_found"))
	ObserveQuery("search", types.ErrNotFound)
	assert.Equal(t, before+1, testutil.ToFloat64(QueriesTotal.WithLabelValues("search", "not_found")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/things/:id", "418"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/1", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/things/:id", "418")))
}
