package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/melkeydev/mcp-odata/handlers"
	"github.com/melkeydev/mcp-odata/metric"
	"github.com/melkeydev/mcp-odata/odata"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the OData routes under prefix, plus /metrics.
func NewRouter(service *odata.Service, prefix string, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger), metric.Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewODataHandler(service, logger)
	g := r.Group(prefix)
	g.GET("/", h.ServiceDocument)
	g.GET("/:uri", h.Resource)

	return r
}
