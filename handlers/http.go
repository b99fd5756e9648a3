package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/melkeydev/mcp-odata/odata"
	"github.com/melkeydev/mcp-odata/types"
)

const metadataSegment = "$metadata"

type ODataHandler struct {
	service *odata.Service
	logger  *slog.Logger
}

func NewODataHandler(service *odata.Service, logger *slog.Logger) *ODataHandler {
	return &ODataHandler{service: service, logger: logger}
}

// Resource serves <prefix>/:uri. "$metadata" takes precedence over a
// collection of that name.
func (h *ODataHandler) Resource(c *gin.Context) {
	uri := c.Param("uri")
	if uri == metadataSegment {
		h.Metadata(c)
		return
	}

	resp, err := h.service.Collection(c.Request.Context(), uri, c.Request.URL.Query())
	if err != nil {
		h.abort(c, err, "DataStore resource not found", "DataStore resource not authorized")
		return
	}
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

func (h *ODataHandler) Metadata(c *gin.Context) {
	resp, err := h.service.Metadata(c.Request.Context())
	if err != nil {
		h.abort(c, err, "Table Metadata not found", "Table Metadata not authorized")
		return
	}
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

func (h *ODataHandler) ServiceDocument(c *gin.Context) {
	resp, err := h.service.ServiceDocument(c.Request.Context())
	if err != nil {
		h.abort(c, err, "Table Metadata not found", "Table Metadata not authorized")
		return
	}
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

func (h *ODataHandler) abort(c *gin.Context, err error, notFound, notAuthorized string) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, types.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": notAuthorized})
	default:
		h.logger.Error("odata request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
