package export

import (
	"net/http"

	"github.com/gin-gonic/gin"

	exportService "github.com/aniweek-io/web-ui/services/export"
)

type Handler struct {
	export *exportService.Service
}

func RegisterHandler(r *gin.Engine, s *exportService.Service) {
	h := &Handler{
		export: s,
	}
	r.GET("/export", h.exportDoc)
	r.POST("/import", h.importDoc)
}

func (h *Handler) exportDoc(c *gin.Context) {
	doc, err := h.export.Export(c.Request.Context())
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) importDoc(c *gin.Context) {
	summary, err := h.export.Import(c.Request.Context(), c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
