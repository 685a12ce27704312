package anime

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) get(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}
	en, err := h.anime.Get(c.Request.Context(), id)
	if err != nil {
		abortOnError(c, err)
		return
	}
	if en == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "anime not found"})
		return
	}
	c.JSON(http.StatusOK, en)
}
