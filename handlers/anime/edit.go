package anime

import (
	"net/http"

	"github.com/gin-gonic/gin"

	animeService "github.com/aniweek-io/web-ui/services/anime"
)

func (h *Handler) edit(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}
	var f animeService.Form
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	en, err := h.anime.Edit(c.Request.Context(), id, &f)
	if err != nil {
		abortOnError(c, err)
		return
	}
	if en == nil {
		// absent id, nothing to update
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, en)
}
