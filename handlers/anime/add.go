package anime

import (
	"net/http"

	"github.com/gin-gonic/gin"

	animeService "github.com/aniweek-io/web-ui/services/anime"
)

func (h *Handler) add(c *gin.Context) {
	var f animeService.Form
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	en, err := h.anime.Add(c.Request.Context(), &f)
	if err != nil {
		abortOnError(c, err)
		return
	}
	c.JSON(http.StatusCreated, en)
}
