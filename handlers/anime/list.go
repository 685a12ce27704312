package anime

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) list(c *gin.Context) {
	byName := c.Query("sort") == "name"
	list, err := h.anime.List(c.Request.Context(), byName)
	if err != nil {
		abortOnError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"animeList": list})
}
