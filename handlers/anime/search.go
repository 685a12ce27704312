package anime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"animeList": []any{}})
		return
	}
	list, err := h.anime.Search(c.Request.Context(), query)
	if err != nil {
		abortOnError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"animeList": list})
}
