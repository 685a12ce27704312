package anime

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) delete(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}
	if err := h.anime.Delete(c.Request.Context(), id); err != nil {
		abortOnError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
