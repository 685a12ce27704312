package anime

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) schedule(c *gin.Context) {
	days, err := h.anime.WeeklySchedule(c.Request.Context())
	if err != nil {
		abortOnError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}
