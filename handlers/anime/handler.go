package anime

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	animeService "github.com/aniweek-io/web-ui/services/anime"
)

type Handler struct {
	anime *animeService.Service
}

func RegisterHandler(r *gin.Engine, s *animeService.Service) {
	h := &Handler{
		anime: s,
	}
	r.GET("/anime", h.list)
	r.GET("/anime/:id", h.get)
	r.POST("/anime", h.add)
	r.PUT("/anime/:id", h.edit)
	r.DELETE("/anime/:id", h.delete)
	r.GET("/schedule", h.schedule)
	r.GET("/search", h.search)
}

func animeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anime id"})
		return 0, false
	}
	return id, true
}

// abortOnError maps validation failures to per-field messages and
// everything else to a 500.
func abortOnError(c *gin.Context, err error) {
	var verr *animeService.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
		return
	}
	_ = c.AbortWithError(http.StatusInternalServerError, err)
}
