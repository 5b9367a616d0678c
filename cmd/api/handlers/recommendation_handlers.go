package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-advisor/cmd/api/services"
	_ "car-advisor/recommend"
)

// GetRecommendationsHandler godoc
// @Summary      Current recommendations
// @Description  Returns the last recommendation view of the browsing session, restored from the snapshot store when needed.
// @Tags         recommendations
// @Produce      json
// @Success      200  {object}  recommend.View
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /recommendations [get]
func GetRecommendationsHandler(svc *services.RecommendationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, serr := svc.Current(c.Request.Context(), sessionID(c))
		if serr != nil {
			writeServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
