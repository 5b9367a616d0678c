package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-advisor/cmd/api/dto"
	"car-advisor/cmd/api/services"
)

// HealthHandler godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Router       /health [get]
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "ok"})
	}
}

// writeServiceError 는 ServiceError 를 공통 에러 응답으로 변환한다.
func writeServiceError(c *gin.Context, serr *services.ServiceError) {
	body := dto.ErrorResponseDTO{Success: false, Error: serr.ErrorCode}
	if serr.Field != nil {
		body.Field = string(serr.Field.Field)
		body.Message = serr.Field.Message
	}
	c.JSON(serr.StatusCode, body)
}

func writeBadRequest(c *gin.Context, code string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Success: false, Error: code})
}
