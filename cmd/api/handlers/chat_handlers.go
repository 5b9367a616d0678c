package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	_ "car-advisor/chat"
	"car-advisor/cmd/api/dto"
	"car-advisor/cmd/api/services"
)

// OpenChatHandler godoc
// @Summary      차량 채팅 시작
// @Description  추천 카드의 차량으로 대화를 시작한다. 이미 열린 대화는 버려진다.
// @Description  vehicle_id 는 JSON 바디나 쿼리 문자열로 보낼 수 있다.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        vehicle_id  query     string                  false  "vehicle id"
// @Param        body        body      dto.OpenChatRequestDTO  false  "vehicle"
// @Success      200         {object}  chat.Session
// @Failure      400         {object}  dto.ErrorResponseDTO
// @Failure      404         {object}  dto.ErrorResponseDTO
// @Failure      409         {object}  dto.ErrorResponseDTO  "대화가 다른 차량으로 바뀜"
// @Router       /chat/open [post]
func OpenChatHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.OpenChatRequestDTO
		_ = c.ShouldBindQuery(&req)
		if req.VehicleID == "" && c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				writeBadRequest(c, "invalid_request")
				return
			}
		}
		if req.VehicleID == "" {
			writeBadRequest(c, "vehicle_id_required")
			return
		}

		sess, serr := svc.Open(c.Request.Context(), sessionID(c), req.VehicleID)
		if serr != nil {
			writeServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// SendChatMessageHandler godoc
// @Summary      채팅 메시지 전송
// @Description  사용자 메시지를 추가하고 어시스턴트 응답 한 건을 반환한다.
// @Description  원격 전문가가 실패하면 다음 응답 티어로 넘어가며 notice 가 채워진다.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SendMessageRequestDTO  true  "message"
// @Success      200   {object}  dto.SendMessageResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      409   {object}  dto.ErrorResponseDTO  "대화 없음, 이전 응답 대기 중, 대화 변경"
// @Failure      422   {object}  dto.ErrorResponseDTO
// @Router       /chat/messages [post]
func SendChatMessageHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SendMessageRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid_request")
			return
		}
		out, serr := svc.Send(c.Request.Context(), sessionID(c), req.Text)
		if serr != nil {
			writeServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetChatHandler godoc
// @Summary      채팅 상태
// @Tags         chat
// @Produce      json
// @Success      200  {object}  chat.Session
// @Router       /chat [get]
func GetChatHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Get(sessionID(c)))
	}
}

// CloseChatHandler godoc
// @Summary      채팅 종료
// @Description  대화를 버린다. 대기 중인 응답은 도착해도 무시된다.
// @Tags         chat
// @Produce      json
// @Success      200  {object}  chat.Session
// @Router       /chat [delete]
func CloseChatHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Close(sessionID(c)))
	}
}
