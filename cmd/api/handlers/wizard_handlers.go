package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-advisor/cmd/api/dto"
	"car-advisor/cmd/api/services"
)

// GetWizardHandler godoc
// @Summary      선호 조건 위저드 상태
// @Description  현재 단계, 선택값, 단계 목록, 선택지 목록을 반환한다. 처음 방문이면 userPreferences 쿠키로 선택값을 채운다.
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  dto.WizardStateDTO
// @Router       /wizard [get]
func GetWizardHandler(svc *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := sessionID(c)
		if saved, ok := loadPreferences(c); ok {
			svc.Prefill(sid, saved)
		}
		c.JSON(http.StatusOK, svc.State(sid))
	}
}

// UpdateSelectionHandler godoc
// @Summary      선택값 수정
// @Description  보낸 필드만 바꾼다. 검증은 다음 단계로 넘어갈 때 한다.
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SelectionPatchDTO  true  "selection patch"
// @Success      200   {object}  dto.WizardStateDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      409   {object}  dto.ErrorResponseDTO  "제출 처리 중"
// @Router       /wizard/selection [patch]
func UpdateSelectionHandler(svc *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch dto.SelectionPatchDTO
		if err := c.ShouldBindJSON(&patch); err != nil {
			writeBadRequest(c, "invalid_request")
			return
		}
		st, serr := svc.UpdateSelection(sessionID(c), patch)
		if serr != nil {
			writeServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// AdvanceWizardHandler godoc
// @Summary      다음 단계
// @Description  현재 단계의 필드가 유효할 때만 이동한다. 실패하면 422 와 필드 에러를 반환한다.
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  dto.WizardStateDTO
// @Failure      422  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Router       /wizard/advance [post]
func AdvanceWizardHandler(svc *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, serr := svc.Advance(sessionID(c))
		if serr != nil {
			writeServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// RetreatWizardHandler godoc
// @Summary      이전 단계
// @Description  검증 없이 한 단계 뒤로 간다. 진행 중인 제출은 무효가 된다.
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  dto.WizardStateDTO
// @Router       /wizard/retreat [post]
func RetreatWizardHandler(svc *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Retreat(sessionID(c)))
	}
}

// JumpWizardHandler godoc
// @Summary      단계 이동
// @Description  이미 지나온 단계로만 이동한다. 앞 단계 요청은 무시된다.
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        body  body      dto.JumpRequestDTO  true  "target step"
// @Success      200   {object}  dto.WizardStateDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      422   {object}  dto.ErrorResponseDTO
// @Router       /wizard/jump [post]
func JumpWizardHandler(svc *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.JumpRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid_request")
			return
		}
		st, serr := svc.JumpTo(sessionID(c), req.Step)
		if serr != nil {
			writeServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// ResetWizardHandler godoc
// @Summary      위저드 초기화
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  dto.WizardStateDTO
// @Router       /wizard/reset [post]
func ResetWizardHandler(svc *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Reset(sessionID(c)))
	}
}

// SubmitWizardHandler godoc
// @Summary      추천 요청
// @Description  마지막 단계에서 전체 선택을 검증하고 추천 API 를 한 번 호출한다.
// @Description  외부 API 가 실패하면 기본 목록과 안내 문구를 200 으로 반환한다.
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  dto.SubmitResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO  "마지막 단계가 아니거나 제출 중이거나 제출이 취소됨"
// @Failure      422  {object}  dto.ErrorResponseDTO
// @Router       /wizard/submit [post]
func SubmitWizardHandler(svc *services.WizardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, sel, serr := svc.Submit(c.Request.Context(), sessionID(c))
		if serr != nil {
			writeServiceError(c, serr)
			return
		}
		savePreferences(c, sel)
		c.JSON(http.StatusOK, out)
	}
}
