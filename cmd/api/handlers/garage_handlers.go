package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"car-advisor/cmd/api/dto"
	"car-advisor/cmd/api/services"
	"car-advisor/garage"
)

// AnalyzeAccidentQueryHandler godoc
// @Summary      Analyze an accident description
// @Description  Forwards the description to the accident analyser. Failures are reported in the body with success=false.
// @Tags         garage
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        body  body      dto.GarageQueryRequestDTO  true  "accident description"
// @Success      200   {object}  garage.Analysis
// @Failure      400   {object}  garage.Analysis
// @Failure      502   {object}  garage.Analysis
// @Router       /garage/query [post]
func AnalyzeAccidentQueryHandler(svc *services.GarageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GarageQueryRequestDTO
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, garage.Failed(garage.ErrNoQuery))
			return
		}
		out := svc.AnalyzeQuery(c.Request.Context(), sessionID(c), req.Query)
		c.JSON(analysisStatus(out), out)
	}
}

// AnalyzeAccidentImageHandler godoc
// @Summary      Analyze an accident photo
// @Description  Accepts a multipart upload in the "image" or "file" field, at most 10 MB.
// @Tags         garage
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "damage photo"
// @Success      200    {object}  garage.Analysis
// @Failure      400    {object}  garage.Analysis
// @Failure      502    {object}  garage.Analysis
// @Router       /garage/image [post]
func AnalyzeAccidentImageHandler(svc *services.GarageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			fh, err = c.FormFile("file")
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, garage.Failed(garage.ErrNoImage))
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, garage.Failed(garage.ErrNoImage))
			return
		}
		defer f.Close()

		img, err := garage.ReadImage(f, fh.Filename, fh.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusBadRequest, garage.Failed(err))
			return
		}
		out := svc.AnalyzeImage(c.Request.Context(), sessionID(c), img)
		c.JSON(analysisStatus(out), out)
	}
}

// analysisStatus 는 입력 문제는 400, 외부 분석기 문제는 502 로 구분한다.
func analysisStatus(out garage.Analysis) int {
	if out.Success {
		return http.StatusOK
	}
	switch out.Error {
	case garage.ErrNoQuery.Error(), garage.ErrNoImage.Error(), garage.ErrNotAnImage.Error(), garage.ErrImageTooLarge.Error():
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
