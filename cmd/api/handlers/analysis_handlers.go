package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaisandeepKv/vernon-clinic-sub000/analysis"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/dto"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/services"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

// AnalyzeSkinHandler godoc
// @Summary      Photo skin/hair analysis
// @Description  Requires the lead (name + phone) captured before the photo. The disclaimer is always returned.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AnalyzeSkinRequestDTO  true  "photo and lead"
// @Success      200   {object}  dto.AnalyzeSkinResponseDTO
// @Failure      400   {object}  dto.AnalyzeSkinResponseDTO
// @Failure      422   {object}  dto.AnalyzeSkinResponseDTO
// @Failure      502   {object}  dto.AnalyzeSkinResponseDTO
// @Failure      503   {object}  dto.AnalyzeSkinResponseDTO
// @Router       /analyze-skin [post]
func AnalyzeSkinHandler(analysisSvc *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.AnalyzeSkinRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.AnalyzeSkinResponseDTO{Success: false, Error: "invalid_request", Disclaimer: analysis.Disclaimer})
			return
		}

		report, aErr := analysisSvc.Analyze(c.Request.Context(), analysis.Submission{
			Image:     req.Image,
			MediaType: req.MediaType,
			Name:      req.Name,
			Phone:     req.Phone,
			SessionID: req.SessionID,
			LeadID:    req.LeadID,
		})
		if aErr != nil {
			if aErr.Cause != nil {
				logger.WarnWithFields("skin analysis rejected", logger.Fields{"code": aErr.ErrorCode, "error": aErr.Cause.Error()})
			}
			c.JSON(aErr.StatusCode, dto.AnalyzeSkinResponseDTO{Success: false, Error: aErr.Message, Disclaimer: analysis.Disclaimer})
			return
		}

		c.JSON(http.StatusOK, dto.AnalyzeSkinResponseDTO{Success: true, Analysis: report, Disclaimer: analysis.Disclaimer})
	}
}
