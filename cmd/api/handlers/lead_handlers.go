package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/dto"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/services"
	"github.com/SaisandeepKv/vernon-clinic-sub000/tools"
)

// BookingHandler godoc
// @Summary      Book an appointment
// @Description  Direct booking form. Name and phone are validated the same way as the assistant's booking tool.
// @Description  A validated booking is accepted even if the spreadsheet or records sink fails later.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BookingRequestDTO  true  "booking"
// @Success      200   {object}  dto.BookingResponseDTO
// @Failure      400   {object}  dto.BookingResponseDTO
// @Router       /booking [post]
func BookingHandler(leadSvc *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.BookingRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.BookingResponseDTO{Success: false, Error: formMessage(err)})
			return
		}

		details, leadErr := leadSvc.Book(c.Request.Context(), req.Request(), req.SessionID)
		if leadErr != nil {
			c.JSON(leadErr.StatusCode, dto.BookingResponseDTO{Success: false, Error: leadErr.Message})
			return
		}

		c.JSON(http.StatusOK, dto.BookingResponseDTO{
			Success:        true,
			Message:        "Your appointment request has been received. Our team will call you " + tools.ContactWindowDescription + ".",
			BookingDetails: &details,
		})
	}
}

// CallbackHandler godoc
// @Summary      Request a callback
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CallbackRequestDTO  true  "contact"
// @Success      200   {object}  dto.CallbackResponseDTO
// @Failure      400   {object}  dto.CallbackResponseDTO
// @Router       /callback [post]
func CallbackHandler(leadSvc *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CallbackRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.CallbackResponseDTO{Success: false, Error: formMessage(err)})
			return
		}

		if leadErr := leadSvc.Callback(c.Request.Context(), booking.Lead{Name: req.Name, Phone: req.Phone}, req.SessionID); leadErr != nil {
			c.JSON(leadErr.StatusCode, dto.CallbackResponseDTO{Success: false, Error: leadErr.Message})
			return
		}
		c.JSON(http.StatusOK, dto.CallbackResponseDTO{
			Success: true,
			Message: "Thank you! We'll call you back " + tools.ContactWindowDescription + ".",
		})
	}
}

func formMessage(err error) string {
	leadErr := services.FormError(err)
	if leadErr.Message != "" {
		return leadErr.Message
	}
	return leadErr.ErrorCode
}
