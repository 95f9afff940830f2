package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/dto"
)

// HealthHandler godoc
// @Summary      Health check
// @Description  Pings the records backend. The assistant keeps working while it is down, so this reports degraded rather than failing.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponseDTO
// @Failure      503  {object}  dto.HealthResponseDTO
// @Router       /health [get]
func HealthHandler(recordsBackend, modelProvider string, ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := dto.HealthResponseDTO{Status: "ok", Records: recordsBackend, Model: modelProvider}
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				resp.Status = "degraded"
				resp.Error = err.Error()
				c.JSON(http.StatusServiceUnavailable, resp)
				return
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
