package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/school/internal/app/models/dto"
	"github.com/yigit/school/internal/app/services"
	"github.com/yigit/school/internal/middleware"
)

// InfoController exposes runtime information
type InfoController struct {
	infoService services.InfoService
}

// NewInfoController creates a new InfoController
func NewInfoController(infoService services.InfoService) *InfoController {
	return &InfoController{infoService: infoService}
}

// GetPort reports the listening port
// @Summary Application port
// @Tags info
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Router /port [get]
func (c *InfoController) GetPort(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: c.infoService.GetPort()}))
}

// SumParallel returns the sum of 1..1000000 computed by parallel workers
// @Summary Parallel sum
// @Tags info
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /sum-parallel [get]
func (c *InfoController) SumParallel(ctx *gin.Context) {
	sum, err := c.infoService.SumParallel(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{Count: sum}))
}
