package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chelseasymphony/donations/internal/dto"
	"github.com/chelseasymphony/donations/internal/service"
)

type DonateHandler struct {
	svc *service.DonateService
}

func NewDonateHandler(svc *service.DonateService) *DonateHandler {
	return &DonateHandler{svc: svc}
}

func (h *DonateHandler) Options(c *gin.Context) {
	opts, err := h.svc.Options()
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *DonateHandler) Adjust(c *gin.Context) {
	var req dto.AdjustRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	amount, net, err := h.svc.Preview(req.Amount, req.Waived)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AdjustResponse{
		Amount:    amount.String(),
		Waived:    req.Waived,
		NetAmount: net.String(),
		Discount:  amount.Sub(net).StringFixed(2),
	})
}
