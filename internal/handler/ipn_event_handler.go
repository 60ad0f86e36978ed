package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chelseasymphony/donations/internal/dto"
	"github.com/chelseasymphony/donations/internal/model"
)

type IPNEventLister interface {
	List(ctx context.Context, limit, offset int) ([]model.IPNRecord, int, error)
}

type IPNEventHandler struct {
	lister IPNEventLister
}

func NewIPNEventHandler(lister IPNEventLister) *IPNEventHandler {
	return &IPNEventHandler{lister: lister}
}

func (h *IPNEventHandler) List(c *gin.Context) {
	p := dto.ParsePagination(c)

	records, total, err := h.lister.List(c.Request.Context(), p.PageSize, p.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if records == nil {
		records = []model.IPNRecord{}
	}

	c.JSON(http.StatusOK, dto.IPNEventListResponse{
		Data:       records,
		Pagination: dto.NewPagination(p, total),
	})
}
