package dto

import "github.com/chelseasymphony/donations/internal/model"

type AdjustResponse struct {
	Amount    string `json:"amount"`
	Waived    bool   `json:"waived"`
	NetAmount string `json:"net_amount"`
	Discount  string `json:"discount"`
}

type IPNEventListResponse struct {
	Data       []model.IPNRecord `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
