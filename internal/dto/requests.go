package dto

// AdjustRequest is the query of GET /api/v1/donations/adjust.
type AdjustRequest struct {
	Amount string `form:"amount" binding:"required"`
	Waived bool   `form:"waived"`
}
