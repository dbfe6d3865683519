package models

import (
	"math"
	"time"
)

// OrderResponse mirrors Order for JSON output. Pieces is a pointer so
// a NaN sentinel from a corrupt row serializes as null instead of
// breaking the whole response.
type OrderResponse struct {
	ID                 string      `json:"id"`
	IssueDate          time.Time   `json:"issueDate"`
	ProductDescription string      `json:"productDescription"`
	Pieces             *float64    `json:"pieces"`
	FileNumber         string      `json:"fileNumber"`
	KarigarName        string      `json:"karigarName"`
	Status             OrderStatus `json:"status"`
	BillNumber         string      `json:"billNumber"`
	ImageURL           string      `json:"imageUrl"`
}

// NewOrderResponse converts a store order into its response form.
func NewOrderResponse(o Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID,
		IssueDate:          o.IssueDate,
		ProductDescription: o.ProductDescription,
		FileNumber:         o.FileNumber,
		KarigarName:        o.KarigarName,
		Status:             o.Status,
		BillNumber:         o.BillNumber,
		ImageURL:           o.ImageURL,
	}
	if !math.IsNaN(o.Pieces) {
		pieces := o.Pieces
		resp.Pieces = &pieces
	}
	return resp
}

// OrderListResponse is the body of GET /orders: the filtered view plus
// the statistics derived from it.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Stats  StatsResponse   `json:"stats"`
}

type StatsResponse struct {
	TotalOrders   int `json:"totalOrders"`
	PendingOrders int `json:"pendingOrders"`
}

// SettingsResponse reports whether a sheet endpoint is configured.
type SettingsResponse struct {
	Configured bool `json:"configured"`
}

// SummaryResponse carries the AI-generated markdown summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
