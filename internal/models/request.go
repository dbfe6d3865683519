package models

// CreateOrderRequest is the body for POST /orders.
type CreateOrderRequest struct {
	ProductDescription string  `json:"productDescription" binding:"required"`
	Pieces             float64 `json:"pieces" binding:"required,gte=1"`
	FileNumber         string  `json:"fileNumber"`
	KarigarName        string  `json:"karigarName"`
	BillNumber         string  `json:"billNumber"`
	ImageURL           string  `json:"imageUrl"`
}

// Fields converts the request into the payload sent to the sheet.
func (r CreateOrderRequest) Fields() OrderFields {
	return OrderFields{
		ProductDescription: r.ProductDescription,
		Pieces:             r.Pieces,
		FileNumber:         r.FileNumber,
		KarigarName:        r.KarigarName,
		BillNumber:         r.BillNumber,
		ImageURL:           r.ImageURL,
	}
}

// UpdateOrderRequest is the body for PUT /orders/:order_id. The whole
// row is replaced on the sheet, so every field must be present.
type UpdateOrderRequest struct {
	ProductDescription string  `json:"productDescription" binding:"required"`
	Pieces             float64 `json:"pieces" binding:"required,gte=1"`
	FileNumber         string  `json:"fileNumber"`
	KarigarName        string  `json:"karigarName"`
	BillNumber         string  `json:"billNumber"`
	ImageURL           string  `json:"imageUrl"`
}

// Fields converts the request into the merge set applied to the order.
func (r UpdateOrderRequest) Fields() OrderFields {
	return OrderFields{
		ProductDescription: r.ProductDescription,
		Pieces:             r.Pieces,
		FileNumber:         r.FileNumber,
		KarigarName:        r.KarigarName,
		BillNumber:         r.BillNumber,
		ImageURL:           r.ImageURL,
	}
}

// ChangeStatusRequest is the body for PATCH /orders/:order_id/status.
type ChangeStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// SaveSettingsRequest is the body for POST /settings.
type SaveSettingsRequest struct {
	WebAppURL string `json:"webAppUrl"`
}

// ErrorResponse is the uniform error body returned by every handler.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
