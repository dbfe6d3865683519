package models

import (
	"encoding/json"
	"math"
	"time"
)

// OrderStatus is the workflow stage of a manufacturing order.
// The sheet backend stores these as plain strings, so values read from
// a row are passed through without validation - an unrecognized status
// survives as an opaque string.
type OrderStatus string

const (
	StatusReceived   OrderStatus = "Received"
	StatusDesigning  OrderStatus = "Designing"
	StatusDatasheet  OrderStatus = "Datasheet"
	StatusWithVendor OrderStatus = "With Vendor"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Known returns true when the status is one of the fixed set.
func (s OrderStatus) Known() bool {
	switch s {
	case StatusReceived, StatusDesigning, StatusDatasheet, StatusWithVendor, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Pending returns true for any status that still needs work.
func (s OrderStatus) Pending() bool {
	return s != StatusCompleted && s != StatusCancelled
}

// Order is one manufacturing job as tracked in the sheet.
//
// Pieces is a float64 so that a non-numeric cell can be carried as a
// NaN sentinel instead of failing the whole fetch. IssueDate uses the
// zero time.Time as the invalid-date sentinel for the same reason.
type Order struct {
	ID                 string      `json:"id"`
	IssueDate          time.Time   `json:"issueDate"`
	ProductDescription string      `json:"productDescription"`
	Pieces             float64     `json:"pieces"`
	FileNumber         string      `json:"fileNumber"`
	KarigarName        string      `json:"karigarName"`
	Status             OrderStatus `json:"status"`
	BillNumber         string      `json:"billNumber"`
	ImageURL           string      `json:"imageUrl"`
}

// MarshalJSON serializes the NaN pieces sentinel as null. A corrupt
// row must survive a mutation round trip, and encoding/json rejects
// raw NaN floats.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	wire := struct {
		plain
		Pieces *float64 `json:"pieces"`
	}{plain: plain(o)}
	if !math.IsNaN(o.Pieces) {
		wire.Pieces = &o.Pieces
	}
	return json.Marshal(wire)
}

// HasValidIssueDate reports whether the row carried a parseable timestamp.
func (o Order) HasValidIssueDate() bool {
	return !o.IssueDate.IsZero()
}

// HasValidPieces reports whether the row carried a numeric piece count.
func (o Order) HasValidPieces() bool {
	return !math.IsNaN(o.Pieces)
}

// OrderFields are the caller-supplied fields of an order. The id,
// issue date and initial status are assigned by the sheet backend on
// creation and are never part of this set.
type OrderFields struct {
	ProductDescription string  `json:"productDescription"`
	Pieces             float64 `json:"pieces"`
	FileNumber         string  `json:"fileNumber"`
	KarigarName        string  `json:"karigarName"`
	BillNumber         string  `json:"billNumber"`
	ImageURL           string  `json:"imageUrl"`
}

// Apply merges the fields into an existing order, leaving the
// server-assigned id, issue date and current status untouched.
func (f OrderFields) Apply(o Order) Order {
	o.ProductDescription = f.ProductDescription
	o.Pieces = f.Pieces
	o.FileNumber = f.FileNumber
	o.KarigarName = f.KarigarName
	o.BillNumber = f.BillNumber
	o.ImageURL = f.ImageURL
	return o
}
