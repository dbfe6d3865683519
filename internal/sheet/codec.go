package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"jewel-market-backend/internal/models"
)

// Column positions of an order row on the sheet. This ordering is the
// wire contract with the Apps Script backend and must match in both
// directions.
const (
	colID = iota
	colIssueDate
	colProductDescription
	colPieces
	colFileNumber
	colKarigarName
	colStatus
	colBillNumber
	colImageURL
	columnCount
)

// timeLayouts are tried in order when parsing the issue date cell.
// The Apps Script writes ISO-8601, but hand-edited sheets sometimes
// hold bare dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeRow converts one positional sheet row into an Order.
//
// Cells are coerced, never rejected: an unparseable date becomes the
// zero time, a non-numeric piece count becomes NaN, and a status
// outside the known set passes through verbatim. One corrupt row must
// not fail a whole fetch.
func DecodeRow(row []any) models.Order {
	return models.Order{
		ID:                 cellString(row, colID),
		IssueDate:          cellTime(row, colIssueDate),
		ProductDescription: cellString(row, colProductDescription),
		Pieces:             cellNumber(row, colPieces),
		FileNumber:         cellString(row, colFileNumber),
		KarigarName:        cellString(row, colKarigarName),
		Status:             models.OrderStatus(cellString(row, colStatus)),
		BillNumber:         cellString(row, colBillNumber),
		ImageURL:           cellString(row, colImageURL),
	}
}

// EncodeRow converts an Order back into the positional cell list the
// sheet expects.
func EncodeRow(o models.Order) []any {
	row := make([]any, columnCount)
	row[colID] = o.ID
	row[colIssueDate] = o.IssueDate.UTC().Format(time.RFC3339Nano)
	row[colProductDescription] = o.ProductDescription
	// A nil cell keeps the NaN sentinel JSON-encodable and decodes
	// back to NaN.
	if !math.IsNaN(o.Pieces) {
		row[colPieces] = o.Pieces
	}
	row[colFileNumber] = o.FileNumber
	row[colKarigarName] = o.KarigarName
	row[colStatus] = string(o.Status)
	row[colBillNumber] = o.BillNumber
	row[colImageURL] = o.ImageURL
	return row
}

// IsBlankRow reports whether every cell of the row is empty. The
// header row and blank rows are filtered by callers before decoding.
func IsBlankRow(row []any) bool {
	for i := range row {
		if cellString(row, i) != "" {
			return false
		}
	}
	return true
}

func cellString(row []any, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func cellNumber(row []any, idx int) float64 {
	if idx >= len(row) || row[idx] == nil {
		return math.NaN()
	}
	switch v := row[idx].(type) {
	case float64:
		return v
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

func cellTime(row []any, idx int) time.Time {
	raw := strings.TrimSpace(cellString(row, idx))
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
