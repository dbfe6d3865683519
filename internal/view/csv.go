package view

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"jewel-market-backend/internal/models"
)

// CSVHeader is the fixed first line of an export. The column names and
// order are part of the export contract and do not follow the sheet's
// internal naming.
const CSVHeader = "Order ID,Date of Issue,Product,Pieces,File Number,Karigar Name,Status,Bill Number,Image URL"

// WriteCSV renders the orders in their given (already filtered and
// sorted) sequence. Every field is double-quoted with internal quotes
// doubled, and the issue date is a full ISO-8601 string.
func WriteCSV(w io.Writer, orders []models.Order) error {
	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, CSVHeader)

	for _, o := range orders {
		fields := []string{
			o.ID,
			o.IssueDate.UTC().Format("2006-01-02T15:04:05.000Z"),
			o.ProductDescription,
			formatPieces(o.Pieces),
			o.FileNumber,
			o.KarigarName,
			string(o.Status),
			o.BillNumber,
			o.ImageURL,
		}
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func formatPieces(pieces float64) string {
	if math.IsNaN(pieces) {
		return "NaN"
	}
	return strconv.FormatFloat(pieces, 'f', -1, 64)
}
