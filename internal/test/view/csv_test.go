package view_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/view"
)

func TestWriteCSV_HeaderAndQuoting(t *testing.T) {
	orders := []models.Order{
		{
			ID:                 "SM-101",
			IssueDate:          time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC),
			ProductDescription: `Ring with "floral" engraving`,
			Pieces:             2,
			FileNumber:         "FN-1",
			KarigarName:        "Ritu Sharma",
			Status:             models.StatusDesigning,
			BillNumber:         "B-1",
			ImageURL:           "https://example.com/a.jpg",
		},
	}

	var sb strings.Builder
	require.NoError(t, view.WriteCSV(&sb, orders))
	lines := strings.Split(sb.String(), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "Order ID,Date of Issue,Product,Pieces,File Number,Karigar Name,Status,Bill Number,Image URL", lines[0])
	assert.Equal(t,
		`"SM-101","2024-09-15T10:00:00.000Z","Ring with ""floral"" engraving","2","FN-1","Ritu Sharma","Designing","B-1","https://example.com/a.jpg"`,
		lines[1])
}

func TestWriteCSV_PreservesViewOrder(t *testing.T) {
	orders := []models.Order{
		{ID: "SM-2", IssueDate: time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC), Pieces: 1},
		{ID: "SM-1", IssueDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), Pieces: 1},
	}

	var sb strings.Builder
	require.NoError(t, view.WriteCSV(&sb, orders))
	lines := strings.Split(sb.String(), "\n")

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"SM-2"`))
	assert.True(t, strings.HasPrefix(lines[2], `"SM-1"`))
}

func TestWriteCSV_NaNPieces(t *testing.T) {
	orders := []models.Order{
		{ID: "SM-1", IssueDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), Pieces: math.NaN()},
	}

	var sb strings.Builder
	require.NoError(t, view.WriteCSV(&sb, orders))

	assert.Contains(t, sb.String(), `"NaN"`)
}

func TestWriteCSV_EmptyCollection(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, view.WriteCSV(&sb, nil))

	assert.Equal(t, view.CSVHeader, sb.String())
}
