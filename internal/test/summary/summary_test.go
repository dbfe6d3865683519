package summary_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/summary"
)

func TestSummarize_DisabledWithoutAPIKey(t *testing.T) {
	s, err := summary.New(context.Background(), "")
	require.NoError(t, err)

	assert.False(t, s.Enabled())

	text := s.Summarize(context.Background(), []models.Order{{ID: "SM-101", Pieces: 1}})
	assert.Contains(t, text, "disabled")
}

func TestSummarize_EmptyInputShortCircuits(t *testing.T) {
	// The empty-input check runs before any request, so a dummy key
	// never reaches the network here.
	s, err := summary.New(context.Background(), "test-key")
	require.NoError(t, err)
	require.True(t, s.Enabled())

	text := s.Summarize(context.Background(), nil)
	assert.Equal(t, "There is no order data to analyze.", text)
}
