// Package view derives what the dashboard displays from the order
// collection. Everything here is a pure function of its inputs and
// never mutates the store's state.
package view

import (
	"sort"
	"strings"
	"time"

	"jewel-market-backend/internal/models"
)

// Stats are the headline numbers for the filtered set.
type Stats struct {
	TotalOrders   int
	PendingOrders int
}

// Filter keeps the orders whose issue date falls inside the inclusive
// day range [start 00:00:00, end 23:59:59.999...] in local time and
// whose id contains the search string case-insensitively (an empty
// search matches everything). The result is sorted newest first; ties
// keep the collection's order.
//
// An order whose issue date failed to parse carries the zero time and
// can never fall inside a real range, so corrupt rows drop out here.
func Filter(orders []models.Order, start, end time.Time, query string) []models.Order {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())
	query = strings.ToLower(query)

	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.IssueDate.Before(dayStart) || o.IssueDate.After(dayEnd) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(o.ID), query) {
			continue
		}
		filtered = append(filtered, o)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].IssueDate.After(filtered[j].IssueDate)
	})
	return filtered
}

// Summarize counts the filtered set. Pending means any status other
// than Completed or Cancelled.
func Summarize(filtered []models.Order) Stats {
	stats := Stats{TotalOrders: len(filtered)}
	for _, o := range filtered {
		if o.Status.Pending() {
			stats.PendingOrders++
		}
	}
	return stats
}
