package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/settings"
	"jewel-market-backend/internal/store"
	"jewel-market-backend/internal/view"
)

const dateParamLayout = "2006-01-02"

type OrdersHandler struct {
	store *store.Store
}

func NewOrdersHandler(store *store.Store) *OrdersHandler {
	return &OrdersHandler{store: store}
}

// filterParams reads the from/to/q query parameters. Defaults mirror
// the dashboard: first day of the current month through today.
func filterParams(c *gin.Context) (start, end time.Time, query string, err error) {
	now := time.Now()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = now

	if raw := c.Query("from"); raw != "" {
		start, err = time.ParseInLocation(dateParamLayout, raw, now.Location())
		if err != nil {
			return start, end, "", fmt.Errorf("invalid 'from' date %q: %w", raw, err)
		}
	}
	if raw := c.Query("to"); raw != "" {
		end, err = time.ParseInLocation(dateParamLayout, raw, now.Location())
		if err != nil {
			return start, end, "", fmt.Errorf("invalid 'to' date %q: %w", raw, err)
		}
	}
	return start, end, c.Query("q"), nil
}

func (h *OrdersHandler) respondList(c *gin.Context, orders []models.Order, start, end time.Time, query string) {
	filtered := view.Filter(orders, start, end, query)
	stats := view.Summarize(filtered)

	resp := models.OrderListResponse{
		Orders: make([]models.OrderResponse, len(filtered)),
		Stats: models.StatsResponse{
			TotalOrders:   stats.TotalOrders,
			PendingOrders: stats.PendingOrders,
		},
	}
	for i, o := range filtered {
		resp.Orders[i] = models.NewOrderResponse(o)
	}
	c.JSON(http.StatusOK, resp)
}

// ListOrders returns the filtered, sorted view of the cached
// collection plus its statistics.
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	start, end, query, err := filterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid filter", Message: err.Error()})
		return
	}
	h.respondList(c, h.store.Orders(), start, end, query)
}

// RefreshOrders refetches the collection from the sheet and returns
// the filtered view of the fresh data.
func (h *OrdersHandler) RefreshOrders(c *gin.Context) {
	start, end, query, err := filterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid filter", Message: err.Error()})
		return
	}
	if err := h.store.Refresh(); err != nil {
		h.fail(c, "failed to refresh orders", err)
		return
	}
	h.respondList(c, h.store.Orders(), start, end, query)
}

// CreateOrder adds a new order. The sheet assigns id, issue date and
// the Received status.
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	order, err := h.store.Add(req.Fields())
	if err != nil {
		h.fail(c, "failed to add order", err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order))
}

// UpdateOrder replaces the editable fields of an order.
func (h *OrdersHandler) UpdateOrder(c *gin.Context) {
	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	order, err := h.store.Update(c.Param("order_id"), req.Fields())
	if err != nil {
		h.fail(c, "failed to update order", err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order))
}

// ChangeStatus moves an order to a new workflow stage. Any status may
// transition to any other.
func (h *OrdersHandler) ChangeStatus(c *gin.Context) {
	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if !req.Status.Known() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unknown status",
			Message: fmt.Sprintf("status %q is not one of the known stages", req.Status),
		})
		return
	}

	order, err := h.store.ChangeStatus(c.Param("order_id"), req.Status)
	if err != nil {
		h.fail(c, "failed to change status", err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order))
}

// DeleteOrder removes an order.
func (h *OrdersHandler) DeleteOrder(c *gin.Context) {
	if err := h.store.Delete(c.Param("order_id")); err != nil {
		h.fail(c, "failed to delete order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted successfully"})
}

// ExportOrders streams the filtered view as a CSV download.
func (h *OrdersHandler) ExportOrders(c *gin.Context) {
	start, end, query, err := filterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid filter", Message: err.Error()})
		return
	}

	filtered := view.Filter(h.store.Orders(), start, end, query)

	// Render into a buffer first so a render failure can still produce
	// an error status instead of a truncated 200 body.
	var buf bytes.Buffer
	if err := view.WriteCSV(&buf, filtered); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to render csv", Message: err.Error()})
		return
	}

	filename := fmt.Sprintf("jewel_market_orders_%s.csv", time.Now().Format(dateParamLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *OrdersHandler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found", Message: err.Error()})
	case errors.Is(err, settings.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "sheet endpoint not configured"})
	default:
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: action, Message: err.Error()})
	}
}
