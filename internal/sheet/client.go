package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jewel-market-backend/internal/models"
)

// APIError is an error reported by the Apps Script backend itself, as
// opposed to a transport failure reaching it.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// envelope is the uniform response wrapper of the sheet backend.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// actionRequest is the POST body for all mutations.
type actionRequest struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type deletePayload struct {
	ID string `json:"id"`
}

// Client talks to a Google Apps Script web app backed by a spreadsheet.
// The endpoint URL is passed per call because it is user-configured at
// runtime and can change or be cleared while the process runs.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		// Redirects are followed by default, which Apps Script web
		// apps depend on: every response arrives via a 302.
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListOrders fetches every order from the sheet. The first row is the
// header and is always skipped, as are fully blank rows.
func (c *Client) ListOrders(endpoint string) ([]models.Order, error) {
	data, err := c.call(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var rows [][]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode sheet rows: %w", err)
	}

	orders := make([]models.Order, 0, len(rows))
	for i, row := range rows {
		if i == 0 || IsBlankRow(row) {
			continue
		}
		orders = append(orders, DecodeRow(row))
	}
	return orders, nil
}

// AddOrder appends a new row. The backend assigns the id, issue date
// and initial status and returns the stored row.
func (c *Client) AddOrder(endpoint string, fields models.OrderFields) (models.Order, error) {
	data, err := c.call(http.MethodPost, endpoint, &actionRequest{Action: "add", Payload: fields})
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to add order: %w", err)
	}
	return decodeRowResponse(data)
}

// UpdateOrder replaces the entire row matched by the order's id and
// returns the stored row.
func (c *Client) UpdateOrder(endpoint string, order models.Order) (models.Order, error) {
	data, err := c.call(http.MethodPost, endpoint, &actionRequest{Action: "update", Payload: order})
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to update order: %w", err)
	}
	return decodeRowResponse(data)
}

// DeleteOrder removes the row matched by id.
func (c *Client) DeleteOrder(endpoint string, id string) error {
	_, err := c.call(http.MethodPost, endpoint, &actionRequest{Action: "delete", Payload: deletePayload{ID: id}})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// call issues one request against the endpoint and unwraps the
// response envelope. Failures are never retried here - the caller
// decides what a failure means.
func (c *Client) call(method, endpoint string, body *actionRequest) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		// Apps Script only accepts cross-origin POSTs without a
		// preflight, so the body is sent as text/plain.
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet endpoint returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}
	if env.Status == "error" {
		return nil, &APIError{Message: env.Message}
	}
	return env.Data, nil
}

func decodeRowResponse(data json.RawMessage) (models.Order, error) {
	var row []any
	if err := json.Unmarshal(data, &row); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode returned row: %w", err)
	}
	return DecodeRow(row), nil
}
