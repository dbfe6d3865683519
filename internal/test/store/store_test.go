package store_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewel-market-backend/internal/metrics"
	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/settings"
	"jewel-market-backend/internal/sheet"
	"jewel-market-backend/internal/store"
)

// fakeSheet emulates the Apps Script backend: a GET lists the seeded
// rows, POSTs carry {action, payload}. Individual actions can be told
// to fail to exercise rollback paths.
type fakeSheet struct {
	mu       sync.Mutex
	rows     [][]any
	failList bool
	failOps  map[string]bool
	actions  []string
}

func newFakeSheet(rows ...[]any) *fakeSheet {
	header := []any{"ID", "Issue Date", "Product", "Pieces", "File", "Karigar", "Status", "Bill", "Image"}
	return &fakeSheet{
		rows:    append([][]any{header}, rows...),
		failOps: make(map[string]bool),
	}
}

func (f *fakeSheet) failOp(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOps[op] = true
}

func (f *fakeSheet) sawAction(op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.actions {
		if a == op {
			return true
		}
	}
	return false
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodGet {
		if f.failList {
			json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "Sheet not found"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": f.rows})
		return
	}

	var req struct {
		Action  string          `json:"action"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "bad request"})
		return
	}
	f.actions = append(f.actions, req.Action)

	if f.failOps[req.Action] {
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": req.Action + " failed"})
		return
	}

	switch req.Action {
	case "add":
		var fields models.OrderFields
		json.Unmarshal(req.Payload, &fields)
		row := []any{
			"SM-NEW", "2024-09-20T10:00:00Z", fields.ProductDescription, fields.Pieces,
			fields.FileNumber, fields.KarigarName, "Received", fields.BillNumber, fields.ImageURL,
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": row})
	case "update":
		var order models.Order
		json.Unmarshal(req.Payload, &order)
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": sheet.EncodeRow(order)})
	case "delete":
		json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	default:
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "unknown action"})
	}
}

func seedRow(id, date, product string, pieces float64, status string) []any {
	return []any{id, date, product, pieces, "FN-1", "Ritu Sharma", status, "B-1", ""}
}

// newStore wires a store against the fake, configures the endpoint and
// loads the seeded collection.
func newStore(t *testing.T, fake *fakeSheet) (*store.Store, *settings.Service) {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := sheet.NewClient()
	svc := settings.NewService(filepath.Join(t.TempDir(), "settings.json"), client)
	require.NoError(t, svc.Save(srv.URL))

	st := store.New(client, svc, metrics.NewRegistry())
	require.NoError(t, st.Refresh())
	return st, svc
}

func statusOf(t *testing.T, st *store.Store, id string) models.OrderStatus {
	t.Helper()
	for _, o := range st.Orders() {
		if o.ID == id {
			return o.Status
		}
	}
	t.Fatalf("order %s not in collection", id)
	return ""
}

func TestChangeStatus_Confirmed(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)

	order, err := st.ChangeStatus("SM-101", models.StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, order.Status)
	assert.Equal(t, models.StatusCompleted, statusOf(t, st, "SM-101"))
	assert.True(t, fake.sawAction("update"))
}

func TestChangeStatus_ConfirmedWithCorruptPieces(t *testing.T) {
	// A non-numeric pieces cell decodes to the NaN sentinel. The full
	// record still goes over the wire on a status change, so the
	// sentinel must not break serialization.
	fake := newFakeSheet([]any{"SM-101", "2024-09-15T10:00:00Z", "Ring", "three", "FN-1", "Ritu Sharma", "Designing", "B-1", ""})
	st, _ := newStore(t, fake)
	require.False(t, st.Orders()[0].HasValidPieces())

	order, err := st.ChangeStatus("SM-101", models.StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, order.Status)
	assert.Equal(t, models.StatusCompleted, statusOf(t, st, "SM-101"))
	assert.True(t, fake.sawAction("update"), "the backend must actually be reached")
}

func TestChangeStatus_RolledBackOnFailure(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)
	fake.failOp("update")

	_, err := st.ChangeStatus("SM-101", models.StatusCompleted)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "update failed")
	assert.Equal(t, models.StatusDesigning, statusOf(t, st, "SM-101"), "prior status must be restored")
}

func TestChangeStatus_UnknownID(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)

	_, err := st.ChangeStatus("SM-404", models.StatusCompleted)

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdd_PrependsServerRow(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)

	order, err := st.Add(models.OrderFields{ProductDescription: "Necklace", Pieces: 3})

	require.NoError(t, err)
	assert.Equal(t, "SM-NEW", order.ID)
	assert.Equal(t, models.StatusReceived, order.Status)

	orders := st.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "SM-NEW", orders[0].ID, "new order goes to the front")
}

func TestAdd_FailureLeavesCollectionUntouched(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)
	before := st.Orders()
	fake.failOp("add")

	_, err := st.Add(models.OrderFields{ProductDescription: "Ring", Pieces: 2})

	require.Error(t, err)
	assert.Equal(t, before, st.Orders())
}

func TestUpdate_MergesFieldsAndConfirms(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)

	order, err := st.Update("SM-101", models.OrderFields{ProductDescription: "Engraved Ring", Pieces: 2, KarigarName: "Anil"})

	require.NoError(t, err)
	assert.Equal(t, "SM-101", order.ID)
	assert.Equal(t, "Engraved Ring", order.ProductDescription)
	assert.Equal(t, models.StatusDesigning, order.Status, "status survives a field merge")
	assert.True(t, order.HasValidIssueDate(), "issue date survives a field merge")
}

func TestUpdate_RestoresWholeSnapshotOnFailure(t *testing.T) {
	fake := newFakeSheet(
		seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"),
		seedRow("SM-102", "2024-09-16T10:00:00Z", "Chain", 2, "Received"),
	)
	st, _ := newStore(t, fake)
	before := st.Orders()
	fake.failOp("update")

	_, err := st.Update("SM-101", models.OrderFields{ProductDescription: "Changed", Pieces: 9})

	require.Error(t, err)
	assert.Equal(t, before, st.Orders(), "rollback restores the entire collection")
}

func TestDelete_ThenRepeatSurfacesNotFound(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)

	require.NoError(t, st.Delete("SM-101"))
	assert.Empty(t, st.Orders())

	err := st.Delete("SM-101")
	assert.ErrorIs(t, err, store.ErrNotFound, "a repeated delete must not remove anything twice")
}

func TestDelete_RolledBackOnFailure(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)
	fake.failOp("delete")

	err := st.Delete("SM-101")

	require.Error(t, err)
	require.Len(t, st.Orders(), 1, "deleted order must be restored")
	assert.Equal(t, "SM-101", st.Orders()[0].ID)
}

func TestRefresh_ReplacesCollection(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, _ := newStore(t, fake)

	fake.mu.Lock()
	fake.rows = [][]any{
		{"header"},
		seedRow("SM-200", "2024-09-17T10:00:00Z", "Bangle", 4, "Received"),
	}
	fake.mu.Unlock()

	require.NoError(t, st.Refresh())

	orders := st.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "SM-200", orders[0].ID)
}

func TestRefresh_FailureInvalidatesEndpoint(t *testing.T) {
	fake := newFakeSheet(seedRow("SM-101", "2024-09-15T10:00:00Z", "Ring", 1, "Designing"))
	st, svc := newStore(t, fake)

	fake.mu.Lock()
	fake.failList = true
	fake.mu.Unlock()

	err := st.Refresh()

	require.Error(t, err)
	assert.False(t, svc.Configured(), "a listing failure clears the endpoint")

	// Every later operation now reports the missing configuration.
	_, err = st.Add(models.OrderFields{ProductDescription: "Ring", Pieces: 1})
	assert.ErrorIs(t, err, settings.ErrNotConfigured)
}
