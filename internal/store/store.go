// Package store keeps the in-memory copy of the order collection and
// reconciles it with the sheet backend. Mutations are applied
// optimistically: the local state changes first, the remote call
// follows, and a failure restores the whole-collection snapshot taken
// when the mutation began.
package store

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"jewel-market-backend/internal/metrics"
	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/settings"
	"jewel-market-backend/internal/sheet"
)

// ErrNotFound is returned when a mutation targets an id that is not in
// the collection. Repeating a delete after it succeeded surfaces this
// rather than silently removing nothing.
var ErrNotFound = errors.New("order not found")

// Store is the canonical in-memory order collection. The sheet owns
// the durable copies; this is a cache that must agree with the sheet
// after every confirmed mutation.
type Store struct {
	client   *sheet.Client
	settings *settings.Service
	metrics  *metrics.Registry

	mu     sync.Mutex
	orders []models.Order
}

// pending is the undo record of one in-flight mutation: a uuid for log
// correlation and the collection snapshot captured before the
// optimistic apply.
//
// Snapshots are whole-collection on purpose. If two mutations overlap,
// the later-resolving failure restores the state from its own call
// time, overwriting whatever an intervening success changed. That race
// is accepted for a single-operator tool.
type pending struct {
	op       string
	id       uuid.UUID
	snapshot []models.Order
}

func New(client *sheet.Client, settings *settings.Service, reg *metrics.Registry) *Store {
	return &Store{
		client:   client,
		settings: settings,
		metrics:  reg,
	}
}

// Orders returns a copy of the current collection.
func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Refresh replaces the whole collection with a fresh fetch. A listing
// failure clears the configured endpoint: a bad list most likely means
// a bad URL, and failing closed forces the setup flow to reappear.
func (s *Store) Refresh() error {
	endpoint, err := s.settings.URL()
	if err != nil {
		return err
	}

	s.metrics.RefreshTotal.Inc()
	orders, err := s.client.ListOrders(endpoint)
	if err != nil {
		s.metrics.RefreshFailures.Inc()
		s.settings.Clear()
		return fmt.Errorf("refresh failed, endpoint cleared: %w", err)
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// Add creates an order on the sheet and prepends the returned row to
// the collection. There is no optimistic apply: the id is unknown
// until the backend assigns it, so a failure leaves the collection
// untouched.
func (s *Store) Add(fields models.OrderFields) (models.Order, error) {
	endpoint, err := s.settings.URL()
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.client.AddOrder(endpoint, fields)
	if err != nil {
		s.metrics.MutationsRolledBack.WithLabelValues("add").Inc()
		return models.Order{}, err
	}

	s.mu.Lock()
	s.orders = append([]models.Order{order}, s.orders...)
	s.mu.Unlock()
	s.metrics.MutationsConfirmed.WithLabelValues("add").Inc()
	return order, nil
}

// ChangeStatus optimistically replaces the status of one order, then
// pushes the full record to the sheet.
func (s *Store) ChangeStatus(id string, status models.OrderStatus) (models.Order, error) {
	endpoint, err := s.settings.URL()
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := s.beginLocked("status")
	updated := s.orders[idx]
	updated.Status = status
	s.orders[idx] = updated
	s.mu.Unlock()

	if _, err := s.client.UpdateOrder(endpoint, updated); err != nil {
		s.rollback(p, err)
		return models.Order{}, fmt.Errorf("failed to change status of %s: %w", id, err)
	}
	s.confirm(p)
	return updated, nil
}

// Update merges fields into the order matched by id, applies the
// result optimistically and pushes the full record to the sheet.
func (s *Store) Update(id string, fields models.OrderFields) (models.Order, error) {
	endpoint, err := s.settings.URL()
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := s.beginLocked("update")
	updated := fields.Apply(s.orders[idx])
	s.orders[idx] = updated
	s.mu.Unlock()

	if _, err := s.client.UpdateOrder(endpoint, updated); err != nil {
		s.rollback(p, err)
		return models.Order{}, fmt.Errorf("failed to update %s: %w", id, err)
	}
	s.confirm(p)
	return updated, nil
}

// Delete optimistically removes the order, then deletes the row on the
// sheet.
func (s *Store) Delete(id string) error {
	endpoint, err := s.settings.URL()
	if err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := s.beginLocked("delete")
	s.orders = append(s.orders[:idx:idx], s.orders[idx+1:]...)
	s.mu.Unlock()

	if err := s.client.DeleteOrder(endpoint, id); err != nil {
		s.rollback(p, err)
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	s.confirm(p)
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []models.Order {
	snapshot := make([]models.Order, len(s.orders))
	copy(snapshot, s.orders)
	return snapshot
}

func (s *Store) beginLocked(op string) pending {
	return pending{op: op, id: uuid.New(), snapshot: s.snapshotLocked()}
}

func (s *Store) rollback(p pending, cause error) {
	s.mu.Lock()
	s.orders = p.snapshot
	s.mu.Unlock()
	s.metrics.MutationsRolledBack.WithLabelValues(p.op).Inc()
	log.Printf("rolled back %s mutation %s: %v", p.op, p.id, cause)
}

func (s *Store) confirm(p pending) {
	s.metrics.MutationsConfirmed.WithLabelValues(p.op).Inc()
}
