// Package events publishes licensing domain events after the state change
// they describe has been committed.
package events

import (
	"context"
	"sync"
	"time"
)

// Event types. The subject is the configured prefix followed by the type,
// e.g. "licensing.license.issued".
const (
	TypeLicenseIssued   = "license.issued"
	TypeLicenseExpired  = "license.expired"
	TypeTenantActivated = "tenant.activated"
)

// Event is the envelope every message is published in.
type Event struct {
	Type       string    `json:"event_type"`
	LicenseID  string    `json:"license_id"`
	TenantID   string    `json:"tenant_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	Duration   int       `json:"duration_days,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Delivery is best effort: callers log failures
// and carry on because the database is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when NATS_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// MemoryPublisher keeps events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (m *MemoryPublisher) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *MemoryPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// OfType returns the published events of type t.
func (m *MemoryPublisher) OfType(t string) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
