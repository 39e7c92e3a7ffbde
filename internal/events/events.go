// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package events is a synchronous in-process publish/subscribe bus for
// feed-forward lifecycle events. Only listeners registered at emit time
// receive an event; nothing is persisted or replayed.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/pkg/types"
)

// Name identifies an event kind.
type Name string

const (
	SupplyCreated  Name = "supply-created"
	DemandCreated  Name = "demand-created"
	TrustUpdated   Name = "trust-updated"
	SharingUpdated Name = "sharing-updated"
)

// Event is one emitted notification. Payload holds one of the *Payload
// types below, matching Name.
type Event struct {
	Name    Name
	Time    time.Time
	Payload any
}

// SupplyCreatedPayload accompanies supply-created.
type SupplyCreatedPayload struct {
	SupplyHash     string   `json:"supply_hash"`
	CreatorID      string   `json:"creator_id"`
	ConversationID string   `json:"conversation_id"`
	Keywords       []string `json:"keywords"`
	ContextLevel   int      `json:"context_level"`
	TrustScore     float64  `json:"trust_score"`
}

// DemandCreatedPayload accompanies demand-created.
type DemandCreatedPayload struct {
	DemandHash  string   `json:"demand_hash"`
	RequesterID string   `json:"requester_id"`
	Keywords    []string `json:"keywords"`
	Urgency     int      `json:"urgency"`
}

// TrustUpdatedPayload accompanies trust-updated.
type TrustUpdatedPayload struct {
	ParticipantID string                `json:"participant_id"`
	OldScore      float64               `json:"old_score"`
	NewScore      float64               `json:"new_score"`
	Components    types.TrustComponents `json:"components"`
}

// SharingUpdatedPayload accompanies sharing-updated.
type SharingUpdatedPayload struct {
	ConversationID string `json:"conversation_id"`
	Enabled        bool   `json:"enabled"`
	Retroactive    bool   `json:"retroactive"`
	PreviousState  bool   `json:"previous_state"`
}

// Listener receives events.
type Listener func(Event)

// Emitter publishes events. Services depend on this rather than on Bus.
type Emitter interface {
	Emit(name Name, payload any)
}

type subscription struct {
	id       uint64
	name     Name // empty matches every event
	listener Listener
}

// Bus dispatches events synchronously in registration order.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	now    func() time.Time
	logger *zap.Logger
}

var _ Emitter = (*Bus)(nil)

// NewBus returns a bus with no listeners.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{now: time.Now, logger: logger.Named("events")}
}

// Subscribe registers l for events called name and returns a function that
// unregisters it.
func (b *Bus) Subscribe(name Name, l Listener) (unsubscribe func()) {
	return b.add(name, l)
}

// SubscribeAll registers l for every event.
func (b *Bus) SubscribeAll(l Listener) (unsubscribe func()) {
	return b.add("", l)
}

func (b *Bus) add(name Name, l Listener) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, listener: l})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Emit delivers an event to every matching listener before returning. A
// panicking listener is logged and skipped; the rest still run.
func (b *Bus) Emit(name Name, payload any) {
	b.mu.RLock()
	targets := make([]Listener, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == "" || s.name == name {
			targets = append(targets, s.listener)
		}
	}
	b.mu.RUnlock()

	ev := Event{Name: name, Time: b.now().UTC(), Payload: payload}
	for _, l := range targets {
		b.deliver(l, ev)
	}
}

func (b *Bus) deliver(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event listener panicked",
				zap.String("event", string(ev.Name)),
				zap.Any("panic", r))
		}
	}()
	l(ev)
}
