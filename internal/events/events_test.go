// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmitDeliversToMatchingListeners(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var supply, all []Event
	bus.Subscribe(SupplyCreated, func(e Event) { supply = append(supply, e) })
	bus.SubscribeAll(func(e Event) { all = append(all, e) })

	bus.Emit(SupplyCreated, SupplyCreatedPayload{SupplyHash: "h1"})
	bus.Emit(DemandCreated, DemandCreatedPayload{DemandHash: "d1"})

	require.Len(t, supply, 1)
	assert.Equal(t, SupplyCreated, supply[0].Name)
	assert.Equal(t, "h1", supply[0].Payload.(SupplyCreatedPayload).SupplyHash)
	assert.False(t, supply[0].Time.IsZero())

	require.Len(t, all, 2)
	assert.Equal(t, DemandCreated, all[1].Name)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())

	calls := 0
	unsubscribe := bus.Subscribe(TrustUpdated, func(Event) { calls++ })
	bus.Emit(TrustUpdated, TrustUpdatedPayload{})
	unsubscribe()
	unsubscribe()
	bus.Emit(TrustUpdated, TrustUpdatedPayload{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Len())
}

func TestDeliveryOrderFollowsRegistration(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(SharingUpdated, func(Event) { order = append(order, i) })
	}
	bus.Emit(SharingUpdated, SharingUpdatedPayload{})

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestPanickingListenerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	delivered := false
	bus.Subscribe(SupplyCreated, func(Event) { panic("boom") })
	bus.Subscribe(SupplyCreated, func(Event) { delivered = true })

	assert.NotPanics(t, func() { bus.Emit(SupplyCreated, SupplyCreatedPayload{}) })
	assert.True(t, delivered)
}

func TestListenerMayUnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus(zap.NewNop())

	calls := 0
	var unsubscribe func()
	unsubscribe = bus.Subscribe(DemandCreated, func(Event) {
		calls++
		unsubscribe()
	})

	bus.Emit(DemandCreated, DemandCreatedPayload{})
	bus.Emit(DemandCreated, DemandCreatedPayload{})
	assert.Equal(t, 1, calls)
}
