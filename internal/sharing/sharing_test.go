// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sharing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/events"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/pkg/types"
)

func TestSetReturnsPreviousState(t *testing.T) {
	bus := events.NewBus(zap.NewNop())
	var got []events.SharingUpdatedPayload
	bus.Subscribe(events.SharingUpdated, func(e events.Event) {
		got = append(got, e.Payload.(events.SharingUpdatedPayload))
	})

	svc := NewService(objectstore.NewMemory(), bus, zap.NewNop())
	ctx := context.Background()

	prev, err := svc.Set(ctx, "alice", types.SharingRequest{ConversationID: "c1", Enabled: true, Retroactive: true})
	require.NoError(t, err)
	assert.False(t, prev, "never configured means disabled")

	prev, err = svc.Set(ctx, "alice", types.SharingRequest{ConversationID: "c1", Enabled: false})
	require.NoError(t, err)
	assert.True(t, prev)

	state, err := svc.State(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, state.Enabled)
	assert.Equal(t, "alice", state.UpdatedBy)

	require.Len(t, got, 2)
	assert.True(t, got[0].Enabled)
	assert.True(t, got[0].Retroactive)
	assert.False(t, got[0].PreviousState)
	assert.True(t, got[1].PreviousState)
}

func TestSetRequiresConversation(t *testing.T) {
	objects := objectstore.NewMemory()
	svc := NewService(objects, events.NewBus(zap.NewNop()), zap.NewNop())

	_, err := svc.Set(context.Background(), "alice", types.SharingRequest{Enabled: true})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	recs, err := objects.ListByType(context.Background(), types.TypeSharingState)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
