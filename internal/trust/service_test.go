// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trust

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/events"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/pkg/types"
)

// recorder collects emitted events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Emit(name events.Name, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events.Event{Name: name, Payload: payload})
}

// unavailableStore fails lookups with a non-NotFound error.
type unavailableStore struct{ objectstore.ObjectStore }

func (unavailableStore) GetByIDHash(context.Context, string) (*objectstore.Record, error) {
	return nil, errors.New("connection reset")
}

func newService(t *testing.T) (*Service, *objectstore.Memory, *recorder) {
	t.Helper()
	objects := objectstore.NewMemory()
	rec := &recorder{}
	return NewService(objects, rec, zap.NewNop()), objects, rec
}

func TestGetOrComputeDefaults(t *testing.T) {
	svc, objects, _ := newService(t)

	score, err := svc.GetOrCompute(context.Background(), "alice")
	require.NoError(t, err)
	assert.InDelta(t, 0.35, score.Score, 1e-9)
	assert.Equal(t, types.DefaultTrustComponents(), score.Components)
	assert.Empty(t, score.History)

	hash := objectstore.IDHash(types.TypeTrustScore, "alice")
	assert.Equal(t, 1, objects.Versions(hash), "defaults are persisted")

	again, err := svc.GetOrCompute(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, score.Score, again.Score)
	assert.Equal(t, 1, objects.Versions(hash), "existing record returned unchanged")
}

func TestUpdateFromDefaults(t *testing.T) {
	svc, _, rec := newService(t)

	score, err := svc.Update(context.Background(), types.TrustAdjustment{
		ParticipantID: "alice", Adjustment: 0.1, Reason: "accurate answer", Evidence: "match-42",
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.6, score.Components.HistoricalAccuracy, 1e-9)
	assert.InDelta(t, 0.37, score.Score, 1e-9)
	require.Len(t, score.History, 1)
	assert.Equal(t, "accurate answer", score.History[0].Reason)
	assert.Equal(t, "match-42", score.History[0].Evidence)
	assert.InDelta(t, 0.1, score.History[0].Change, 1e-9)

	require.Len(t, rec.events, 1)
	payload := rec.events[0].Payload.(events.TrustUpdatedPayload)
	assert.Equal(t, events.TrustUpdated, rec.events[0].Name)
	assert.InDelta(t, 0.35, payload.OldScore, 1e-9)
	assert.InDelta(t, 0.37, payload.NewScore, 1e-9)

	persisted, err := svc.GetOrCompute(context.Background(), "alice")
	require.NoError(t, err)
	assert.InDelta(t, 0.37, persisted.Score, 1e-9)
	assert.Len(t, persisted.History, 1)
}

func TestUpdateRejectsOutOfBounds(t *testing.T) {
	svc, objects, rec := newService(t)

	_, err := svc.Update(context.Background(), types.TrustAdjustment{ParticipantID: "alice", Adjustment: 0.15, Reason: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Update(context.Background(), types.TrustAdjustment{ParticipantID: "alice", Adjustment: 0.05})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Zero(t, objects.Versions(objectstore.IDHash(types.TypeTrustScore, "alice")), "no write on invalid input")
	assert.Empty(t, rec.events)
}

func TestUpdateClampsComponent(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	var score *types.TrustScore
	for i := 0; i < 8; i++ {
		var err error
		score, err = svc.Update(ctx, types.TrustAdjustment{ParticipantID: "bob", Adjustment: 0.1, Reason: "good"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1.0, score.Components.HistoricalAccuracy)

	for i := 0; i < 12; i++ {
		var err error
		score, err = svc.Update(ctx, types.TrustAdjustment{ParticipantID: "bob", Adjustment: -0.1, Reason: "bad"})
		require.NoError(t, err)
	}
	assert.Equal(t, 0.0, score.Components.HistoricalAccuracy)
	assert.InDelta(t, score.Components.Score(), score.Score, 1e-12)
	assert.Len(t, score.History, 20)
}

func TestConcurrentUpdatesAreNotLost(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, types.TrustAdjustment{ParticipantID: "carol", Adjustment: 0.01, Reason: "helpful"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	score, err := svc.GetOrCompute(ctx, "carol")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, score.Components.HistoricalAccuracy, 1e-9)
	assert.Len(t, score.History, n)
	assert.Len(t, rec.events, n)
}

func TestParticipantLocksAreReleased(t *testing.T) {
	svc := NewService(objectstore.NewMemory(), &recorder{}, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, pid := range []string{"erin", "frank", "erin", "grace", "frank"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, types.TrustAdjustment{ParticipantID: pid, Adjustment: 0.05, Reason: "helpful"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err := svc.GetOrCompute(ctx, "heidi")
	require.NoError(t, err)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks)
}

func TestStoreUnavailableIsDistinguished(t *testing.T) {
	objects := unavailableStore{objectstore.NewMemory()}
	svc := NewService(objects, &recorder{}, zap.NewNop())
	ctx := context.Background()

	score, err := svc.GetOrCompute(ctx, "dave")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	require.NotNil(t, score, "defaults still returned")
	assert.InDelta(t, 0.35, score.Score, 1e-9)

	_, err = svc.Update(ctx, types.TrustAdjustment{ParticipantID: "dave", Adjustment: 0.1, Reason: "x"})
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}
