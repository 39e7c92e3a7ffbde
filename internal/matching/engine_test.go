// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/keyword"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/internal/supplydemand"
	"github.com/pdiddy/feedforward/pkg/types"
)

type fixture struct {
	objects *objectstore.Memory
	store   *supplydemand.Store
	engine  *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	objects := objectstore.NewMemory()
	store := supplydemand.NewStore(objects, zap.NewNop())
	return &fixture{objects: objects, store: store, engine: NewEngine(store, zap.NewNop())}
}

func (f *fixture) supply(t *testing.T, trust float64, conv string, words ...string) string {
	t.Helper()
	hash, err := f.store.CreateSupply(context.Background(), &types.Supply{
		Keywords: keyword.HashAll(words), ContextLevel: 3, ConversationID: conv, TrustScore: trust,
	})
	require.NoError(t, err)
	return hash
}

func (f *fixture) demand(t *testing.T, words ...string) string {
	t.Helper()
	hash, err := f.store.CreateDemand(context.Background(), &types.Demand{
		Keywords: keyword.HashAll(words), Urgency: 5, Context: "ctx",
	})
	require.NoError(t, err)
	return hash
}

func (f *fixture) matchRecords(t *testing.T) []types.SupplyDemandMatch {
	t.Helper()
	recs, err := f.objects.ListByType(context.Background(), types.TypeMatch)
	require.NoError(t, err)
	out := make([]types.SupplyDemandMatch, len(recs))
	for i, r := range recs {
		require.NoError(t, r.Decode(&out[i]))
	}
	return out
}

func defaultReq(demandHash string) types.MatchRequest {
	return types.MatchRequest{DemandHash: demandHash}
}

func withParams(req types.MatchRequest, minTrust float64, limit int) types.MatchRequest {
	req.MinTrust = &minTrust
	req.Limit = &limit
	return req
}

func TestOverlapRatioUsesLargerSet(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, OverlapRatio(2, 2, 3), 1e-9)
	assert.InDelta(t, 0.75, OverlapRatio(3, 4, 3), 1e-9)
	assert.InDelta(t, 0.5, OverlapRatio(1, 2, 2), 1e-9)
	assert.Zero(t, OverlapRatio(0, 0, 0))
}

func TestBroaderSupplyRanksAboveNarrower(t *testing.T) {
	f := newFixture(t)
	a := f.supply(t, 0.9, "conv-a", "h1", "h2")
	b := f.supply(t, 0.9, "conv-b", "h1", "h2", "h3", "h4")
	d := f.demand(t, "h1", "h2", "h3")

	matches, err := f.engine.Match(context.Background(), defaultReq(d))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, b, matches[0].SupplyHash)
	assert.InDelta(t, 0.75, matches[0].MatchScore, 1e-9)
	assert.InDelta(t, 0.675, matches[0].TrustWeight, 1e-9)
	assert.Equal(t, "conv-b", matches[0].ConversationID)

	assert.Equal(t, a, matches[1].SupplyHash)
	assert.InDelta(t, 2.0/3.0, matches[1].MatchScore, 1e-9)
	assert.Len(t, matches[1].MatchedKeywords, 2)
}

func TestLowTrustSuppliesExcluded(t *testing.T) {
	f := newFixture(t)
	f.supply(t, 0.29, "low", "h1", "h2", "h3")
	ok := f.supply(t, 0.3, "ok", "h1")
	d := f.demand(t, "h1", "h2", "h3")

	matches, err := f.engine.Match(context.Background(), defaultReq(d))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, ok, matches[0].SupplyHash)

	matches, err = f.engine.Match(context.Background(), withParams(defaultReq(d), 0.95, 10))
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = f.engine.Match(context.Background(), withParams(defaultReq(d), 0, 10))
	require.NoError(t, err)
	assert.Len(t, matches, 2, "an explicit zero floor admits every trust level")
}

func TestOmittedParametersUseDefaults(t *testing.T) {
	f := newFixture(t)
	f.supply(t, 0.29, "low", "shared")
	for i := 0; i < 12; i++ {
		f.supply(t, 0.5, fmt.Sprintf("c%d", i), "shared")
	}
	d := f.demand(t, "shared")

	omitted, err := f.engine.Match(context.Background(), types.MatchRequest{DemandHash: d})
	require.NoError(t, err)
	explicit, err := f.engine.Match(context.Background(),
		withParams(defaultReq(d), types.DefaultMinTrust, types.DefaultMatchLimit))
	require.NoError(t, err)

	assert.Len(t, omitted, types.DefaultMatchLimit)
	assert.Equal(t, explicit, omitted)
	for _, m := range omitted {
		assert.NotEqual(t, "low", m.ConversationID)
	}
}

func TestDisjointSuppliesExcluded(t *testing.T) {
	f := newFixture(t)
	f.supply(t, 1.0, "other", "go", "channels")
	d := f.demand(t, "rust")

	matches, err := f.engine.Match(context.Background(), defaultReq(d))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, f.matchRecords(t), "no audit records without matches")
}

func TestLimitTruncatesAndPersistsOnlyRetained(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.supply(t, 0.5+float64(i)/10, fmt.Sprintf("c%d", i), "shared")
	}
	d := f.demand(t, "shared")

	matches, err := f.engine.Match(context.Background(), withParams(defaultReq(d), 0.3, 3))
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "c4", matches[0].ConversationID)
	assert.Equal(t, "c3", matches[1].ConversationID)
	assert.Equal(t, "c2", matches[2].ConversationID)

	records := f.matchRecords(t)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, d, r.DemandHash)
		assert.Equal(t, matches[i].SupplyHash, r.SupplyHash)
		assert.Equal(t, matches[i].TrustWeight, r.TrustWeight)
		assert.NotEmpty(t, r.ID)
	}
}

func TestTiesKeepCacheOrder(t *testing.T) {
	f := newFixture(t)
	first := f.supply(t, 0.8, "first", "a", "b")
	second := f.supply(t, 0.8, "second", "a", "c")
	d := f.demand(t, "a", "d")

	matches, err := f.engine.Match(context.Background(), defaultReq(d))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, first, matches[0].SupplyHash)
	assert.Equal(t, second, matches[1].SupplyHash)
}

func TestMatchIsDeterministic(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.supply(t, 0.6, fmt.Sprintf("c%d", i), "x", fmt.Sprintf("k%d", i%3))
	}
	d := f.demand(t, "x", "k1")

	first, err := f.engine.Match(context.Background(), defaultReq(d))
	require.NoError(t, err)
	second, err := f.engine.Match(context.Background(), defaultReq(d))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMatchErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Match(context.Background(), defaultReq("missing"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	d := f.demand(t, "a")
	_, err = f.engine.Match(context.Background(), withParams(defaultReq(d), 0.3, 0))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.engine.Match(context.Background(), withParams(defaultReq(d), 1.5, 10))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRankDoesNotRequireStorage(t *testing.T) {
	supplies := []supplydemand.SupplyEntry{
		{Hash: "s1", Supply: &types.Supply{Keywords: []string{"h1", "h2"}, TrustScore: 0.9}},
		{Hash: "s2", Supply: &types.Supply{Keywords: []string{"h1", "h2", "h3", "h4"}, TrustScore: 0.9}},
		{Hash: "s3", Supply: &types.Supply{Keywords: []string{"h1"}, TrustScore: 0.1}},
	}
	ranked := Rank([]string{"h1", "h2", "h3"}, supplies, 0.3)
	require.Len(t, ranked, 2)
	assert.Equal(t, "s2", ranked[0].Hash)
	assert.Equal(t, "s1", ranked[1].Hash)
}
