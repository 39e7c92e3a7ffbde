// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package matching ranks cached supplies against a demand.
//
// A supply qualifies when its trust snapshot is at least the requested
// minimum and it shares at least one keyword hash with the demand. The
// overlap ratio divides the shared count by the larger of the two keyword
// sets, so partial coverage of either side is penalized. Results are
// ranked by trust weight (trust snapshot times overlap ratio), ties kept
// in cache order.
//
// Every retained match is persisted as a SupplyDemandMatch audit record,
// so a match is a write as well as a read.
package matching

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/keyword"
	"github.com/pdiddy/feedforward/internal/supplydemand"
	"github.com/pdiddy/feedforward/internal/validate"
	"github.com/pdiddy/feedforward/pkg/types"
)

// Engine holds no state of its own; it reads the store's caches.
type Engine struct {
	store  *supplydemand.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine returns an engine over store.
func NewEngine(store *supplydemand.Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.Named("matching"),
		now:    time.Now,
	}
}

// Candidate is a scored supply before truncation.
type Candidate struct {
	Hash        string
	Supply      *types.Supply
	Matched     []string
	Overlap     float64
	TrustWeight float64
}

// Rank scores supplies against demand keywords and returns every
// qualifying candidate, best first. It does not touch storage.
func Rank(demandKeywords []string, supplies []supplydemand.SupplyEntry, minTrust float64) []Candidate {
	want := keyword.NewSet(demandKeywords)

	var out []Candidate
	for _, e := range supplies {
		sup := e.Supply
		if sup.TrustScore < minTrust {
			continue
		}
		matched := want.Intersect(sup.Keywords)
		if len(matched) == 0 {
			continue
		}
		overlap := OverlapRatio(len(matched), len(sup.Keywords), len(demandKeywords))
		out = append(out, Candidate{
			Hash:        e.Hash,
			Supply:      sup,
			Matched:     matched,
			Overlap:     overlap,
			TrustWeight: sup.TrustScore * overlap,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrustWeight > out[j].TrustWeight
	})
	return out
}

// OverlapRatio divides matched by the larger set size.
func OverlapRatio(matched, supplySize, demandSize int) float64 {
	denom := max(supplySize, demandSize)
	if denom == 0 {
		return 0
	}
	return float64(matched) / float64(denom)
}

// Match ranks cached supplies against the demand stored under
// req.DemandHash, persists an audit record for each of the top results,
// and returns them in rank order. Unset MinTrust and Limit fall back to
// 0.3 and 10.
func (e *Engine) Match(ctx context.Context, req types.MatchRequest) ([]types.MatchResult, error) {
	if err := validate.Match(&req); err != nil {
		return nil, err
	}

	demand, err := e.store.LookupDemand(ctx, req.DemandHash)
	if err != nil {
		return nil, err
	}

	supplies := e.store.Supplies()
	ranked := Rank(demand.Keywords, supplies, req.TrustFloor())
	if limit := req.MaxMatches(); len(ranked) > limit {
		ranked = ranked[:limit]
	}

	created := e.now().UTC()
	results := make([]types.MatchResult, 0, len(ranked))
	for _, c := range ranked {
		record := &types.SupplyDemandMatch{
			DemandHash:      req.DemandHash,
			SupplyHash:      c.Hash,
			MatchScore:      c.Overlap,
			MatchedKeywords: c.Matched,
			TrustWeight:     c.TrustWeight,
			Created:         created,
		}
		if _, err := e.store.CreateMatch(ctx, record); err != nil {
			e.logger.Error("Failed to persist match record",
				zap.String("demand_hash", req.DemandHash),
				zap.String("supply_hash", c.Hash),
				zap.Error(err))
			return nil, err
		}

		results = append(results, types.MatchResult{
			SupplyHash:      c.Hash,
			MatchScore:      c.Overlap,
			TrustWeight:     c.TrustWeight,
			MatchedKeywords: c.Matched,
			ConversationID:  c.Supply.ConversationID,
		})
	}

	e.logger.Info("Matched demand",
		zap.String("demand_hash", req.DemandHash),
		zap.Int("scanned", len(supplies)),
		zap.Int("matches", len(results)))

	return results, nil
}
