// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feedforward wires the supply/demand store, trust scoring,
// matching, sharing, and corpus services behind the public operations.
//
// Every operation resolves the caller's identity first, validates its input
// second, and only then touches storage, so invalid input never causes a
// partial write.
package feedforward

import (
	"context"
	"errors"
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/corpus"
	"github.com/pdiddy/feedforward/internal/events"
	"github.com/pdiddy/feedforward/internal/identity"
	"github.com/pdiddy/feedforward/internal/keyword"
	"github.com/pdiddy/feedforward/internal/matching"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/internal/sharing"
	"github.com/pdiddy/feedforward/internal/supplydemand"
	"github.com/pdiddy/feedforward/internal/trust"
	"github.com/pdiddy/feedforward/internal/validate"
	"github.com/pdiddy/feedforward/pkg/types"
)

// Engine runs feed-forward operations. It is safe for concurrent use.
type Engine struct {
	identity identity.Provider
	bus      *events.Bus
	store    *supplydemand.Store
	trust    *trust.Service
	matcher  *matching.Engine
	sharing  *sharing.Service
	corpus   *corpus.Provider
	logger   *zap.Logger
	now      func() time.Time
}

// New builds an Engine over objects. Identity is resolved through id on
// every call.
func New(objects objectstore.ObjectStore, id identity.Provider, logger *zap.Logger) *Engine {
	bus := events.NewBus(logger)
	store := supplydemand.NewStore(objects, logger)
	return &Engine{
		identity: id,
		bus:      bus,
		store:    store,
		trust:    trust.NewService(objects, bus, logger),
		matcher:  matching.NewEngine(store, logger),
		sharing:  sharing.NewService(objects, bus, logger),
		corpus:   corpus.NewProvider(logger),
		logger:   logger.Named("feedforward"),
		now:      time.Now,
	}
}

// Events returns the bus lifecycle events are emitted on.
func (e *Engine) Events() *events.Bus { return e.bus }

// Warm preloads persisted supplies and demands into the caches.
func (e *Engine) Warm(ctx context.Context) (int, error) {
	return e.store.Warm(ctx)
}

func (e *Engine) participant(ctx context.Context) (string, error) {
	id, err := e.identity.CurrentParticipantID(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", apperrors.ErrAuthentication
	}
	return id, nil
}

// CreateSupply hashes the request keywords, snapshots the creator's trust
// score, persists the supply, and emits supply-created.
func (e *Engine) CreateSupply(ctx context.Context, req types.SupplyRequest) (*types.SupplyReceipt, error) {
	pid, err := e.participant(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Supply(&req); err != nil {
		return nil, err
	}

	hashes := keyword.HashAll(req.Keywords)

	score, err := e.trust.GetOrCompute(ctx, pid)
	if err != nil {
		if !errors.Is(err, apperrors.ErrStoreUnavailable) || score == nil {
			return nil, err
		}
		e.logger.Warn("Creating supply with default trust snapshot",
			zap.String("participant_id", pid),
			zap.Error(err))
	}

	supply := &types.Supply{
		Keywords:       hashes,
		ContextLevel:   req.ContextLevel,
		ConversationID: req.ConversationID,
		CreatorID:      pid,
		TrustScore:     score.Score,
		Created:        e.now().UTC(),
		Metadata:       maps.Clone(req.Metadata),
	}
	hash, err := e.store.CreateSupply(ctx, supply)
	if err != nil {
		e.logger.Error("Failed to create supply",
			zap.String("participant_id", pid),
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		return nil, err
	}

	e.logger.Info("Supply created",
		zap.String("supply_hash", hash),
		zap.String("participant_id", pid),
		zap.Int("keywords", len(hashes)))

	e.bus.Emit(events.SupplyCreated, events.SupplyCreatedPayload{
		SupplyHash:     hash,
		CreatorID:      pid,
		ConversationID: req.ConversationID,
		Keywords:       hashes,
		ContextLevel:   req.ContextLevel,
		TrustScore:     supply.TrustScore,
	})

	return &types.SupplyReceipt{SupplyHash: hash, KeywordHashes: hashes}, nil
}

// CreateDemand hashes the request keywords, persists the demand, and
// emits demand-created.
func (e *Engine) CreateDemand(ctx context.Context, req types.DemandRequest) (*types.DemandReceipt, error) {
	pid, err := e.participant(ctx)
	if err != nil {
		return nil, err
	}
	now := e.now().UTC()
	if err := validate.Demand(&req, now); err != nil {
		return nil, err
	}

	hashes := keyword.HashAll(req.Keywords)
	demand := &types.Demand{
		Keywords:    hashes,
		Urgency:     req.Urgency,
		Context:     req.Context,
		Criteria:    maps.Clone(req.Criteria),
		RequesterID: pid,
		Created:     now,
		Expires:     req.Expires,
		MaxResults:  req.MaxResults,
	}
	hash, err := e.store.CreateDemand(ctx, demand)
	if err != nil {
		e.logger.Error("Failed to create demand",
			zap.String("participant_id", pid),
			zap.Error(err))
		return nil, err
	}

	e.logger.Info("Demand created",
		zap.String("demand_hash", hash),
		zap.String("participant_id", pid),
		zap.Int("urgency", req.Urgency))

	e.bus.Emit(events.DemandCreated, events.DemandCreatedPayload{
		DemandHash:  hash,
		RequesterID: pid,
		Keywords:    hashes,
		Urgency:     req.Urgency,
	})

	return &types.DemandReceipt{DemandHash: hash}, nil
}

// MatchSupplyDemand ranks cached supplies against a demand. It persists
// one SupplyDemandMatch audit record per returned match. Omitted MinTrust
// and Limit default to 0.3 and 10.
func (e *Engine) MatchSupplyDemand(ctx context.Context, req types.MatchRequest) (*types.MatchResponse, error) {
	if _, err := e.participant(ctx); err != nil {
		return nil, err
	}
	matches, err := e.matcher.Match(ctx, req)
	if err != nil {
		return nil, err
	}
	return &types.MatchResponse{Matches: matches}, nil
}

// UpdateTrust applies a bounded adjustment to a participant's trust score.
func (e *Engine) UpdateTrust(ctx context.Context, req types.TrustAdjustment) (*types.TrustUpdate, error) {
	if _, err := e.participant(ctx); err != nil {
		return nil, err
	}
	score, err := e.trust.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	return &types.TrustUpdate{NewScore: score.Score, Components: score.Components}, nil
}

// TrustScore returns a participant's trust record, or the caller's own
// when participantID is empty.
func (e *Engine) TrustScore(ctx context.Context, participantID string) (*types.TrustScore, error) {
	pid, err := e.participant(ctx)
	if err != nil {
		return nil, err
	}
	if participantID == "" {
		participantID = pid
	}
	return e.trust.GetOrCompute(ctx, participantID)
}

// EnableSharing turns feed-forward sharing on or off for a conversation
// and reports the previous state.
func (e *Engine) EnableSharing(ctx context.Context, req types.SharingRequest) (*types.SharingUpdate, error) {
	pid, err := e.participant(ctx)
	if err != nil {
		return nil, err
	}
	prev, err := e.sharing.Set(ctx, pid, req)
	if err != nil {
		return nil, err
	}
	return &types.SharingUpdate{PreviousState: prev}, nil
}

// GetCorpusStream returns one page of the training corpus.
func (e *Engine) GetCorpusStream(ctx context.Context, q types.CorpusQuery) (*types.CorpusPage, error) {
	if _, err := e.participant(ctx); err != nil {
		return nil, err
	}
	return e.corpus.Stream(ctx, q)
}
