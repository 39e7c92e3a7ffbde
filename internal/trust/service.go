// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trust computes, persists, and adjusts participant trust scores.
//
// A participant starts unscored. The first lookup persists the default
// components; each Update applies one bounded adjustment to historical
// accuracy and appends a history entry. Score is always recomputed from
// the components.
package trust

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/events"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/internal/validate"
	"github.com/pdiddy/feedforward/pkg/types"
)

// Service owns every trust score read-modify-write cycle. Calls for the
// same participant are serialized.
type Service struct {
	objects objectstore.ObjectStore
	events  events.Emitter
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*participantLock
}

// participantLock is dropped from Service.locks when refs reaches zero.
type participantLock struct {
	sync.Mutex
	refs int
}

// NewService returns a Service persisting to objects and announcing
// updates on emitter.
func NewService(objects objectstore.ObjectStore, emitter events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		objects: objects,
		events:  emitter,
		logger:  logger.Named("trust"),
		now:     time.Now,
		locks:   make(map[string]*participantLock),
	}
}

func (s *Service) lock(participantID string) func() {
	s.mu.Lock()
	l, ok := s.locks[participantID]
	if !ok {
		l = &participantLock{}
		s.locks[participantID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, participantID)
		}
		s.mu.Unlock()
	}
}

// GetOrCompute returns the participant's persisted score, creating and
// persisting the default score if none exists.
//
// When the store cannot be read or written the default score is still
// returned, together with an error wrapping apperrors.ErrStoreUnavailable.
// Callers decide whether defaults are good enough.
func (s *Service) GetOrCompute(ctx context.Context, participantID string) (*types.TrustScore, error) {
	unlock := s.lock(participantID)
	defer unlock()
	return s.getOrCompute(ctx, participantID)
}

func (s *Service) getOrCompute(ctx context.Context, participantID string) (*types.TrustScore, error) {
	hash := objectstore.IDHash(types.TypeTrustScore, participantID)

	rec, err := s.objects.GetByIDHash(ctx, hash)
	switch {
	case err == nil:
		var score types.TrustScore
		if err := rec.Decode(&score); err != nil {
			return s.defaults(participantID), fmt.Errorf("trust score %s: %w: %v", participantID, apperrors.ErrStoreUnavailable, err)
		}
		return &score, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		s.logger.Warn("Trust score lookup failed, using defaults",
			zap.String("participant_id", participantID),
			zap.Error(err))
		return s.defaults(participantID), fmt.Errorf("trust score %s: %w: %v", participantID, apperrors.ErrStoreUnavailable, err)
	}

	score := s.defaults(participantID)
	if _, err := s.objects.StoreVersioned(ctx, score); err != nil {
		s.logger.Warn("Persisting default trust score failed",
			zap.String("participant_id", participantID),
			zap.Error(err))
		return score, fmt.Errorf("trust score %s: %w: %v", participantID, apperrors.ErrStoreUnavailable, err)
	}

	s.logger.Debug("Trust score initialized",
		zap.String("participant_id", participantID),
		zap.Float64("score", score.Score))
	return score, nil
}

func (s *Service) defaults(participantID string) *types.TrustScore {
	score := &types.TrustScore{
		ParticipantID: participantID,
		Components:    types.DefaultTrustComponents(),
		History:       []types.TrustHistoryEntry{},
		LastUpdated:   s.now().UTC(),
		Endorsers:     []string{},
	}
	score.Recompute()
	return score
}

// Update applies a bounded adjustment to the participant's historical
// accuracy, persists the new score, and emits trust-updated.
func (s *Service) Update(ctx context.Context, req types.TrustAdjustment) (*types.TrustScore, error) {
	if err := validate.TrustAdjustment(&req); err != nil {
		return nil, err
	}

	unlock := s.lock(req.ParticipantID)
	defer unlock()

	score, err := s.getOrCompute(ctx, req.ParticipantID)
	if err != nil {
		return nil, err
	}

	oldScore := score.Score
	now := s.now().UTC()

	score.Components.HistoricalAccuracy = clamp(score.Components.HistoricalAccuracy + req.Adjustment)
	score.Recompute()
	score.History = append(score.History, types.TrustHistoryEntry{
		Timestamp: now,
		Change:    req.Adjustment,
		Reason:    req.Reason,
		Evidence:  req.Evidence,
	})
	score.LastUpdated = now

	if _, err := s.objects.StoreVersioned(ctx, score); err != nil {
		s.logger.Error("Failed to persist trust score",
			zap.String("participant_id", req.ParticipantID),
			zap.Error(err))
		return nil, apperrors.Store("store trust score", err)
	}

	s.logger.Info("Trust score updated",
		zap.String("participant_id", req.ParticipantID),
		zap.Float64("old_score", oldScore),
		zap.Float64("new_score", score.Score),
		zap.String("reason", req.Reason))

	s.events.Emit(events.TrustUpdated, events.TrustUpdatedPayload{
		ParticipantID: req.ParticipantID,
		OldScore:      oldScore,
		NewScore:      score.Score,
		Components:    score.Components,
	})

	return score, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
