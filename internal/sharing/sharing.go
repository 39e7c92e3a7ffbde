// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sharing records which conversations take part in feed-forward
// knowledge sharing.
package sharing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/events"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/internal/validate"
	"github.com/pdiddy/feedforward/pkg/types"
)

// Service toggles sharing per conversation.
type Service struct {
	objects objectstore.ObjectStore
	events  events.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewService returns a Service persisting to objects and announcing
// changes on emitter.
func NewService(objects objectstore.ObjectStore, emitter events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		objects: objects,
		events:  emitter,
		logger:  logger.Named("sharing"),
		now:     time.Now,
	}
}

// State returns the conversation's sharing state. A conversation that was
// never configured is disabled.
func (s *Service) State(ctx context.Context, conversationID string) (*types.SharingState, error) {
	rec, err := s.objects.GetByIDHash(ctx, objectstore.IDHash(types.TypeSharingState, conversationID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &types.SharingState{ConversationID: conversationID}, nil
		}
		return nil, apperrors.Store("get sharing state", err)
	}
	var state types.SharingState
	if err := rec.Decode(&state); err != nil {
		return nil, apperrors.Store("decode sharing state", err)
	}
	return &state, nil
}

// Set stores the new sharing state for a conversation on behalf of
// participantID, emits sharing-updated, and returns whether sharing was
// enabled before.
func (s *Service) Set(ctx context.Context, participantID string, req types.SharingRequest) (bool, error) {
	if err := validate.Sharing(&req); err != nil {
		return false, err
	}

	prev, err := s.State(ctx, req.ConversationID)
	if err != nil {
		return false, err
	}

	next := &types.SharingState{
		ConversationID: req.ConversationID,
		Enabled:        req.Enabled,
		Retroactive:    req.Retroactive,
		Updated:        s.now().UTC(),
		UpdatedBy:      participantID,
	}
	if _, err := s.objects.StoreVersioned(ctx, next); err != nil {
		s.logger.Error("Failed to store sharing state",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		return false, apperrors.Store("store sharing state", err)
	}

	s.logger.Info("Sharing updated",
		zap.String("conversation_id", req.ConversationID),
		zap.Bool("enabled", req.Enabled),
		zap.Bool("retroactive", req.Retroactive))

	s.events.Emit(events.SharingUpdated, events.SharingUpdatedPayload{
		ConversationID: req.ConversationID,
		Enabled:        req.Enabled,
		Retroactive:    req.Retroactive,
		PreviousState:  prev.Enabled,
	})
	return prev.Enabled, nil
}
