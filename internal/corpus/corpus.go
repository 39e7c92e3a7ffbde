// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus exposes matched interactions as a paginated stream for
// downstream training use. Entry production is not implemented yet; every
// page is empty and terminal, but the page shape is stable.
package corpus

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/validate"
	"github.com/pdiddy/feedforward/pkg/types"
)

// EndCursor marks the last page.
const EndCursor = "end"

// Provider serves corpus pages.
type Provider struct {
	logger *zap.Logger
}

// NewProvider returns a Provider.
func NewProvider(logger *zap.Logger) *Provider {
	return &Provider{logger: logger.Named("corpus")}
}

// Stream validates q and returns the page after q.Since.
//
// TODO: produce entries from persisted SupplyDemandMatch records once
// quality scoring exists for them.
func (p *Provider) Stream(ctx context.Context, q types.CorpusQuery) (*types.CorpusPage, error) {
	if err := validate.CorpusQuery(&q); err != nil {
		return nil, err
	}
	p.logger.Debug("Corpus stream requested", zap.Int("keywords", len(q.Keywords)))
	return &types.CorpusPage{
		Entries:    []types.CorpusEntry{},
		HasMore:    false,
		NextCursor: EndCursor,
	}, nil
}
