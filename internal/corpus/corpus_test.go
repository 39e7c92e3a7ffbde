// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/pkg/types"
)

func TestStreamReturnsTerminalEmptyPage(t *testing.T) {
	p := NewProvider(zap.NewNop())
	since := int64(1700000000)
	quality := 0.8

	for _, q := range []types.CorpusQuery{
		{},
		{Since: &since, MinQuality: &quality, Keywords: []string{"rust"}},
	} {
		page, err := p.Stream(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, page.Entries)
		assert.Empty(t, page.Entries)
		assert.False(t, page.HasMore)
		assert.Equal(t, EndCursor, page.NextCursor)
	}
}

func TestStreamValidates(t *testing.T) {
	p := NewProvider(zap.NewNop())
	neg := int64(-5)
	bad := -0.2

	_, err := p.Stream(context.Background(), types.CorpusQuery{Since: &neg})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = p.Stream(context.Background(), types.CorpusQuery{MinQuality: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
