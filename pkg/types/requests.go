// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SupplyRequest is the input of createSupply. Keywords are raw text; they
// are hashed before anything is stored.
type SupplyRequest struct {
	Keywords       []string          `json:"keywords" yaml:"keywords" validate:"min=1,max=20,dive,notblank"`
	ContextLevel   int               `json:"context_level" yaml:"context_level" validate:"min=1,max=5"`
	ConversationID string            `json:"conversation_id" yaml:"conversation_id" validate:"required"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// SupplyReceipt is the output of createSupply.
type SupplyReceipt struct {
	SupplyHash    string   `json:"supply_hash" yaml:"supply_hash"`
	KeywordHashes []string `json:"keyword_hashes" yaml:"keyword_hashes"`
}

// DemandRequest is the input of createDemand.
type DemandRequest struct {
	Keywords   []string          `json:"keywords" yaml:"keywords" validate:"min=1,max=10,dive,notblank"`
	Urgency    int               `json:"urgency" yaml:"urgency" validate:"min=1,max=10"`
	Context    string            `json:"context" yaml:"context" validate:"required,max=500"`
	Criteria   map[string]string `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Expires    *time.Time        `json:"expires,omitempty" yaml:"expires,omitempty"`
	MaxResults *int              `json:"max_results,omitempty" yaml:"max_results,omitempty"`
}

// DemandReceipt is the output of createDemand.
type DemandReceipt struct {
	DemandHash string `json:"demand_hash" yaml:"demand_hash"`
}

// MatchRequest is the input of matchSupplyDemand. A nil MinTrust or Limit
// takes DefaultMinTrust or DefaultMatchLimit, so an explicit zero trust
// floor stays distinguishable from an omitted one.
type MatchRequest struct {
	DemandHash string   `json:"demand_hash" yaml:"demand_hash" validate:"required"`
	MinTrust   *float64 `json:"min_trust,omitempty" yaml:"min_trust,omitempty" validate:"omitnil,min=0,max=1"`
	Limit      *int     `json:"limit,omitempty" yaml:"limit,omitempty" validate:"omitnil,min=1,max=100"`
}

// Match request defaults.
const (
	DefaultMinTrust   = 0.3
	DefaultMatchLimit = 10
)

// TrustFloor returns MinTrust, or DefaultMinTrust when it is unset.
func (r MatchRequest) TrustFloor() float64 {
	if r.MinTrust == nil {
		return DefaultMinTrust
	}
	return *r.MinTrust
}

// MaxMatches returns Limit, or DefaultMatchLimit when it is unset.
func (r MatchRequest) MaxMatches() int {
	if r.Limit == nil {
		return DefaultMatchLimit
	}
	return *r.Limit
}

// MatchResponse is the output of matchSupplyDemand.
type MatchResponse struct {
	Matches []MatchResult `json:"matches" yaml:"matches"`
}

// TrustAdjustment is the input of updateTrust.
type TrustAdjustment struct {
	ParticipantID string  `json:"participant_id" yaml:"participant_id" validate:"required"`
	Adjustment    float64 `json:"adjustment" yaml:"adjustment" validate:"min=-0.1,max=0.1"`
	Reason        string  `json:"reason" yaml:"reason" validate:"notblank"`
	Evidence      string  `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// TrustUpdate is the output of updateTrust.
type TrustUpdate struct {
	NewScore   float64         `json:"new_score" yaml:"new_score"`
	Components TrustComponents `json:"components" yaml:"components"`
}

// SharingRequest is the input of enableSharing.
type SharingRequest struct {
	ConversationID string `json:"conversation_id" yaml:"conversation_id" validate:"required"`
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	Retroactive    bool   `json:"retroactive" yaml:"retroactive"`
}

// SharingUpdate is the output of enableSharing.
type SharingUpdate struct {
	PreviousState bool `json:"previous_state" yaml:"previous_state"`
}

// CorpusQuery is the input of getCorpusStream. Nil fields are unset.
type CorpusQuery struct {
	Since      *int64   `json:"since,omitempty" yaml:"since,omitempty"`
	MinQuality *float64 `json:"min_quality,omitempty" yaml:"min_quality,omitempty"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}
