// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Object type names used as the ObjectStore type discriminator.
const (
	TypeSupply       = "Supply"
	TypeDemand       = "Demand"
	TypeTrustScore   = "TrustScore"
	TypeMatch        = "SupplyDemandMatch"
	TypeSharingState = "SharingState"
)

// Supply advertises that a participant holds knowledge about a set of
// hashed keywords. Immutable once created.
type Supply struct {
	// ID is assigned by the store on creation.
	ID string `json:"id" yaml:"id"`

	// Keywords holds 1..20 unique keyword hashes.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ContextLevel is how much surrounding context the supply exposes (1..5).
	ContextLevel int `json:"context_level" yaml:"context_level"`

	// ConversationID identifies the conversation the knowledge comes from.
	ConversationID string `json:"conversation_id" yaml:"conversation_id"`

	// CreatorID is the participant who created the supply.
	CreatorID string `json:"creator_id" yaml:"creator_id"`

	// TrustScore is the creator's trust score snapshot at creation time.
	TrustScore float64 `json:"trust_score" yaml:"trust_score"`

	Created time.Time `json:"created" yaml:"created"`

	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// IsRecursive is reserved for chained supplies and always false today.
	IsRecursive bool `json:"is_recursive" yaml:"is_recursive"`
}

func (s *Supply) ObjectType() string  { return TypeSupply }
func (s *Supply) IdentityKey() string { return s.ID }

// Demand requests knowledge about a set of hashed keywords.
type Demand struct {
	ID string `json:"id" yaml:"id"`

	// Keywords holds 1..10 unique keyword hashes.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Urgency ranges from 1 (low) to 10 (high).
	Urgency int `json:"urgency" yaml:"urgency"`

	// Context is a free-text description of at most 500 characters.
	Context string `json:"context" yaml:"context"`

	Criteria map[string]string `json:"criteria,omitempty" yaml:"criteria,omitempty"`

	RequesterID string    `json:"requester_id" yaml:"requester_id"`
	Created     time.Time `json:"created" yaml:"created"`

	// Expires is advisory; nothing purges expired demands.
	Expires *time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`

	MaxResults *int `json:"max_results,omitempty" yaml:"max_results,omitempty"`
}

func (d *Demand) ObjectType() string  { return TypeDemand }
func (d *Demand) IdentityKey() string { return d.ID }

// Trust component weights. They sum to 1.
const (
	WeightIdentityVerification = 0.3
	WeightHistoricalAccuracy   = 0.2
	WeightPeerEndorsements     = 0.2
	WeightActivityConsistency  = 0.2
	WeightAccountAge           = 0.1
)

// TrustComponents are the five inputs of a trust score, each in [0,1].
type TrustComponents struct {
	IdentityVerification float64 `json:"identity_verification" yaml:"identity_verification"`
	HistoricalAccuracy   float64 `json:"historical_accuracy" yaml:"historical_accuracy"`
	PeerEndorsements     float64 `json:"peer_endorsements" yaml:"peer_endorsements"`
	ActivityConsistency  float64 `json:"activity_consistency" yaml:"activity_consistency"`
	AccountAge           float64 `json:"account_age" yaml:"account_age"`
}

// DefaultTrustComponents returns the components assigned to a participant
// that has never been scored.
func DefaultTrustComponents() TrustComponents {
	return TrustComponents{
		IdentityVerification: 0.5,
		HistoricalAccuracy:   0.5,
		PeerEndorsements:     0.0,
		ActivityConsistency:  0.5,
		AccountAge:           0.0,
	}
}

// Score returns the weighted sum of the components.
func (c TrustComponents) Score() float64 {
	return WeightIdentityVerification*c.IdentityVerification +
		WeightHistoricalAccuracy*c.HistoricalAccuracy +
		WeightPeerEndorsements*c.PeerEndorsements +
		WeightActivityConsistency*c.ActivityConsistency +
		WeightAccountAge*c.AccountAge
}

// TrustHistoryEntry records one bounded adjustment.
type TrustHistoryEntry struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Change    float64   `json:"change" yaml:"change"`
	Reason    string    `json:"reason" yaml:"reason"`
	Evidence  string    `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// TrustScore is a participant's reputation record. Score is always derived
// from Components and never set on its own.
type TrustScore struct {
	ParticipantID string              `json:"participant_id" yaml:"participant_id"`
	Score         float64             `json:"score" yaml:"score"`
	Components    TrustComponents     `json:"components" yaml:"components"`
	History       []TrustHistoryEntry `json:"history" yaml:"history"`
	LastUpdated   time.Time           `json:"last_updated" yaml:"last_updated"`

	// Endorsers is reserved for peer endorsement tracking.
	Endorsers []string `json:"endorsers" yaml:"endorsers"`
}

func (t *TrustScore) ObjectType() string  { return TypeTrustScore }
func (t *TrustScore) IdentityKey() string { return t.ParticipantID }

// Recompute sets Score from Components.
func (t *TrustScore) Recompute() {
	t.Score = t.Components.Score()
}

// SupplyDemandMatch is the append-only audit record of one ranked pairing.
type SupplyDemandMatch struct {
	ID              string    `json:"id" yaml:"id"`
	DemandHash      string    `json:"demand_hash" yaml:"demand_hash"`
	SupplyHash      string    `json:"supply_hash" yaml:"supply_hash"`
	MatchScore      float64   `json:"match_score" yaml:"match_score"`
	MatchedKeywords []string  `json:"matched_keywords" yaml:"matched_keywords"`
	TrustWeight     float64   `json:"trust_weight" yaml:"trust_weight"`
	Created         time.Time `json:"created" yaml:"created"`
}

func (m *SupplyDemandMatch) ObjectType() string  { return TypeMatch }
func (m *SupplyDemandMatch) IdentityKey() string { return m.ID }

// MatchResult is one ranked entry returned to the caller of a match.
type MatchResult struct {
	SupplyHash      string   `json:"supply_hash" yaml:"supply_hash"`
	MatchScore      float64  `json:"match_score" yaml:"match_score"`
	TrustWeight     float64  `json:"trust_weight" yaml:"trust_weight"`
	MatchedKeywords []string `json:"matched_keywords" yaml:"matched_keywords"`
	ConversationID  string   `json:"conversation_id" yaml:"conversation_id"`
}

// SharingState records whether a conversation contributes to feed-forward
// sharing.
type SharingState struct {
	ConversationID string    `json:"conversation_id" yaml:"conversation_id"`
	Enabled        bool      `json:"enabled" yaml:"enabled"`
	Retroactive    bool      `json:"retroactive" yaml:"retroactive"`
	Updated        time.Time `json:"updated" yaml:"updated"`
	UpdatedBy      string    `json:"updated_by" yaml:"updated_by"`
}

func (s *SharingState) ObjectType() string  { return TypeSharingState }
func (s *SharingState) IdentityKey() string { return s.ConversationID }

// CorpusEntry is one exported interaction in a corpus page.
type CorpusEntry struct {
	ID       string    `json:"id" yaml:"id"`
	Keywords []string  `json:"keywords" yaml:"keywords"`
	Quality  float64   `json:"quality" yaml:"quality"`
	Created  time.Time `json:"created" yaml:"created"`
}

// CorpusPage is one page of the corpus stream.
type CorpusPage struct {
	Entries    []CorpusEntry `json:"entries" yaml:"entries"`
	HasMore    bool          `json:"has_more" yaml:"has_more"`
	NextCursor string        `json:"next_cursor" yaml:"next_cursor"`
}
