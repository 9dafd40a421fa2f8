package colonylogix

var (
	ErrResearchTreeNotFound      = newError("research tree not found", NOT_FOUND_ERROR_CODE)
	ErrResearchTierNotFound      = newError("research tier not found", NOT_FOUND_ERROR_CODE)
	ErrResearchAlreadyUnlocked   = newError("research tier already unlocked", FAILED_PRECONDITION_ERROR_CODE)
	ErrResearchUnmetDependency   = newError("research tier has locked dependencies", FAILED_PRECONDITION_ERROR_CODE)
	ErrResearchInsufficientFunds = newError("insufficient research points", FAILED_PRECONDITION_ERROR_CODE)
)

// Completions of the same achievement at or past this rank grant half points.
const diminishingReturnsRank = 4

// ResearchConfig is the data definition for the research tree catalog.
type ResearchConfig struct {
	Trees map[string]*ResearchConfigTree `json:"trees,omitempty"`
}

type ResearchConfigTree struct {
	Name        string                `json:"name,omitempty"`
	Description string                `json:"description,omitempty"`
	Tiers       []*ResearchConfigTier `json:"tiers,omitempty"`
}

// ResearchConfigTier is one purchasable step. Requires lists tier ids within
// the same tree; only a tree's entry tiers may leave it empty.
type ResearchConfigTier struct {
	Id                   string            `json:"id,omitempty"`
	Name                 string            `json:"name,omitempty"`
	Cost                 int64             `json:"cost,omitempty"`
	Requires             []string          `json:"requires,omitempty"`
	AdditionalProperties map[string]string `json:"additional_properties,omitempty"`
}

// ResearchProgress is the mutable unlock state of one tree, kept apart from
// the immutable catalog definition.
type ResearchProgress struct {
	SpentPoints int64 `json:"spent_points,omitempty"`
	// Unlocked holds purchased tier indices.
	Unlocked map[int]bool `json:"unlocked,omitempty"`
	// Available holds currently purchasable tier indices. Derived state: it is
	// recomputed from Unlocked and the catalog, and never persisted.
	Available map[int]bool `json:"-"`
}

// PointsAwarded is the payload of a research_points_awarded notification.
type PointsAwarded struct {
	AchievementId   string `json:"achievement_id"`
	Granted         int64  `json:"granted"`
	TotalPoints     int64  `json:"total_points"`
	AvailablePoints int64  `json:"available_points"`
	CompletionCount int64  `json:"completion_count"`
}

// ResearchPurchased is the payload of a research_purchased notification.
type ResearchPurchased struct {
	TreeId          string              `json:"tree_id"`
	TierIndex       int                 `json:"tier_index"`
	Tier            *ResearchConfigTier `json:"tier,omitempty"`
	RemainingPoints int64               `json:"remaining_points"`
}

// TreeStatus is the research-tree-status query result.
type TreeStatus struct {
	TreeId        string `json:"tree_id"`
	Name          string `json:"name,omitempty"`
	UnlockedCount int    `json:"unlocked_count"`
	TotalTiers    int    `json:"total_tiers"`
	SpentPoints   int64  `json:"spent_points"`
	AnyAffordable bool   `json:"any_affordable"`
}

// AvailableTier is one entry of the purchasable-research listing.
type AvailableTier struct {
	TreeId     string              `json:"tree_id"`
	TierIndex  int                 `json:"tier_index"`
	Tier       *ResearchConfigTier `json:"tier"`
	Affordable bool                `json:"affordable"`
}

// PointsSummary is the points summary query result.
type PointsSummary struct {
	TotalPoints     int64 `json:"total_points"`
	SpentPoints     int64 `json:"spent_points"`
	AvailablePoints int64 `json:"available_points"`
	LedgerSize      int   `json:"ledger_size"`
	TreeCount       int   `json:"tree_count"`
}

// ResearchSystem is the research economy and progress store. It owns point
// balances, the completion ledger and per-tree unlock state.
type ResearchSystem interface {
	System

	// Award credits research points for an achievement completion, applying
	// diminishing returns from the fourth completion of the same id, and
	// returns the granted amount.
	Award(achievementId string, basePoints int64) int64

	// Purchase unlocks a tier, debiting its cost. Expected failures come back
	// as ErrResearch* sentinel errors with all state unchanged.
	Purchase(treeId string, tierIndex int) error

	// CanPurchase reports whether Purchase would succeed, without mutating
	// anything.
	CanPurchase(treeId string, tierIndex int) bool

	// AvailablePoints returns the spendable balance.
	AvailablePoints() int64

	// TreeStatus summarizes one tree's unlock state.
	TreeStatus(treeId string) (*TreeStatus, error)

	// AvailableResearch lists every currently purchasable tier across all
	// trees, sorted by ascending cost, flagged for affordability.
	AvailableResearch() []*AvailableTier

	// PointsSummary returns balances and catalog/ledger sizes.
	PointsSummary() *PointsSummary

	// PrimarySpecialization returns the tree with the highest cumulative
	// spend; ok is false while nothing has been spent.
	PrimarySpecialization() (treeId string, ok bool)

	// ResetProgression clears balances, ledger and all tree progress, leaving
	// the catalog untouched. Out-of-band operation, published as a
	// research_progression_reset notification.
	ResetProgression()
}
