package colonylogix

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ResearchEngine implements the ResearchSystem interface.
type ResearchEngine struct {
	logger      *zap.Logger
	config      *ResearchConfig
	colonylogix Colonylogix

	totalPoints int64
	spentPoints int64
	// ledger counts lifetime completions per achievement id, for diminishing
	// returns only.
	ledger map[string]int64
	trees  map[string]*ResearchProgress
}

// NewResearchEngine creates a research economy over the given tree catalog.
func NewResearchEngine(logger *zap.Logger, config *ResearchConfig) *ResearchEngine {
	e := &ResearchEngine{
		logger: logger,
		config: config,
		ledger: make(map[string]int64),
		trees:  make(map[string]*ResearchProgress),
	}
	e.seedTrees()
	return e
}

// SetColonylogix sets the hub instance for this economy.
func (e *ResearchEngine) SetColonylogix(cl Colonylogix) {
	e.colonylogix = cl
}

func (e *ResearchEngine) GetType() SystemType {
	return SystemTypeResearch
}

func (e *ResearchEngine) GetConfig() any {
	return e.config
}

func (e *ResearchEngine) seedTrees() {
	if e.config == nil {
		return
	}
	for treeId, tree := range e.config.Trees {
		progress := &ResearchProgress{
			Unlocked:  make(map[int]bool),
			Available: make(map[int]bool),
		}
		e.trees[treeId] = progress
		e.recomputeAvailability(tree, progress)
	}
}

// recomputeAvailability derives the purchasable set from the unlocked set and
// the dependency graph. A locked tier becomes available once every required
// tier id in the same tree is unlocked; entry tiers require nothing. Trees
// branch, so this is recomputed whole rather than cascading "the next tier".
func (e *ResearchEngine) recomputeAvailability(tree *ResearchConfigTree, progress *ResearchProgress) {
	unlockedIds := make(map[string]bool, len(progress.Unlocked))
	for index := range progress.Unlocked {
		if index >= 0 && index < len(tree.Tiers) {
			unlockedIds[tree.Tiers[index].Id] = true
		}
	}

	progress.Available = make(map[int]bool)
	for index, tier := range tree.Tiers {
		if progress.Unlocked[index] {
			continue
		}
		met := true
		for _, required := range tier.Requires {
			if !unlockedIds[required] {
				met = false
				break
			}
		}
		if met {
			progress.Available[index] = true
		}
	}
}

func (e *ResearchEngine) AvailablePoints() int64 {
	return e.totalPoints - e.spentPoints
}

func (e *ResearchEngine) Award(achievementId string, basePoints int64) int64 {
	completion := e.ledger[achievementId] + 1
	granted := basePoints
	if completion >= diminishingReturnsRank {
		granted = basePoints / 2
	}
	e.ledger[achievementId] = completion
	e.totalPoints += granted

	e.logger.Info("Research points awarded",
		zap.String("achievement_id", achievementId),
		zap.Int64("granted", granted),
		zap.Int64("completion", completion))

	if e.colonylogix != nil {
		e.colonylogix.Publish(&PublisherEvent{
			Name:      NotificationPointsAwarded,
			Id:        uuid.NewString(),
			Timestamp: time.Now().Unix(),
			System:    e,
			SourceId:  achievementId,
			Source: &PointsAwarded{
				AchievementId:   achievementId,
				Granted:         granted,
				TotalPoints:     e.totalPoints,
				AvailablePoints: e.AvailablePoints(),
				CompletionCount: completion,
			},
		})
	}
	return granted
}

// checkPurchase validates the purchase preconditions in a fixed order and
// returns the tier definition when they all hold.
func (e *ResearchEngine) checkPurchase(treeId string, tierIndex int) (*ResearchConfigTree, *ResearchConfigTier, error) {
	if e.config == nil {
		return nil, nil, ErrResearchTreeNotFound
	}
	tree, ok := e.config.Trees[treeId]
	if !ok {
		return nil, nil, ErrResearchTreeNotFound
	}
	if tierIndex < 0 || tierIndex >= len(tree.Tiers) {
		return nil, nil, ErrResearchTierNotFound
	}
	tier := tree.Tiers[tierIndex]
	progress := e.trees[treeId]

	if progress.Unlocked[tierIndex] {
		return nil, nil, ErrResearchAlreadyUnlocked
	}
	if !progress.Available[tierIndex] {
		return nil, nil, ErrResearchUnmetDependency
	}
	if e.AvailablePoints() < tier.Cost {
		return nil, nil, ErrResearchInsufficientFunds
	}
	return tree, tier, nil
}

func (e *ResearchEngine) Purchase(treeId string, tierIndex int) error {
	tree, tier, err := e.checkPurchase(treeId, tierIndex)
	if err != nil {
		e.logger.Warn("Research purchase rejected",
			zap.String("tree_id", treeId),
			zap.Int("tier_index", tierIndex),
			zap.Error(err))
		return err
	}

	progress := e.trees[treeId]
	e.spentPoints += tier.Cost
	progress.SpentPoints += tier.Cost
	progress.Unlocked[tierIndex] = true
	e.recomputeAvailability(tree, progress)

	e.logger.Info("Research purchased",
		zap.String("tree_id", treeId),
		zap.Int("tier_index", tierIndex),
		zap.Int64("cost", tier.Cost),
		zap.Int64("remaining", e.AvailablePoints()))

	if e.colonylogix != nil {
		e.colonylogix.Publish(&PublisherEvent{
			Name:      NotificationResearchPurchased,
			Id:        uuid.NewString(),
			Timestamp: time.Now().Unix(),
			System:    e,
			SourceId:  treeId,
			Source: &ResearchPurchased{
				TreeId:          treeId,
				TierIndex:       tierIndex,
				Tier:            tier,
				RemainingPoints: e.AvailablePoints(),
			},
		})
	}
	return nil
}

func (e *ResearchEngine) CanPurchase(treeId string, tierIndex int) bool {
	_, _, err := e.checkPurchase(treeId, tierIndex)
	return err == nil
}

func (e *ResearchEngine) TreeStatus(treeId string) (*TreeStatus, error) {
	if e.config == nil {
		return nil, ErrResearchTreeNotFound
	}
	tree, ok := e.config.Trees[treeId]
	if !ok {
		e.logger.Warn("Status requested for unknown research tree", zap.String("tree_id", treeId))
		return nil, ErrResearchTreeNotFound
	}
	progress := e.trees[treeId]

	anyAffordable := false
	available := e.AvailablePoints()
	for index := range progress.Available {
		if tree.Tiers[index].Cost <= available {
			anyAffordable = true
			break
		}
	}

	return &TreeStatus{
		TreeId:        treeId,
		Name:          tree.Name,
		UnlockedCount: len(progress.Unlocked),
		TotalTiers:    len(tree.Tiers),
		SpentPoints:   progress.SpentPoints,
		AnyAffordable: anyAffordable,
	}, nil
}

func (e *ResearchEngine) AvailableResearch() []*AvailableTier {
	available := e.AvailablePoints()
	listing := make([]*AvailableTier, 0)
	if e.config == nil {
		return listing
	}
	for treeId, tree := range e.config.Trees {
		progress := e.trees[treeId]
		for index := range progress.Available {
			tier := tree.Tiers[index]
			listing = append(listing, &AvailableTier{
				TreeId:     treeId,
				TierIndex:  index,
				Tier:       tier,
				Affordable: tier.Cost <= available,
			})
		}
	}
	sort.Slice(listing, func(i, j int) bool {
		if listing[i].Tier.Cost != listing[j].Tier.Cost {
			return listing[i].Tier.Cost < listing[j].Tier.Cost
		}
		if listing[i].TreeId != listing[j].TreeId {
			return listing[i].TreeId < listing[j].TreeId
		}
		return listing[i].TierIndex < listing[j].TierIndex
	})
	return listing
}

func (e *ResearchEngine) PointsSummary() *PointsSummary {
	return &PointsSummary{
		TotalPoints:     e.totalPoints,
		SpentPoints:     e.spentPoints,
		AvailablePoints: e.AvailablePoints(),
		LedgerSize:      len(e.ledger),
		TreeCount:       len(e.trees),
	}
}

func (e *ResearchEngine) PrimarySpecialization() (string, bool) {
	type spend struct {
		treeId string
		points int64
	}
	spends := lo.MapToSlice(e.trees, func(treeId string, progress *ResearchProgress) spend {
		return spend{treeId: treeId, points: progress.SpentPoints}
	})
	if len(spends) == 0 {
		return "", false
	}
	// Deterministic tie-break on tree id.
	sort.Slice(spends, func(i, j int) bool {
		if spends[i].points != spends[j].points {
			return spends[i].points > spends[j].points
		}
		return spends[i].treeId < spends[j].treeId
	})
	if spends[0].points == 0 {
		return "", false
	}
	return spends[0].treeId, true
}

func (e *ResearchEngine) ResetProgression() {
	e.totalPoints = 0
	e.spentPoints = 0
	e.ledger = make(map[string]int64)
	e.trees = make(map[string]*ResearchProgress)
	e.seedTrees()

	e.logger.Info("Research progression reset")

	if e.colonylogix != nil {
		e.colonylogix.Publish(&PublisherEvent{
			Name:      NotificationProgressionReset,
			Id:        uuid.NewString(),
			Timestamp: time.Now().Unix(),
			System:    e,
		})
	}
}
