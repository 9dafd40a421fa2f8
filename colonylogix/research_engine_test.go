package colonylogix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testResearchConfig() *ResearchConfig {
	return &ResearchConfig{
		Trees: map[string]*ResearchConfigTree{
			"habitat": {
				Name: "Habitat",
				Tiers: []*ResearchConfigTier{
					{Id: "h1", Name: "Insulated Domes", Cost: 5},
					{Id: "h2", Name: "Hydroponic Gardens", Cost: 10, Requires: []string{"h1"}},
					{Id: "h3", Name: "Arcology Core", Cost: 20, Requires: []string{"h2"}},
				},
			},
			"industry": {
				Name: "Industry",
				Tiers: []*ResearchConfigTier{
					{Id: "i1", Name: "Salvage Yards", Cost: 3},
					{Id: "i2", Name: "Drone Foundry", Cost: 7, Requires: []string{"i1"}},
				},
			},
			"science": {
				Name: "Science",
				Tiers: []*ResearchConfigTier{
					{Id: "s1", Name: "Field Labs", Cost: 2},
					{Id: "s2", Name: "Weather Models", Cost: 4, Requires: []string{"s1"}},
					{Id: "s3", Name: "Soil Analysis", Cost: 6, Requires: []string{"s1"}},
				},
			},
		},
	}
}

func newTestResearchEngine(t *testing.T) *ResearchEngine {
	t.Helper()
	return NewResearchEngine(zap.NewNop(), testResearchConfig())
}

func TestAwardDiminishingReturns(t *testing.T) {
	research := newTestResearchEngine(t)

	grants := make([]int64, 0, 4)
	for i := 0; i < 4; i++ {
		grants = append(grants, research.Award("recycler", 6))
	}

	assert.Equal(t, []int64{6, 6, 6, 3}, grants, "fourth completion should grant floor(6*0.5)")
	assert.Equal(t, int64(21), research.PointsSummary().TotalPoints)
	assert.Equal(t, int64(21), research.AvailablePoints())
}

func TestAwardLedgerIsPerAchievement(t *testing.T) {
	research := newTestResearchEngine(t)

	for i := 0; i < 3; i++ {
		assert.Equal(t, int64(4), research.Award("a", 4))
	}
	// A different id starts its own completion count.
	assert.Equal(t, int64(4), research.Award("b", 4))
	assert.Equal(t, int64(2), research.Award("a", 4))
	assert.Equal(t, 2, research.PointsSummary().LedgerSize)
}

func TestPurchaseUnknownReferences(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("seed", 100)

	err := research.Purchase("nonexistent", 0)
	assert.True(t, errors.Is(err, ErrResearchTreeNotFound))

	err = research.Purchase("habitat", 99)
	assert.True(t, errors.Is(err, ErrResearchTierNotFound))

	err = research.Purchase("habitat", -1)
	assert.True(t, errors.Is(err, ErrResearchTierNotFound))

	assert.Equal(t, int64(100), research.AvailablePoints(), "failed purchases must not touch balances")
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("seed", 3)

	err := research.Purchase("habitat", 0) // costs 5
	assert.True(t, errors.Is(err, ErrResearchInsufficientFunds))

	summary := research.PointsSummary()
	assert.Equal(t, int64(3), summary.AvailablePoints)
	assert.Equal(t, int64(0), summary.SpentPoints)

	status, err := research.TreeStatus("habitat")
	require.NoError(t, err)
	assert.Equal(t, 0, status.UnlockedCount)
}

func TestPurchaseDependencyGating(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("seed", 1000)

	err := research.Purchase("habitat", 1)
	assert.True(t, errors.Is(err, ErrResearchUnmetDependency),
		"tier 2 must stay locked before tier 1 regardless of funds")
	assert.Equal(t, int64(1000), research.AvailablePoints())

	require.NoError(t, research.Purchase("habitat", 0))
	require.NoError(t, research.Purchase("habitat", 1))

	err = research.Purchase("habitat", 1)
	assert.True(t, errors.Is(err, ErrResearchAlreadyUnlocked))
}

func TestPurchaseBranchingAvailability(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("seed", 50)

	assert.False(t, research.CanPurchase("science", 1))
	assert.False(t, research.CanPurchase("science", 2))

	require.NoError(t, research.Purchase("science", 0))

	// s1 gates two successors; both must open at once.
	assert.True(t, research.CanPurchase("science", 1))
	assert.True(t, research.CanPurchase("science", 2))
}

func TestCanPurchaseMatchesPurchase(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("seed", 5)

	for treeId := range testResearchConfig().Trees {
		for index := 0; index < 4; index++ {
			verdict := research.CanPurchase(treeId, index)
			err := research.Purchase(treeId, index)
			if verdict {
				assert.NoError(t, err, "tree %s tier %d", treeId, index)
			} else {
				assert.Error(t, err, "tree %s tier %d", treeId, index)
			}
		}
	}
}

func TestBalanceInvariantHolds(t *testing.T) {
	research := newTestResearchEngine(t)

	check := func() {
		summary := research.PointsSummary()
		assert.Equal(t, summary.TotalPoints, summary.AvailablePoints+summary.SpentPoints)
		assert.GreaterOrEqual(t, summary.AvailablePoints, int64(0))
	}

	research.Award("a", 6)
	check()
	research.Award("a", 6)
	check()
	_ = research.Purchase("industry", 0)
	check()
	_ = research.Purchase("industry", 1)
	check()
	research.Award("b", 2)
	check()
	_ = research.Purchase("science", 0)
	check()
}

func TestAvailableResearchSortedByCost(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("seed", 4)

	listing := research.AvailableResearch()
	// Entry tiers of all three trees: science s1 (2), industry i1 (3), habitat h1 (5).
	require.Len(t, listing, 3)
	assert.Equal(t, "science", listing[0].TreeId)
	assert.True(t, listing[0].Affordable)
	assert.Equal(t, "industry", listing[1].TreeId)
	assert.True(t, listing[1].Affordable)
	assert.Equal(t, "habitat", listing[2].TreeId)
	assert.False(t, listing[2].Affordable, "h1 costs 5 with only 4 available")
}

func TestTreeStatus(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("seed", 5)

	status, err := research.TreeStatus("habitat")
	require.NoError(t, err)
	assert.Equal(t, 0, status.UnlockedCount)
	assert.Equal(t, 3, status.TotalTiers)
	assert.True(t, status.AnyAffordable)

	require.NoError(t, research.Purchase("habitat", 0))
	status, err = research.TreeStatus("habitat")
	require.NoError(t, err)
	assert.Equal(t, 1, status.UnlockedCount)
	assert.Equal(t, int64(5), status.SpentPoints)
	assert.False(t, status.AnyAffordable, "h2 costs 10 with 0 available")

	_, err = research.TreeStatus("nonexistent")
	assert.True(t, errors.Is(err, ErrResearchTreeNotFound))
}

func TestPrimarySpecialization(t *testing.T) {
	research := newTestResearchEngine(t)

	_, ok := research.PrimarySpecialization()
	assert.False(t, ok, "no specialization before any spend")

	research.Award("seed", 20)
	require.NoError(t, research.Purchase("science", 0))
	require.NoError(t, research.Purchase("habitat", 0))

	treeId, ok := research.PrimarySpecialization()
	require.True(t, ok)
	assert.Equal(t, "habitat", treeId, "habitat has the highest cumulative spend")
}

func TestResetProgression(t *testing.T) {
	research := newTestResearchEngine(t)
	research.Award("a", 10)
	require.NoError(t, research.Purchase("habitat", 0))

	research.ResetProgression()

	summary := research.PointsSummary()
	assert.Equal(t, int64(0), summary.TotalPoints)
	assert.Equal(t, int64(0), summary.SpentPoints)
	assert.Equal(t, 0, summary.LedgerSize)

	status, err := research.TreeStatus("habitat")
	require.NoError(t, err)
	assert.Equal(t, 0, status.UnlockedCount)
	assert.False(t, research.CanPurchase("habitat", 0), "no funds after reset")

	// Diminishing returns start over as well.
	assert.Equal(t, int64(6), research.Award("a", 6))
}
