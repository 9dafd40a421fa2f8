package colonylogix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestStatsEngine(t *testing.T) *StatsEngine {
	t.Helper()
	stats := NewStatsEngine(zap.NewNop(), &StatsConfig{})
	stats.Reset("session-1", 1000)
	return stats
}

func TestStatsApplyCounters(t *testing.T) {
	stats := newTestStatsEngine(t)

	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "farm"})
	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "spa", Luxury: true})
	stats.Apply(&Event{Kind: EventRecycling})
	stats.Apply(&Event{Kind: EventUpgrade})
	stats.Apply(&Event{Kind: EventDisasterOccurred})
	stats.Apply(&Event{Kind: EventDisasterSurvived})
	stats.Apply(&Event{Kind: EventRuinInteracted})
	stats.Apply(&Event{Kind: EventTurnCompleted, Turn: 7})

	assert.Equal(t, int64(2), stats.Counter(StatBuildingsConstructed))
	assert.Equal(t, int64(1), stats.Counter(StatBuildingsRecycled))
	assert.Equal(t, int64(1), stats.Counter(StatBuildingsUpgraded))
	assert.Equal(t, int64(1), stats.Counter(StatDisastersOccurred))
	assert.Equal(t, int64(1), stats.Counter(StatDisastersSurvived))
	assert.Equal(t, int64(1), stats.Counter(StatRuinsInteracted))
	assert.Equal(t, int64(7), stats.Counter(StatTurnsPlayed))

	s := stats.Stats()
	assert.True(t, s.BuildingTypesBuilt["farm"])
	assert.True(t, s.BuildingTypesBuilt["spa"])
	assert.True(t, s.LuxuryTypesBuilt["spa"])
	assert.False(t, s.LuxuryTypesBuilt["farm"])
}

func TestStatsPopulationExtrema(t *testing.T) {
	stats := newTestStatsEngine(t)

	assert.Equal(t, int64(-1), stats.Stats().LowestPopulation, "no sample observed yet")

	stats.Apply(&Event{Kind: EventPopulationChanged, Population: 40})
	stats.Apply(&Event{Kind: EventPopulationChanged, Population: 12})
	stats.Apply(&Event{Kind: EventPopulationChanged, Population: 90})

	s := stats.Stats()
	assert.Equal(t, int64(90), s.CurrentPopulation)
	assert.Equal(t, int64(90), s.PeakPopulation)
	assert.Equal(t, int64(12), s.LowestPopulation)
}

func TestStatsRenewableFlagMonotone(t *testing.T) {
	stats := newTestStatsEngine(t)
	assert.True(t, stats.Stats().OnlyRenewableEnergy)

	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "solar", FuelSource: FuelSourceRenewable})
	assert.True(t, stats.Stats().OnlyRenewableEnergy)

	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "coal_plant", FuelSource: FuelSourceNonRenewable})
	assert.False(t, stats.Stats().OnlyRenewableEnergy)

	// Never flips back within a session.
	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "solar", FuelSource: FuelSourceRenewable})
	assert.False(t, stats.Stats().OnlyRenewableEnergy)

	stats.Reset("session-2", 2000)
	assert.True(t, stats.Stats().OnlyRenewableEnergy)
}

func TestStatsStreaks(t *testing.T) {
	stats := newTestStatsEngine(t)

	assert.Equal(t, int64(1), stats.AdvanceStreak("steady", true))
	assert.Equal(t, int64(2), stats.AdvanceStreak("steady", true))
	assert.Equal(t, int64(0), stats.AdvanceStreak("steady", false))
	assert.Equal(t, int64(1), stats.AdvanceStreak("steady", true))
}

func TestStatsResetReplacesEverything(t *testing.T) {
	stats := newTestStatsEngine(t)
	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "farm", FuelSource: FuelSourceNonRenewable})
	stats.Apply(&Event{Kind: EventPopulationChanged, Population: 5})
	stats.AdvanceStreak("steady", true)

	stats.Reset("session-2", 2000)

	s := stats.Stats()
	assert.Equal(t, "session-2", s.SessionId)
	assert.Equal(t, int64(2000), s.StartedAtSec)
	assert.Equal(t, int64(0), s.BuildingsConstructed)
	assert.Empty(t, s.BuildingTypesBuilt)
	assert.Equal(t, int64(-1), s.LowestPopulation)
	assert.True(t, s.OnlyRenewableEnergy)
	assert.Empty(t, s.Streaks)
}

func TestStatsSnapshotIsDetached(t *testing.T) {
	stats := newTestStatsEngine(t)
	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "farm"})

	snapshot := stats.Snapshot()
	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "mill"})

	assert.Len(t, snapshot.BuildingTypesBuilt, 1)
	assert.Equal(t, int64(1), snapshot.BuildingsConstructed)
	assert.Len(t, stats.Stats().BuildingTypesBuilt, 2)
}

func TestStatsCustomDisqualifyingFuel(t *testing.T) {
	stats := NewStatsEngine(zap.NewNop(), &StatsConfig{
		DisqualifyingFuelSources: []FuelSourceKind{FuelSourceNonRenewable, "biofuel"},
	})
	stats.Reset("session-1", 0)

	stats.Apply(&Event{Kind: EventConstruction, BuildingType: "refinery", FuelSource: "biofuel"})
	assert.False(t, stats.Stats().OnlyRenewableEnergy)
}
