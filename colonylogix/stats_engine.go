package colonylogix

import (
	"go.uber.org/zap"
)

// StatsEngine implements the StatsSystem interface.
type StatsEngine struct {
	logger *zap.Logger
	config *StatsConfig

	disqualifying map[FuelSourceKind]bool
	stats         *SessionStats
}

// NewStatsEngine creates a session stats aggregator with the given configuration.
func NewStatsEngine(logger *zap.Logger, config *StatsConfig) *StatsEngine {
	disqualifying := make(map[FuelSourceKind]bool)
	if config != nil && len(config.DisqualifyingFuelSources) > 0 {
		for _, kind := range config.DisqualifyingFuelSources {
			disqualifying[kind] = true
		}
	} else {
		disqualifying[FuelSourceNonRenewable] = true
	}

	e := &StatsEngine{
		logger:        logger,
		config:        config,
		disqualifying: disqualifying,
	}
	e.Reset("", 0)
	return e
}

func (e *StatsEngine) GetType() SystemType {
	return SystemTypeStats
}

func (e *StatsEngine) GetConfig() any {
	return e.config
}

func (e *StatsEngine) Apply(event *Event) {
	if event == nil {
		return
	}
	s := e.stats

	switch event.Kind {
	case EventConstruction:
		s.BuildingsConstructed++
		if event.BuildingType != "" {
			s.BuildingTypesBuilt[event.BuildingType] = true
			if event.Luxury {
				s.LuxuryTypesBuilt[event.BuildingType] = true
			}
		}
		for _, bonus := range event.AdjacencyBonuses {
			s.AdjacencyBonuses[bonus] = true
		}
		if e.disqualifying[event.FuelSource] {
			s.OnlyRenewableEnergy = false
		}

	case EventRecycling:
		s.BuildingsRecycled++

	case EventUpgrade:
		s.BuildingsUpgraded++

	case EventPopulationChanged:
		s.CurrentPopulation = event.Population
		if event.Population > s.PeakPopulation {
			s.PeakPopulation = event.Population
		}
		if s.LowestPopulation < 0 || event.Population < s.LowestPopulation {
			s.LowestPopulation = event.Population
		}

	case EventHappinessChanged:
		s.CurrentHappiness = event.Happiness

	case EventDisasterOccurred:
		s.DisastersOccurred++

	case EventDisasterSurvived:
		s.DisastersSurvived++

	case EventTurnCompleted:
		s.CurrentTurn = event.Turn

	case EventRuinInteracted:
		s.RuinsInteracted++

	case EventVictory, EventSessionStarted, EventSessionEnded:
		// Lifecycle and terminal events carry no session counters.

	default:
		e.logger.Warn("Unknown event kind, ignored", zap.String("kind", string(event.Kind)))
	}
}

func (e *StatsEngine) Reset(sessionId string, startedAtSec int64) {
	e.stats = &SessionStats{
		SessionId:           sessionId,
		StartedAtSec:        startedAtSec,
		LowestPopulation:    -1,
		BuildingTypesBuilt:  make(map[string]bool),
		LuxuryTypesBuilt:    make(map[string]bool),
		AdjacencyBonuses:    make(map[string]bool),
		OnlyRenewableEnergy: true,
		Streaks:             make(map[string]int64),
	}
}

func (e *StatsEngine) Stats() *SessionStats {
	return e.stats
}

func (e *StatsEngine) Snapshot() *SessionStats {
	s := e.stats
	copied := *s
	copied.BuildingTypesBuilt = copyBoolSet(s.BuildingTypesBuilt)
	copied.LuxuryTypesBuilt = copyBoolSet(s.LuxuryTypesBuilt)
	copied.AdjacencyBonuses = copyBoolSet(s.AdjacencyBonuses)
	copied.Streaks = make(map[string]int64, len(s.Streaks))
	for id, count := range s.Streaks {
		copied.Streaks[id] = count
	}
	return &copied
}

// restore replaces the session state wholesale, used by snapshot import. Nil
// maps from older snapshots are re-seeded so Apply never writes to nil.
func (e *StatsEngine) restore(stats *SessionStats) {
	if stats == nil {
		e.Reset("", 0)
		return
	}
	if stats.BuildingTypesBuilt == nil {
		stats.BuildingTypesBuilt = make(map[string]bool)
	}
	if stats.LuxuryTypesBuilt == nil {
		stats.LuxuryTypesBuilt = make(map[string]bool)
	}
	if stats.AdjacencyBonuses == nil {
		stats.AdjacencyBonuses = make(map[string]bool)
	}
	if stats.Streaks == nil {
		stats.Streaks = make(map[string]int64)
	}
	e.stats = stats
}

func (e *StatsEngine) Counter(stat StatName) int64 {
	switch stat {
	case StatBuildingsConstructed:
		return e.stats.BuildingsConstructed
	case StatBuildingsRecycled:
		return e.stats.BuildingsRecycled
	case StatBuildingsUpgraded:
		return e.stats.BuildingsUpgraded
	case StatDisastersOccurred:
		return e.stats.DisastersOccurred
	case StatDisastersSurvived:
		return e.stats.DisastersSurvived
	case StatTurnsPlayed:
		return e.stats.CurrentTurn
	case StatRuinsInteracted:
		return e.stats.RuinsInteracted
	default:
		e.logger.Warn("Unknown stat requested", zap.String("stat", string(stat)))
		return 0
	}
}

func (e *StatsEngine) AdvanceStreak(id string, qualified bool) int64 {
	if !qualified {
		e.stats.Streaks[id] = 0
		return 0
	}
	e.stats.Streaks[id]++
	return e.stats.Streaks[id]
}

func copyBoolSet(set map[string]bool) map[string]bool {
	copied := make(map[string]bool, len(set))
	for key, value := range set {
		copied[key] = value
	}
	return copied
}
