package colonylogix

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// AchievementsEngine implements the AchievementsSystem interface.
type AchievementsEngine struct {
	logger      *zap.Logger
	config      *AchievementsConfig
	world       WorldCatalog
	colonylogix Colonylogix
	cronParser  cron.Parser

	progress       map[string]*AchievementProgress
	sessionUnlocks []string
}

// NewAchievementsEngine creates an achievement tracker over the given catalog.
// The world catalog supplies universe sizes for set-completeness conditions.
func NewAchievementsEngine(logger *zap.Logger, config *AchievementsConfig, world WorldCatalog) *AchievementsEngine {
	e := &AchievementsEngine{
		logger:     logger,
		config:     config,
		world:      world,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		progress:   make(map[string]*AchievementProgress),
	}
	if config != nil {
		for id, def := range config.Achievements {
			e.progress[id] = e.freshProgress(id, def)
		}
	}
	return e
}

// SetColonylogix sets the hub instance for this tracker.
func (e *AchievementsEngine) SetColonylogix(cl Colonylogix) {
	e.colonylogix = cl
}

func (e *AchievementsEngine) GetType() SystemType {
	return SystemTypeAchievements
}

func (e *AchievementsEngine) GetConfig() any {
	return e.config
}

func (e *AchievementsEngine) freshProgress(id string, def *AchievementsConfigAchievement) *AchievementProgress {
	return &AchievementProgress{
		Id:          id,
		MaxProgress: e.maxProgressFor(def.Condition),
	}
}

// maxProgressFor derives the progress ceiling from the condition kind:
// threshold and streak kinds use their target, boolean kinds use 1.
func (e *AchievementsEngine) maxProgressFor(cond *AchievementsConfigCondition) int64 {
	if cond == nil {
		return 1
	}
	switch cond.Kind {
	case ConditionCountThreshold, ConditionVictorySurvivor:
		return max(cond.Target, 1)
	case ConditionEfficiencyStreak, ConditionUtopiaStreak, ConditionUniformDroneStreak:
		return max(cond.Turns, 1)
	case ConditionSetComplete:
		return max(int64(e.universeSize(cond.Set)), 1)
	default:
		return 1
	}
}

// universeSize asks the injected world catalog for the size of a collectible
// universe. Unknown set kinds report zero, which disables the condition.
func (e *AchievementsEngine) universeSize(set SetKind) int {
	if e.world == nil {
		return 0
	}
	switch set {
	case SetBuildingTypes:
		return e.world.BuildingTypeCount()
	case SetLuxuryTypes:
		return e.world.LuxuryTypeCount()
	case SetAdjacencyBonuses:
		return e.world.AdjacencyBonusCount()
	default:
		e.logger.Warn("Unknown set kind in condition", zap.String("set", string(set)))
		return 0
	}
}

func (e *AchievementsEngine) IngestEvent(event *Event) {
	if event == nil {
		return
	}
	stats := e.statsSystem()
	if stats == nil {
		return
	}

	switch event.Kind {
	case EventSessionStarted:
		e.beginSession(event, stats)
	case EventSessionEnded:
		e.endSession(stats)
	default:
		stats.Apply(event)
		e.evaluate(event, stats)
	}
}

func (e *AchievementsEngine) statsSystem() StatsSystem {
	if e.colonylogix == nil {
		e.logger.Error("Hub not set on achievements engine")
		return nil
	}
	stats := e.colonylogix.GetStatsSystem()
	if stats == nil {
		e.logger.Error("Stats system not configured")
	}
	return stats
}

// affectedConditionKinds maps an event kind to the condition kinds whose
// verdict it can change. Anything else is skipped for that event.
func affectedConditionKinds(kind EventKind) map[ConditionKind]bool {
	switch kind {
	case EventConstruction:
		return map[ConditionKind]bool{
			ConditionCountThreshold:     true,
			ConditionSetComplete:        true,
			ConditionRenewableExclusive: true,
		}
	case EventRecycling, EventUpgrade, EventDisasterOccurred, EventDisasterSurvived, EventRuinInteracted:
		return map[ConditionKind]bool{ConditionCountThreshold: true}
	case EventPopulationChanged:
		return map[ConditionKind]bool{
			ConditionPopulationRecovery: true,
			ConditionRenewableExclusive: true,
		}
	case EventTurnCompleted:
		return map[ConditionKind]bool{
			ConditionCountThreshold:     true,
			ConditionEfficiencyStreak:   true,
			ConditionUtopiaStreak:       true,
			ConditionUniformDroneStreak: true,
		}
	case EventVictory:
		return map[ConditionKind]bool{
			ConditionVictoryResource: true,
			ConditionVictorySurvivor: true,
		}
	default:
		return nil
	}
}

func (e *AchievementsEngine) evaluate(event *Event, stats StatsSystem) {
	kinds := affectedConditionKinds(event.Kind)
	if len(kinds) == 0 || e.config == nil {
		return
	}

	for id, def := range e.config.Achievements {
		if def.Condition == nil || !kinds[def.Condition.Kind] {
			continue
		}
		p := e.progress[id]
		if p == nil || p.Unlocked {
			continue
		}
		if e.evaluateCondition(id, def.Condition, p, event, stats) {
			if err := e.Unlock(id); err != nil {
				e.logger.Error("Failed to unlock achievement", zap.String("id", id), zap.Error(err))
			}
		}
	}
}

// evaluateCondition updates the progress record for one locked achievement
// and reports whether its condition is now met.
func (e *AchievementsEngine) evaluateCondition(id string, cond *AchievementsConfigCondition, p *AchievementProgress, event *Event, stats StatsSystem) bool {
	s := stats.Stats()

	switch cond.Kind {
	case ConditionCountThreshold:
		current := stats.Counter(cond.Stat)
		e.setProgress(p, min(current, cond.Target))
		return current >= cond.Target

	case ConditionSetComplete:
		universe := e.universeSize(cond.Set)
		if universe <= 0 {
			return false
		}
		var size int
		switch cond.Set {
		case SetBuildingTypes:
			size = len(s.BuildingTypesBuilt)
		case SetLuxuryTypes:
			size = len(s.LuxuryTypesBuilt)
		case SetAdjacencyBonuses:
			size = len(s.AdjacencyBonuses)
		}
		e.setProgress(p, min(int64(size), int64(universe)))
		return size >= universe

	case ConditionPopulationRecovery:
		// The sample has already been folded into the session minimum, so a
		// from==to condition is satisfied by a single qualifying sample.
		met := s.LowestPopulation >= 0 &&
			s.LowestPopulation <= cond.FromPopulation &&
			s.CurrentPopulation >= cond.ToPopulation
		if met {
			e.setProgress(p, p.MaxProgress)
		}
		return met

	case ConditionRenewableExclusive:
		met := s.OnlyRenewableEnergy && s.CurrentPopulation >= cond.Population
		if met {
			e.setProgress(p, p.MaxProgress)
		}
		return met

	case ConditionEfficiencyStreak:
		streak := stats.AdvanceStreak(id, event.Efficiency >= cond.Efficiency)
		e.setProgress(p, min(streak, cond.Turns))
		return streak >= cond.Turns

	case ConditionUtopiaStreak:
		qualified := s.CurrentPopulation >= cond.Population && s.CurrentHappiness >= cond.Happiness
		streak := stats.AdvanceStreak(id, qualified)
		e.setProgress(p, min(streak, cond.Turns))
		return streak >= cond.Turns

	case ConditionUniformDroneStreak:
		streak := stats.AdvanceStreak(id, uniformLevels(event.DroneLevels))
		e.setProgress(p, min(streak, cond.Turns))
		return streak >= cond.Turns

	case ConditionVictoryResource:
		value, ok := event.Resources[cond.Resource]
		met := ok && value <= cond.AtMost
		if met {
			e.setProgress(p, p.MaxProgress)
		}
		return met

	case ConditionVictorySurvivor:
		current := stats.Counter(StatDisastersSurvived)
		e.setProgress(p, min(current, cond.Target))
		return current >= cond.Target

	default:
		e.logger.Warn("Unknown condition kind", zap.String("id", id), zap.String("kind", string(cond.Kind)))
		return false
	}
}

// setProgress moves the progress counter, crediting gains to the session
// delta. Streak conditions may move it back down when a streak breaks.
func (e *AchievementsEngine) setProgress(p *AchievementProgress, value int64) {
	if value > p.Progress {
		p.SessionProgress += value - p.Progress
	}
	p.Progress = value
}

func uniformLevels(levels []int64) bool {
	if len(levels) == 0 {
		return false
	}
	for _, level := range levels[1:] {
		if level != levels[0] {
			return false
		}
	}
	return true
}

func (e *AchievementsEngine) Unlock(id string) error {
	var def *AchievementsConfigAchievement
	if e.config != nil {
		def = e.config.Achievements[id]
	}
	if def == nil {
		e.logger.Warn("Unlock requested for unknown achievement", zap.String("id", id))
		return ErrAchievementNotFound
	}
	p := e.progress[id]
	if p == nil {
		p = e.freshProgress(id, def)
		e.progress[id] = p
	}
	if p.Unlocked {
		return nil
	}

	p.Unlocked = true
	p.Progress = p.MaxProgress
	p.UnlockTimeSec = time.Now().Unix()
	e.sessionUnlocks = append(e.sessionUnlocks, id)

	var granted int64
	if e.colonylogix != nil {
		if stats := e.colonylogix.GetStatsSystem(); stats != nil {
			p.UnlockTurn = stats.Stats().CurrentTurn
		}
		if research := e.colonylogix.GetResearchSystem(); research != nil {
			granted = research.Award(id, def.Points)
		} else {
			e.logger.Error("Research system not configured, unlock granted no points", zap.String("id", id))
		}

		e.colonylogix.Publish(&PublisherEvent{
			Name:      NotificationAchievementUnlocked,
			Id:        uuid.NewString(),
			Timestamp: time.Now().Unix(),
			Metadata:  map[string]string{"category": def.Category},
			System:    e,
			SourceId:  id,
			Source: &AchievementUnlocked{
				Id:                  id,
				Definition:          def,
				SessionUnlockCount:  int64(len(e.sessionUnlocks)),
				LifetimeUnlockCount: e.lifetimeUnlockCount(),
			},
		})
	}

	e.logger.Info("Achievement unlocked",
		zap.String("id", id),
		zap.String("category", def.Category),
		zap.Int64("points_granted", granted))
	return nil
}

func (e *AchievementsEngine) lifetimeUnlockCount() int64 {
	return int64(lo.CountBy(lo.Values(e.progress), func(p *AchievementProgress) bool {
		return p.Unlocked
	}))
}

// beginSession replaces the session-scoped state wholesale. Lifetime unlock
// state and everything owned by the research economy stay untouched, except
// for unlocked achievements whose re-arm schedule has elapsed.
func (e *AchievementsEngine) beginSession(event *Event, stats StatsSystem) {
	startedAt := event.OccurredAtSec
	if startedAt == 0 {
		startedAt = time.Now().Unix()
	}
	stats.Reset(uuid.NewString(), startedAt)
	e.sessionUnlocks = nil

	for id, p := range e.progress {
		p.SessionProgress = 0
		def := e.config.Achievements[id]
		if def == nil || def.ResetSchedule == "" || !p.Unlocked || p.UnlockTimeSec == 0 {
			continue
		}
		sched, err := e.cronParser.Parse(def.ResetSchedule)
		if err != nil {
			e.logger.Warn("Invalid reset schedule", zap.String("id", id), zap.Error(err))
			continue
		}
		if startedAt >= sched.Next(time.Unix(p.UnlockTimeSec, 0)).Unix() {
			e.progress[id] = e.freshProgress(id, def)
			e.logger.Info("Achievement re-armed on schedule", zap.String("id", id))
		}
	}
}

func (e *AchievementsEngine) endSession(stats StatsSystem) {
	if e.colonylogix == nil {
		return
	}
	summary := &SessionSummary{
		SessionId:        stats.Stats().SessionId,
		NewAchievements:  append([]string(nil), e.sessionUnlocks...),
		LifetimeUnlocked: e.lifetimeUnlockCount(),
		Stats:            stats.Snapshot(),
	}
	e.colonylogix.Publish(&PublisherEvent{
		Name:      NotificationSessionSummary,
		Id:        uuid.NewString(),
		Timestamp: time.Now().Unix(),
		System:    e,
		SourceId:  summary.SessionId,
		Source:    summary,
	})
}

func (e *AchievementsEngine) Progress(id string) (*AchievementProgress, error) {
	p, ok := e.progress[id]
	if !ok {
		e.logger.Warn("Progress requested for unknown achievement", zap.String("id", id))
		return nil, ErrAchievementNotFound
	}
	return p, nil
}

func (e *AchievementsEngine) ListByCategory() map[string][]*AchievementListing {
	listings := make([]*AchievementListing, 0, len(e.progress))
	for id, def := range e.config.Achievements {
		listings = append(listings, &AchievementListing{
			Id:         id,
			Definition: def,
			Progress:   e.progress[id],
		})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Id < listings[j].Id })
	return lo.GroupBy(listings, func(l *AchievementListing) string {
		return l.Definition.Category
	})
}

func (e *AchievementsEngine) Stats() *AchievementStats {
	stats := &AchievementStats{
		Categories: make(map[string]*CategoryStats),
	}
	for id, def := range e.config.Achievements {
		category, ok := stats.Categories[def.Category]
		if !ok {
			category = &CategoryStats{}
			stats.Categories[def.Category] = category
		}
		stats.Total++
		category.Total++
		if e.progress[id].Unlocked {
			stats.Unlocked++
			category.Unlocked++
		}
	}
	for _, category := range stats.Categories {
		category.Percent = float64(category.Unlocked) / float64(category.Total) * 100
	}
	return stats
}
