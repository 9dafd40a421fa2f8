package colonylogix

var (
	ErrAchievementNotFound = newError("achievement not found", NOT_FOUND_ERROR_CODE)
)

// ConditionKind discriminates the predicate types an achievement condition
// can use.
type ConditionKind string

const (
	// ConditionCountThreshold unlocks when a named session counter reaches a target.
	ConditionCountThreshold ConditionKind = "count_threshold"
	// ConditionSetComplete unlocks when a tracked set covers its whole universe.
	ConditionSetComplete ConditionKind = "set_complete"
	// ConditionPopulationRecovery unlocks when population climbs back to a
	// target after having dropped to a floor earlier in the session.
	ConditionPopulationRecovery ConditionKind = "population_recovery"
	// ConditionRenewableExclusive unlocks at a population target while the
	// session has never built a disqualifying energy source.
	ConditionRenewableExclusive ConditionKind = "renewable_exclusive"
	// ConditionEfficiencyStreak unlocks after N consecutive turns at or above
	// an efficiency threshold.
	ConditionEfficiencyStreak ConditionKind = "efficiency_streak"
	// ConditionUtopiaStreak unlocks after N consecutive turns with population
	// and happiness simultaneously at or above their thresholds.
	ConditionUtopiaStreak ConditionKind = "utopia_streak"
	// ConditionUniformDroneStreak unlocks after N consecutive turns on which
	// the whole drone fleet shares one upgrade level.
	ConditionUniformDroneStreak ConditionKind = "uniform_drone_streak"
	// ConditionVictoryResource unlocks at victory when a final resource level
	// is at or under a limit.
	ConditionVictoryResource ConditionKind = "victory_resource"
	// ConditionVictorySurvivor unlocks at victory when the session survived at
	// least a target number of disasters.
	ConditionVictorySurvivor ConditionKind = "victory_survivor"
)

// SetKind names the collectible universes a set-completeness condition can track.
type SetKind string

const (
	SetBuildingTypes    SetKind = "building_types"
	SetLuxuryTypes      SetKind = "luxury_types"
	SetAdjacencyBonuses SetKind = "adjacency_bonuses"
)

// AchievementsConfig is the data definition for the achievement catalog.
type AchievementsConfig struct {
	Achievements map[string]*AchievementsConfigAchievement `json:"achievements,omitempty"`
}

type AchievementsConfigAchievement struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// Points is the base research point value granted on unlock, before
	// diminishing returns.
	Points    int64                        `json:"points,omitempty"`
	Condition *AchievementsConfigCondition `json:"condition,omitempty"`
	// ResetSchedule is an optional CRON expression. When set, an unlocked
	// achievement re-arms at the first session start after the schedule has
	// elapsed since its unlock. Without it an achievement unlocks once per
	// campaign.
	ResetSchedule        string            `json:"reset_schedule,omitempty"`
	AdditionalProperties map[string]string `json:"additional_properties,omitempty"`
}

// AchievementsConfigCondition describes one unlock predicate. Kind selects
// which payload fields apply.
type AchievementsConfigCondition struct {
	Kind ConditionKind `json:"kind"`

	// count_threshold
	Stat   StatName `json:"stat,omitempty"`
	Target int64    `json:"target,omitempty"` // also victory_survivor

	// set_complete
	Set SetKind `json:"set,omitempty"`

	// population_recovery
	FromPopulation int64 `json:"from_population,omitempty"`
	ToPopulation   int64 `json:"to_population,omitempty"`

	// renewable_exclusive and utopia_streak
	Population int64 `json:"population,omitempty"`

	// utopia_streak
	Happiness float64 `json:"happiness,omitempty"`

	// efficiency_streak
	Efficiency float64 `json:"efficiency,omitempty"`

	// streak kinds: required consecutive qualifying turns
	Turns int64 `json:"turns,omitempty"`

	// victory_resource
	Resource string `json:"resource,omitempty"`
	AtMost   int64  `json:"at_most,omitempty"`
}

// AchievementProgress is the lifetime-scoped mutable record for one
// achievement. It is a plain serializable structure.
type AchievementProgress struct {
	Id          string `json:"id,omitempty"`
	Progress    int64  `json:"progress,omitempty"`
	MaxProgress int64  `json:"max_progress,omitempty"`
	Unlocked    bool   `json:"unlocked,omitempty"`
	// UnlockTurn and UnlockTimeSec stamp the unlock in game turns and wall
	// clock. Wall clock exists only to drive scheduled re-arms.
	UnlockTurn    int64 `json:"unlock_turn,omitempty"`
	UnlockTimeSec int64 `json:"unlock_time_sec,omitempty"`
	// SessionProgress is the share of Progress earned this session.
	SessionProgress int64 `json:"session_progress,omitempty"`
}

// Percent returns unlock progress in the range 0-100.
func (p *AchievementProgress) Percent() float64 {
	if p.Unlocked || p.MaxProgress <= 0 {
		return 100.0
	}
	percent := float64(p.Progress) / float64(p.MaxProgress) * 100
	if percent > 100 {
		return 100.0
	}
	return percent
}

// AchievementUnlocked is the payload of an achievement_unlocked notification.
type AchievementUnlocked struct {
	Id                  string                         `json:"id"`
	Definition          *AchievementsConfigAchievement `json:"definition,omitempty"`
	SessionUnlockCount  int64                          `json:"session_unlock_count"`
	LifetimeUnlockCount int64                          `json:"lifetime_unlock_count"`
}

// SessionSummary is the payload of a session_achievement_summary notification.
type SessionSummary struct {
	SessionId        string        `json:"session_id,omitempty"`
	NewAchievements  []string      `json:"new_achievements,omitempty"`
	LifetimeUnlocked int64         `json:"lifetime_unlocked"`
	Stats            *SessionStats `json:"stats,omitempty"`
}

// AchievementListing pairs a catalog definition with its progress record for
// the UI query surface.
type AchievementListing struct {
	Id         string                         `json:"id"`
	Definition *AchievementsConfigAchievement `json:"definition"`
	Progress   *AchievementProgress           `json:"progress"`
}

// CategoryStats summarizes unlock progress within one category.
type CategoryStats struct {
	Total    int64   `json:"total"`
	Unlocked int64   `json:"unlocked"`
	Percent  float64 `json:"percent"`
}

// AchievementStats is the aggregate statistics query result.
type AchievementStats struct {
	Total      int64                     `json:"total"`
	Unlocked   int64                     `json:"unlocked"`
	Categories map[string]*CategoryStats `json:"categories,omitempty"`
}

// AchievementsSystem is the achievement tracker. It routes domain events into
// the stats aggregator, evaluates the affected conditions, and performs
// idempotent unlocks that feed the research economy.
type AchievementsSystem interface {
	System

	// IngestEvent applies one domain event and re-evaluates every achievement
	// whose condition kind the event can affect.
	IngestEvent(event *Event)

	// Unlock marks an achievement unlocked. Idempotent: an already-unlocked id
	// is a no-op with no award and no notification. Unknown ids are rejected
	// with ErrAchievementNotFound and logged, never fatal.
	Unlock(id string) error

	// Progress returns the progress record for one achievement.
	Progress(id string) (*AchievementProgress, error)

	// ListByCategory groups all achievements with their progress by category.
	ListByCategory() map[string][]*AchievementListing

	// Stats returns aggregate totals and per-category unlock percentages.
	Stats() *AchievementStats
}
