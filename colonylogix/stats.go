package colonylogix

// StatName identifies one session counter tracked by the stats aggregator.
type StatName string

const (
	StatBuildingsConstructed StatName = "buildings_constructed"
	StatBuildingsRecycled    StatName = "buildings_recycled"
	StatBuildingsUpgraded    StatName = "buildings_upgraded"
	StatDisastersOccurred    StatName = "disasters_occurred"
	StatDisastersSurvived    StatName = "disasters_survived"
	StatTurnsPlayed          StatName = "turns_played"
	StatRuinsInteracted      StatName = "ruins_interacted"
)

// StatsConfig is the data definition for the session stats aggregator.
type StatsConfig struct {
	// DisqualifyingFuelSources lists the fuel-source kinds that permanently
	// falsify the renewable-exclusivity flag for the session. Defaults to
	// non-renewable only.
	DisqualifyingFuelSources []FuelSourceKind `json:"disqualifying_fuel_sources,omitempty"`
}

// SessionStats is the full mutable state of one session. It is a plain
// serializable structure so it can ride along in summaries and snapshots.
type SessionStats struct {
	SessionId    string `json:"session_id,omitempty"`
	StartedAtSec int64  `json:"started_at_sec,omitempty"`
	CurrentTurn  int64  `json:"current_turn,omitempty"`

	BuildingsConstructed int64 `json:"buildings_constructed,omitempty"`
	BuildingsRecycled    int64 `json:"buildings_recycled,omitempty"`
	BuildingsUpgraded    int64 `json:"buildings_upgraded,omitempty"`
	DisastersOccurred    int64 `json:"disasters_occurred,omitempty"`
	DisastersSurvived    int64 `json:"disasters_survived,omitempty"`
	RuinsInteracted      int64 `json:"ruins_interacted,omitempty"`

	CurrentPopulation int64   `json:"current_population,omitempty"`
	CurrentHappiness  float64 `json:"current_happiness,omitempty"`
	PeakPopulation    int64   `json:"peak_population,omitempty"`
	// LowestPopulation is -1 until the first population sample arrives.
	LowestPopulation int64 `json:"lowest_population"`

	BuildingTypesBuilt map[string]bool `json:"building_types_built,omitempty"`
	LuxuryTypesBuilt   map[string]bool `json:"luxury_types_built,omitempty"`
	AdjacencyBonuses   map[string]bool `json:"adjacency_bonuses,omitempty"`

	// OnlyRenewableEnergy starts true and can only flip to false within a
	// session, never back.
	OnlyRenewableEnergy bool `json:"only_renewable_energy"`

	// Streaks holds consecutive-qualifying-turn counters keyed by the
	// achievement id whose condition feeds them.
	Streaks map[string]int64 `json:"streaks,omitempty"`
}

// StatsSystem is the session stats aggregator. It owns all session-scoped
// state and nothing else; it evaluates no achievement conditions itself.
type StatsSystem interface {
	System

	// Apply folds one domain event into the session counters, sets, extrema
	// and flags. Session lifecycle events are not its concern and are ignored.
	Apply(event *Event)

	// Reset replaces all session state with fresh values for a new session.
	Reset(sessionId string, startedAtSec int64)

	// Stats returns the live session state. Callers must not mutate it.
	Stats() *SessionStats

	// Snapshot returns a deep copy of the session state.
	Snapshot() *SessionStats

	// Counter returns the current value of one named session counter.
	Counter(stat StatName) int64

	// AdvanceStreak increments the streak counter for id when qualified is
	// true and resets it to zero otherwise, returning the new value.
	AdvanceStreak(id string, qualified bool) int64
}
