package colonylogix

// EventKind discriminates the domain events the engine consumes. The world
// simulation, building layer, and session controller emit these; the engine
// never observes the world directly.
type EventKind string

const (
	EventConstruction      EventKind = "construction"
	EventRecycling         EventKind = "recycling"
	EventUpgrade           EventKind = "upgrade"
	EventPopulationChanged EventKind = "population_changed"
	EventHappinessChanged  EventKind = "happiness_changed"
	EventDisasterOccurred  EventKind = "disaster_occurred"
	EventDisasterSurvived  EventKind = "disaster_survived"
	EventTurnCompleted     EventKind = "turn_completed"
	EventVictory           EventKind = "victory"
	EventSessionStarted    EventKind = "session_started"
	EventSessionEnded      EventKind = "session_ended"
	EventRuinInteracted    EventKind = "ruin_interacted"
)

// FuelSourceKind classifies the energy source of a constructed building, as
// judged by the building layer.
type FuelSourceKind string

const (
	FuelSourceNone         FuelSourceKind = ""
	FuelSourceRenewable    FuelSourceKind = "renewable"
	FuelSourceNonRenewable FuelSourceKind = "non_renewable"
)

// Event is a single domain event. Kind selects which payload fields are
// meaningful; unused fields stay at their zero value.
type Event struct {
	Kind EventKind `json:"kind"`

	// Construction and upgrade payload.
	BuildingType     string         `json:"building_type,omitempty"`
	Luxury           bool           `json:"luxury,omitempty"`
	FuelSource       FuelSourceKind `json:"fuel_source,omitempty"`
	AdjacencyBonuses []string       `json:"adjacency_bonuses,omitempty"`

	// Population and happiness payload.
	Population int64   `json:"population,omitempty"`
	Happiness  float64 `json:"happiness,omitempty"`

	// Turn payload. DroneLevels is the per-turn upgrade-level snapshot of the
	// drone fleet, supplied by the drone layer.
	Turn        int64   `json:"turn,omitempty"`
	Efficiency  float64 `json:"efficiency,omitempty"`
	DroneLevels []int64 `json:"drone_levels,omitempty"`

	// Victory payload: final resource levels by resource id, and the number of
	// disasters survived over the run.
	Resources         map[string]int64 `json:"resources,omitempty"`
	DisastersSurvived int64            `json:"disasters_survived,omitempty"`

	// Session payload, unix seconds. Wall time is only used to decide
	// scheduled achievement re-arms; all gameplay durations are turn-indexed.
	OccurredAtSec int64 `json:"occurred_at_sec,omitempty"`
}
