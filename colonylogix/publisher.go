package colonylogix

import (
	"go.uber.org/zap"
)

// Notification names carried in PublisherEvent.Name.
const (
	NotificationAchievementUnlocked = "achievement_unlocked"
	NotificationSessionSummary      = "session_achievement_summary"
	NotificationPointsAwarded       = "research_points_awarded"
	NotificationResearchPurchased   = "research_purchased"
	NotificationProgressionReset    = "research_progression_reset"
)

// PublisherEvent is one engine notification.
type PublisherEvent struct {
	Name      string            `json:"name,omitempty"`
	Id        string            `json:"id,omitempty"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	// The system that generated this event.
	System System `json:"-"`
	// SourceId is the identifier of the event source, such as an achievement id.
	SourceId string `json:"-"`
	// Source is the typed payload of the event, such as an AchievementUnlocked.
	Source any `json:"-"`
}

// The Publisher describes a target implementation that wishes to receive and
// process notifications generated by the engine systems: UI panels, audio
// cues, analytics, an autosave trigger.
//
// Publishers are registered on the session context and are torn down with it.
// Each Publisher may choose to process or ignore each event as it sees fit.
// Implementations must handle any errors internally, callers will not repeat
// calls in case of errors.
type Publisher interface {
	// Send is called when there are one or more notifications generated.
	Send(logger *zap.Logger, events []*PublisherEvent)
}
