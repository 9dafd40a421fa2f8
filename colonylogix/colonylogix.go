package colonylogix

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

// SystemType identifies each engine system type.
type SystemType uint

const (
	SystemTypeUnknown SystemType = iota
	SystemTypeStats
	SystemTypeAchievements
	SystemTypeResearch
)

// A System is a base type for an engine system.
type System interface {
	// GetType provides the runtime type of the engine system.
	GetType() SystemType

	// GetConfig returns the configuration type of the engine system.
	GetConfig() any
}

// The SystemConfig describes the configuration that each engine system uses to configure itself.
type SystemConfig interface {
	// GetType returns the runtime type of the engine system.
	GetType() SystemType

	// GetConfigFile returns the configuration file used for the data definitions in the engine system.
	GetConfigFile() string
}

var _ SystemConfig = &systemConfig{}

type systemConfig struct {
	systemType SystemType
	configFile string
}

func (sc *systemConfig) GetType() SystemType {
	return sc.systemType
}
func (sc *systemConfig) GetConfigFile() string {
	return sc.configFile
}

// WithStatsSystem configures the session stats aggregator from a catalog file.
func WithStatsSystem(configFile string) SystemConfig {
	return &systemConfig{
		systemType: SystemTypeStats,
		configFile: configFile,
	}
}

// WithAchievementsSystem configures the achievement tracker from a catalog file.
func WithAchievementsSystem(configFile string) SystemConfig {
	return &systemConfig{
		systemType: SystemTypeAchievements,
		configFile: configFile,
	}
}

// WithResearchSystem configures the research economy from a catalog file.
func WithResearchSystem(configFile string) SystemConfig {
	return &systemConfig{
		systemType: SystemTypeResearch,
		configFile: configFile,
	}
}

// WorldCatalog is implemented by the world simulation and supplies the sizes
// of the collectible universes used by set-completeness achievement
// conditions. Injected at Init so the engine never reads world state through
// a global.
type WorldCatalog interface {
	// BuildingTypeCount returns the number of distinct constructible building types.
	BuildingTypeCount() int

	// LuxuryTypeCount returns the number of distinct luxury building types.
	LuxuryTypeCount() int

	// AdjacencyBonusCount returns the number of distinct adjacency bonus kinds.
	AdjacencyBonusCount() int
}

// Colonylogix is the meta-progression engine hub. It owns the systems and the
// registered publishers, routes domain events, and exposes snapshot
// export/import for an external save layer.
//
// All operations are synchronous and run to completion; the engine is owned
// by a single-threaded game loop and performs no locking of its own.
type Colonylogix interface {
	// IngestEvent applies a domain event to the session stats and re-evaluates
	// the achievement conditions the event can affect.
	IngestEvent(event *Event)

	// AddPublisher registers a sink for engine notifications. Publishers live
	// for the session context that registered them.
	AddPublisher(publisher Publisher)

	// Publish fans notifications out to every registered publisher. Used by
	// the engine systems; external callers normally only register publishers.
	Publish(events ...*PublisherEvent)

	GetStatsSystem() StatsSystem
	GetAchievementsSystem() AchievementsSystem
	GetResearchSystem() ResearchSystem

	// Export captures all mutable engine state as a plain serializable snapshot.
	Export() *Snapshot

	// Import replaces all mutable engine state from a snapshot. Entries unknown
	// to the current catalogs are discarded, catalog entries missing from the
	// snapshot are seeded fresh.
	Import(snapshot *Snapshot)
}

// colonylogixImpl implements the Colonylogix interface.
type colonylogixImpl struct {
	logger     *zap.Logger
	publishers []Publisher

	// Store systems in a map by type
	systems map[SystemType]System
}

// Init initializes a Colonylogix engine with the configurations provided.
func Init(logger *zap.Logger, world WorldCatalog, configs ...SystemConfig) (Colonylogix, error) {
	cl := &colonylogixImpl{
		logger:     logger,
		publishers: make([]Publisher, 0),
		systems:    make(map[SystemType]System),
	}

	for _, config := range configs {
		if err := cl.initSystem(world, config); err != nil {
			return nil, err
		}
	}

	// Systems call each other through the hub, so hand it to each of them last.
	for _, system := range cl.systems {
		if aware, ok := system.(interface{ SetColonylogix(cl Colonylogix) }); ok {
			aware.SetColonylogix(cl)
		}
	}

	return cl, nil
}

// initSystem initializes a specific system based on its type.
func (c *colonylogixImpl) initSystem(world WorldCatalog, config SystemConfig) error {
	c.logger.Info("Initializing system",
		zap.Uint("type", uint(config.GetType())),
		zap.String("config_file", config.GetConfigFile()))

	configBytes, err := os.ReadFile(config.GetConfigFile())
	if err != nil {
		c.logger.Error("Failed to read config file", zap.String("config_file", config.GetConfigFile()), zap.Error(err))
		return err
	}

	var system System

	switch config.GetType() {
	case SystemTypeStats:
		statsConfig := &StatsConfig{}
		if err := json.Unmarshal(configBytes, statsConfig); err != nil {
			c.logger.Error("Failed to parse Stats system config", zap.Error(err))
			return err
		}
		system = NewStatsEngine(c.logger, statsConfig)

	case SystemTypeAchievements:
		achievementsConfig := &AchievementsConfig{}
		if err := json.Unmarshal(configBytes, achievementsConfig); err != nil {
			c.logger.Error("Failed to parse Achievements system config", zap.Error(err))
			return err
		}
		system = NewAchievementsEngine(c.logger, achievementsConfig, world)

	case SystemTypeResearch:
		researchConfig := &ResearchConfig{}
		if err := json.Unmarshal(configBytes, researchConfig); err != nil {
			c.logger.Error("Failed to parse Research system config", zap.Error(err))
			return err
		}
		system = NewResearchEngine(c.logger, researchConfig)

	default:
		return newError("unknown system type", INVALID_ARGUMENT_ERROR_CODE)
	}

	c.systems[config.GetType()] = system
	return nil
}

func (c *colonylogixImpl) IngestEvent(event *Event) {
	if event == nil {
		return
	}
	achievements := c.GetAchievementsSystem()
	if achievements == nil {
		c.logger.Error("Achievements system not configured, event dropped", zap.String("kind", string(event.Kind)))
		return
	}
	achievements.IngestEvent(event)
}

func (c *colonylogixImpl) AddPublisher(publisher Publisher) {
	c.publishers = append(c.publishers, publisher)
}

func (c *colonylogixImpl) GetStatsSystem() StatsSystem {
	if sys, ok := c.systems[SystemTypeStats].(StatsSystem); ok {
		return sys
	}
	return nil
}

func (c *colonylogixImpl) GetAchievementsSystem() AchievementsSystem {
	if sys, ok := c.systems[SystemTypeAchievements].(AchievementsSystem); ok {
		return sys
	}
	return nil
}

func (c *colonylogixImpl) GetResearchSystem() ResearchSystem {
	if sys, ok := c.systems[SystemTypeResearch].(ResearchSystem); ok {
		return sys
	}
	return nil
}

func (c *colonylogixImpl) Publish(events ...*PublisherEvent) {
	if len(events) == 0 {
		return
	}
	for _, publisher := range c.publishers {
		publisher.Send(c.logger, events)
	}
}
