package colonylogix

import (
	"sort"

	"go.uber.org/zap"
)

// Snapshot is the full mutable engine state as two plain serializable
// records. Catalogs are never part of it, and neither are the derived
// purchasable sets, which are recomputed on import so a catalog change
// between versions cannot leave them stale.
type Snapshot struct {
	Achievements *AchievementsRecord `json:"achievements,omitempty"`
	Research     *ResearchRecord     `json:"research,omitempty"`
}

// AchievementsRecord is the persisted state of the achievement tracker.
type AchievementsRecord struct {
	UnlockedIds  []string                        `json:"unlocked_ids,omitempty"`
	Progress     map[string]*AchievementProgress `json:"progress,omitempty"`
	SessionStats *SessionStats                   `json:"session_stats,omitempty"`
}

// ResearchRecord is the persisted state of the research economy.
type ResearchRecord struct {
	TotalPoints int64                          `json:"total_points,omitempty"`
	SpentPoints int64                          `json:"spent_points,omitempty"`
	Ledger      map[string]int64               `json:"ledger,omitempty"`
	Trees       map[string]*ResearchTreeRecord `json:"trees,omitempty"`
}

// ResearchTreeRecord is the persisted state of one tree.
type ResearchTreeRecord struct {
	SpentPoints   int64 `json:"spent_points,omitempty"`
	UnlockedTiers []int `json:"unlocked_tiers,omitempty"`
}

func (c *colonylogixImpl) Export() *Snapshot {
	snapshot := &Snapshot{}
	if ach, ok := c.systems[SystemTypeAchievements].(*AchievementsEngine); ok {
		var stats *SessionStats
		if statsEngine, ok := c.systems[SystemTypeStats].(*StatsEngine); ok {
			stats = statsEngine.Snapshot()
		}
		snapshot.Achievements = ach.exportRecord(stats)
	}
	if res, ok := c.systems[SystemTypeResearch].(*ResearchEngine); ok {
		snapshot.Research = res.exportRecord()
	}
	return snapshot
}

func (c *colonylogixImpl) Import(snapshot *Snapshot) {
	if snapshot == nil {
		c.logger.Warn("Nil snapshot ignored on import")
		return
	}
	if ach, ok := c.systems[SystemTypeAchievements].(*AchievementsEngine); ok {
		ach.importRecord(snapshot.Achievements)
	}
	if statsEngine, ok := c.systems[SystemTypeStats].(*StatsEngine); ok {
		if snapshot.Achievements != nil {
			statsEngine.restore(snapshot.Achievements.SessionStats)
		} else {
			statsEngine.restore(nil)
		}
	}
	if res, ok := c.systems[SystemTypeResearch].(*ResearchEngine); ok {
		res.importRecord(snapshot.Research)
	}
}

func (e *AchievementsEngine) exportRecord(stats *SessionStats) *AchievementsRecord {
	record := &AchievementsRecord{
		Progress:     make(map[string]*AchievementProgress, len(e.progress)),
		SessionStats: stats,
	}
	for id, p := range e.progress {
		copied := *p
		record.Progress[id] = &copied
		if p.Unlocked {
			record.UnlockedIds = append(record.UnlockedIds, id)
		}
	}
	sort.Strings(record.UnlockedIds)
	return record
}

// importRecord rebuilds the progress map against the current catalog: catalog
// entries missing from the record are seeded fresh, record entries unknown to
// the catalog are discarded. MaxProgress always comes from the catalog, not
// the record, so condition targets can change between versions.
func (e *AchievementsEngine) importRecord(record *AchievementsRecord) {
	if record == nil {
		record = &AchievementsRecord{}
	}
	unlockedIds := make(map[string]bool, len(record.UnlockedIds))
	for _, id := range record.UnlockedIds {
		unlockedIds[id] = true
	}

	e.sessionUnlocks = nil
	e.progress = make(map[string]*AchievementProgress)
	if e.config == nil {
		return
	}
	for id, def := range e.config.Achievements {
		fresh := e.freshProgress(id, def)
		if stored, ok := record.Progress[id]; ok {
			fresh.Unlocked = stored.Unlocked || unlockedIds[id]
			fresh.UnlockTurn = stored.UnlockTurn
			fresh.UnlockTimeSec = stored.UnlockTimeSec
			fresh.Progress = min(stored.Progress, fresh.MaxProgress)
			fresh.SessionProgress = stored.SessionProgress
		} else if unlockedIds[id] {
			fresh.Unlocked = true
		}
		if fresh.Unlocked {
			fresh.Progress = fresh.MaxProgress
		}
		e.progress[id] = fresh
	}
	for id := range record.Progress {
		if _, ok := e.config.Achievements[id]; !ok {
			e.logger.Debug("Discarding progress for achievement absent from catalog", zap.String("id", id))
		}
	}
}

func (e *ResearchEngine) exportRecord() *ResearchRecord {
	record := &ResearchRecord{
		TotalPoints: e.totalPoints,
		SpentPoints: e.spentPoints,
		Ledger:      make(map[string]int64, len(e.ledger)),
		Trees:       make(map[string]*ResearchTreeRecord, len(e.trees)),
	}
	for id, count := range e.ledger {
		record.Ledger[id] = count
	}
	for treeId, progress := range e.trees {
		treeRecord := &ResearchTreeRecord{SpentPoints: progress.SpentPoints}
		for index := range progress.Unlocked {
			treeRecord.UnlockedTiers = append(treeRecord.UnlockedTiers, index)
		}
		sort.Ints(treeRecord.UnlockedTiers)
		record.Trees[treeId] = treeRecord
	}
	return record
}

// importRecord replaces the economy state. Unknown trees and out-of-range
// tier indices are discarded; availability is derived from the unlocked sets
// and the current catalog rather than trusted from storage.
func (e *ResearchEngine) importRecord(record *ResearchRecord) {
	if record == nil {
		record = &ResearchRecord{}
	}
	e.totalPoints = record.TotalPoints
	e.spentPoints = record.SpentPoints
	e.ledger = make(map[string]int64, len(record.Ledger))
	for id, count := range record.Ledger {
		e.ledger[id] = count
	}

	e.trees = make(map[string]*ResearchProgress)
	e.seedTrees()
	if e.config == nil {
		return
	}
	for treeId, treeRecord := range record.Trees {
		tree, ok := e.config.Trees[treeId]
		if !ok {
			e.logger.Debug("Discarding progress for research tree absent from catalog", zap.String("tree_id", treeId))
			continue
		}
		progress := e.trees[treeId]
		progress.SpentPoints = treeRecord.SpentPoints
		for _, index := range treeRecord.UnlockedTiers {
			if index < 0 || index >= len(tree.Tiers) {
				e.logger.Debug("Discarding out-of-range research tier",
					zap.String("tree_id", treeId), zap.Int("tier_index", index))
				continue
			}
			progress.Unlocked[index] = true
		}
		e.recomputeAvailability(tree, progress)
	}
}
