package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFitnessRecord    BookmarkType = "fitness_record"
	BookmarkPopulationBoom   BookmarkType = "population_boom"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkFloorRescue      BookmarkType = "floor_rescue"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation from
// successive window stats. A nil detector detects nothing.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recordFitness      float64 // best fitness at the last record bookmark
	recentPopMin       int     // minimum population since the last boom
	recentPopPeak      int     // peak population since the last crash
	stableWindowsCount int     // consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	if bd == nil {
		return nil
	}
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkFitnessRecord,
			bd.checkPopulationBoom,
			bd.checkPopulationCrash,
			bd.checkStablePopulation,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	} else {
		bd.recordFitness = stats.BestFitness
	}

	// Floor rescues are reported from the first window on
	if stats.FloorReseeds > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFloorRescue,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population floor added %d founders", stats.FloorReseeds),
		})
	}

	bd.addToHistory(stats)

	if stats.Population < bd.recentPopMin || bd.recentPopMin == 0 {
		bd.recentPopMin = stats.Population
	}
	if stats.Population > bd.recentPopPeak {
		bd.recentPopPeak = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

// checkFitnessRecord fires when the best-ever fitness grows at least 25%
// past the previous record.
func (bd *BookmarkDetector) checkFitnessRecord(stats WindowStats) *Bookmark {
	if bd.recordFitness <= 0 {
		bd.recordFitness = stats.BestFitness
		return nil
	}
	if stats.BestFitness < bd.recordFitness*1.25 {
		return nil
	}

	old := bd.recordFitness
	bd.recordFitness = stats.BestFitness
	return &Bookmark{
		Type:        BookmarkFitnessRecord,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Best fitness rose from %.1f to %.1f", old, stats.BestFitness),
	}
}

func (bd *BookmarkDetector) checkPopulationBoom(stats WindowStats) *Bookmark {
	if bd.recentPopMin == 0 {
		return nil
	}

	if stats.Population >= bd.recentPopMin*2 && stats.Population >= 20 {
		// Reset the minimum after triggering
		oldMin := bd.recentPopMin
		bd.recentPopMin = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population grew from %d to %d", oldMin, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPopPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Population)/float64(bd.recentPopPeak)
	if dropPercent > 0.30 && stats.Population < bd.recentPopPeak-10 {
		// Reset peak after crash
		oldPeak := bd.recentPopPeak
		bd.recentPopPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	if stats.Population < 10 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Population)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Population) - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 0.04 { // CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once per stable stretch
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population steady around %.0f over 5+ windows", mean),
		}
	}
	return nil
}
