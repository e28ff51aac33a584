package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSplash          BookmarkType = "splash"
	BookmarkSettled         BookmarkType = "settled"
	BookmarkDegenerate      BookmarkType = "degenerate"
	BookmarkCapacityReached BookmarkType = "capacity_reached"
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

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	settledWindows int  // consecutive windows with steady kinetic energy
	sawDegenerate  bool // degenerate bookmark already emitted
	sawFull        bool // capacity bookmark already emitted
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for settle detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets history, e.g. after the store is cleared and reseeded.
func (bd *BookmarkDetector) Reset() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.settledWindows = 0
	bd.sawDegenerate = false
	bd.sawFull = false
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkDegenerate(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCapacity(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Splash: kinetic energy > 2x rolling average
		if b := bd.checkSplash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Settled: kinetic energy steady over 5 windows
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkDegenerate(stats WindowStats) *Bookmark {
	if bd.sawDegenerate || (stats.NonFinite == 0 && stats.DegenerateTicks == 0) {
		return nil
	}
	bd.sawDegenerate = true
	return &Bookmark{
		Type:        BookmarkDegenerate,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d non-finite particles, %d degenerate ticks", stats.NonFinite, stats.DegenerateTicks),
	}
}

func (bd *BookmarkDetector) checkCapacity(stats WindowStats) *Bookmark {
	if bd.sawFull || stats.Capacity == 0 || stats.Particles < stats.Capacity {
		return nil
	}
	bd.sawFull = true
	return &Bookmark{
		Type:        BookmarkCapacityReached,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Store full at %d particles, %d refused this window", stats.Particles, stats.ParticlesRefused),
	}
}

func (bd *BookmarkDetector) checkSplash(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.KineticEnergy
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.KineticEnergy > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkSplash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy %.3g is %.1fx average (%.3g)", stats.KineticEnergy, stats.KineticEnergy/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Particles == 0 {
		bd.settledWindows = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Variance of kinetic energy over the most recent windows, in
	// insertion order when the buffer has wrapped.
	recent := make([]float64, 0, 4)
	for k := 4; k >= 1; k-- {
		idx := (bd.historyIdx - k + bd.historySize) % bd.historySize
		recent = append(recent, history[idx].KineticEnergy)
	}
	var sum float64
	for _, v := range recent {
		sum += v
	}
	mean := sum / 4

	var variance float64
	for _, v := range recent {
		d := v - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.01 { // CV^2 < 0.01 means CV < 0.1
		bd.settledWindows++
	} else {
		bd.settledWindows = 0
	}

	if bd.settledWindows == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Fluid settled: %d particles, density error %.1f%%", stats.Particles, stats.DensityErr*100),
		}
	}

	return nil
}
