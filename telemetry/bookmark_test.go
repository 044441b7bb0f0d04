package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FitnessRecord(t *testing.T) {
	bd := NewBookmarkDetector(10)

	steps := []struct {
		best float64
		want bool
	}{
		{100, false}, // first window sets the baseline
		{110, false},
		{130, true},
		{150, false}, // below 1.25x the new record of 130
		{170, true},
	}
	for i, s := range steps {
		got := hasBookmark(bd.Check(WindowStats{WindowEndTick: int64(i * 600), BestFitness: s.best}), BookmarkFitnessRecord)
		if got != s.want {
			t.Errorf("window %d (best %v): fitness_record = %v, want %v", i, s.best, got, s.want)
		}
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), Population: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 50})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}

	// Peak resets after a crash
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 3600, Population: 45}), BookmarkPopulationCrash) {
		t.Error("crash reported twice")
	}
}

func TestBookmarkDetector_PopulationBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), Population: 8})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2400, Population: 24})
	if !hasBookmark(bookmarks, BookmarkPopulationBoom) {
		t.Error("expected population_boom bookmark")
	}
}

func TestBookmarkDetector_FloorRescue(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 600, FloorReseeds: 5}), BookmarkFloorRescue) {
		t.Error("expected floor_rescue bookmark on first window")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 1200}), BookmarkFloorRescue) {
		t.Error("floor_rescue without reseeds")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var triggered []int
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int64(i * 600), Population: 40})
		if hasBookmark(bookmarks, BookmarkStablePopulation) {
			triggered = append(triggered, i)
		}
	}

	// History needs 4 windows, then 5 steady checks
	if len(triggered) != 1 || triggered[0] != 8 {
		t.Errorf("stable_population triggered at %v, want [8]", triggered)
	}
}

func TestBookmarkDetector_Nil(t *testing.T) {
	var bd *BookmarkDetector
	if got := bd.Check(WindowStats{FloorReseeds: 5}); got != nil {
		t.Errorf("nil detector returned %v", got)
	}
}
