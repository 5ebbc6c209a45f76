package noisereduce

import (
	"errors"
	"testing"
)

func TestProfileAccumulatorIngestAndFinish(t *testing.T) {
	stats := NewProfileStatistics(44100, 2048, 2, 4)
	acc := NewProfileAccumulator(stats)

	acc.IngestPower([]float64{1, 2, 3, 4})
	acc.IngestPower([]float64{3, 4, 5, 6})

	if err := acc.FinishTrack(); err != nil {
		t.Fatalf("FinishTrack() error = %v", err)
	}

	want := []float64{2, 3, 4, 5}
	for i, v := range stats.Means {
		if v != want[i] {
			t.Errorf("Means[%d] = %v, want %v", i, v, want[i])
		}
	}
	if stats.TotalWindows != 2 {
		t.Errorf("TotalWindows = %d, want 2", stats.TotalWindows)
	}
	if stats.TrackWindows != 0 {
		t.Errorf("TrackWindows = %d, want 0 after finish", stats.TrackWindows)
	}
}

func TestProfileAccumulatorWeightedMergeAcrossTracks(t *testing.T) {
	stats := NewProfileStatistics(44100, 2048, 2, 2)
	acc := NewProfileAccumulator(stats)

	acc.IngestPower([]float64{10, 10})
	if err := acc.FinishTrack(); err != nil {
		t.Fatalf("FinishTrack() error = %v", err)
	}

	acc.IngestPower([]float64{0, 0})
	acc.IngestPower([]float64{0, 0})
	acc.IngestPower([]float64{0, 0})
	if err := acc.FinishTrack(); err != nil {
		t.Fatalf("FinishTrack() error = %v", err)
	}

	// (10*1 + 0*3) / 4 = 2.5
	if stats.Means[0] != 2.5 {
		t.Errorf("Means[0] = %v, want 2.5", stats.Means[0])
	}
	if stats.TotalWindows != 4 {
		t.Errorf("TotalWindows = %d, want 4", stats.TotalWindows)
	}
}

func TestProfileAccumulatorEmptyTrackIsError(t *testing.T) {
	stats := NewProfileStatistics(44100, 2048, 2, 2)
	acc := NewProfileAccumulator(stats)

	err := acc.FinishTrack()
	if !errors.Is(err, ErrProfileTooShort) {
		t.Fatalf("FinishTrack() = %v, want ErrProfileTooShort", err)
	}
}
