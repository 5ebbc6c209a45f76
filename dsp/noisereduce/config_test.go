package noisereduce

import (
	"errors"
	"testing"
)

func TestDefaultConfigDerivedSizes(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.WindowSize(); got != 2048 {
		t.Errorf("WindowSize() = %d, want 2048", got)
	}
	if got := cfg.StepsPerWindow(); got != 4 {
		t.Errorf("StepsPerWindow() = %d, want 4", got)
	}
	if got := cfg.HopSize(); got != 512 {
		t.Errorf("HopSize() = %d, want 512", got)
	}
	if got := cfg.SpectrumSize(); got != 1025 {
		t.Errorf("SpectrumSize() = %d, want 1025", got)
	}
	if got := cfg.NExamine(); got != 5 {
		t.Errorf("NExamine() = %d, want 5", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := ApplyOptions(
		WithSensitivity(3),
		WithNoiseGainDB(20),
		WithAttackTime(0.01),
		WithReleaseTime(0.2),
		WithFreqSmoothingBins(0),
		WithReductionMode(ModeIsolate),
		WithWindowType(0),
		WithWindowSizeChoice(0),
		WithStepsPerWindowChoice(0),
		WithMethod(MethodMedian),
	)

	if cfg.Sensitivity != 3 || cfg.NoiseGainDB != 20 || cfg.Reduction != ModeIsolate {
		t.Fatalf("options not applied: %+v", cfg)
	}
	if got := cfg.WindowSize(); got != 256 {
		t.Errorf("WindowSize() = %d, want 256", got)
	}
	if got := cfg.StepsPerWindow(); got != 2 {
		t.Errorf("StepsPerWindow() = %d, want 2", got)
	}

	// NExamine = 1+2 = 3, valid median neighborhood.
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBelowMinSteps(t *testing.T) {
	// Window type 2 (Hann/Hann) requires minSteps=4; choice index 0 -> S=2.
	cfg := ApplyOptions(WithWindowType(2), WithStepsPerWindowChoice(0))
	err := cfg.Validate()
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("Validate() = %v, want wrapping ErrConfigInvalid", err)
	}
}

func TestValidateRejectsMedianOnWideNeighborhood(t *testing.T) {
	// S=8 -> NExamine=9, invalid for median.
	cfg := ApplyOptions(WithMethod(MethodMedian), WithStepsPerWindowChoice(2))
	err := cfg.Validate()
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("Validate() = %v, want wrapping ErrConfigInvalid", err)
	}
}

func TestValidateRejectsNonPositiveNoiseGain(t *testing.T) {
	cfg := ApplyOptions(WithNoiseGainDB(0))
	err := cfg.Validate()
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("Validate() = %v, want wrapping ErrConfigInvalid", err)
	}
}
