package systems

import (
	"math"
	"testing"
)

func TestCurrentPhaseSchedule(t *testing.T) {
	if p := CurrentPhase(0); p.Era != EraCalm {
		t.Errorf("phase at t=0 is %v, want CALM", p.Era)
	}
	if p := CurrentPhase(39.9); p.Era != EraCalm {
		t.Errorf("phase at t=39.9 is %v, want CALM", p.Era)
	}
	if p := CurrentPhase(40); p.Era != EraHot {
		t.Errorf("phase at t=40 is %v, want HOT", p.Era)
	}
	if p := CurrentPhase(-5); p.Era != EraCalm {
		t.Errorf("negative elapsed: %v, want CALM", p.Era)
	}
}

func TestPhaseWrapsAround(t *testing.T) {
	total := 0.0
	for _, p := range PhaseTable {
		total += p.Duration
	}

	for _, at := range []float64{0, 17, 63, 128, 201} {
		a := CurrentPhase(at)
		b := CurrentPhase(at + total)
		c := CurrentPhase(at + 3*total)
		if a != b || a != c {
			t.Errorf("phase at %.0f not stable across wraps: %v / %v / %v", at, a.Era, b.Era, c.Era)
		}
	}
}

func TestPhaseRemaining(t *testing.T) {
	if got := PhaseRemaining(0); got != PhaseTable[0].Duration {
		t.Errorf("remaining at t=0 = %.1f, want %.1f", got, PhaseTable[0].Duration)
	}
	if got := PhaseRemaining(35); math.Abs(got-5) > 1e-9 {
		t.Errorf("remaining at t=35 = %.1f, want 5", got)
	}
}

func TestEraSpeedFactor(t *testing.T) {
	if f := EraSpeedFactor(Phase{Gravity: 1.0}); f != 1.0 {
		t.Errorf("normal gravity factor = %.3f", f)
	}
	want := 1.0 / math.Sqrt(2.5)
	if f := EraSpeedFactor(Phase{Gravity: 2.5}); math.Abs(f-want) > 1e-12 {
		t.Errorf("heavy gravity factor = %.3f, want %.3f", f, want)
	}
	// Пониженная тяжесть скорость не ускоряет
	if f := EraSpeedFactor(Phase{Gravity: 0.5}); f != 1.0 {
		t.Errorf("low gravity factor = %.3f, want 1", f)
	}
}
