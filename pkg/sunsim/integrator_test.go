package sunsim

import (
	"math"
	"testing"
)

// Энергия почти сохраняется. Строгая граница - только для периодической
// восьмерки: хаотичные пресеты проходят тесные сближения, где дрейф
// ограничен, но заметно больше.
func TestEnergyNearlyConserved(t *testing.T) {
	tests := []struct {
		name   string
		preset Preset
		bound  float64
	}{
		{name: "figure_eight", preset: PresetFigureEight, bound: 0.02},
		{name: "hierarchical", preset: PresetHierarchical, bound: 0.10},
		{name: "tilted_triangle", preset: PresetTiltedTriangle, bound: 0.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.preset)
			e0 := s.Energy
			if e0 >= 0 {
				t.Fatalf("system not bound, E0 = %.4f", e0)
			}

			// 10 секунд симуляции тиками по 1/15
			for i := 0; i < 150; i++ {
				s.Advance(1.0 / 15.0)
			}

			drift := math.Abs(s.Energy-e0) / math.Abs(e0)
			if drift > tt.bound {
				t.Errorf("energy drift %.2f%% over 10s, bound %.0f%%", drift*100, tt.bound*100)
			}
		})
	}
}

func TestAdvanceDeterministic(t *testing.T) {
	a := New(PresetTiltedTriangle)
	b := New(PresetTiltedTriangle)

	for i := 0; i < 100; i++ {
		a.Advance(1.0 / 15.0)
		b.Advance(1.0 / 15.0)
	}

	for i := 0; i < 3; i++ {
		if a.Bodies[i].Pos != b.Bodies[i].Pos || a.Bodies[i].Vel != b.Bodies[i].Vel {
			t.Fatalf("body %d diverged between identical runs", i)
		}
	}
	if a.Energy != b.Energy {
		t.Fatal("energy diverged between identical runs")
	}
}

// Все пресеты стартуют в системе центра масс
func TestPresetsCentered(t *testing.T) {
	for _, preset := range []Preset{PresetTiltedTriangle, PresetHierarchical, PresetFigureEight} {
		s := New(preset)
		if com := s.centerOfMass(); com.Len() > 1e-9 {
			t.Errorf("preset %d: COM offset %.2e", preset, com.Len())
		}
	}
}

func TestAdvanceZeroDt(t *testing.T) {
	s := New(PresetFigureEight)
	before := s.Bodies
	s.Advance(0)
	s.Advance(-1)
	if s.Bodies != before {
		t.Fatal("non-positive dt moved the bodies")
	}
}

// Тела остаются в окрестности границы: возвращающая сила работает
func TestBoundaryContainment(t *testing.T) {
	s := New(PresetHierarchical)
	for i := 0; i < 1500; i++ {
		s.Advance(1.0 / 15.0)
		for b := 0; b < 3; b++ {
			if r := s.Bodies[b].Pos.Len(); r > boundaryRadius*3 {
				t.Fatalf("tick %d: body %d escaped to r=%.2f", i, b, r)
			}
		}
	}
}

func TestSkyProjection(t *testing.T) {
	s := New(PresetTiltedTriangle)
	s.Advance(1.0 / 15.0)

	for i, sky := range s.Sky {
		if sky.Visible != (sky.Elevation > 0) {
			t.Errorf("sun %d: Visible=%v but Elevation=%.3f", i, sky.Visible, sky.Elevation)
		}
		if r := sky.Dir.Len(); math.Abs(r-SkyRadius) > 1e-6 {
			t.Errorf("sun %d: sky direction length %.3f, want %.1f", i, r, SkyRadius)
		}
		if sky.Elevation < -math.Pi/2 || sky.Elevation > math.Pi/2 {
			t.Errorf("sun %d: elevation %.3f out of range", i, sky.Elevation)
		}
	}
}
