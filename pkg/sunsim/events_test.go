package sunsim

import "testing"

// тесная пара 0-1 с далеким третьим телом
func closePairState() *State {
	s := &State{BinaryPair: -1, EjectedBody: -1}
	s.Bodies = [3]Body{
		{Pos: Vec3{0, 0, 0}, Mass: 1},
		{Pos: Vec3{0.1, 0, 0}, Mass: 1},
		{Pos: Vec3{4, 0, 0}, Mass: 1},
	}
	return s
}

func spreadBodies(s *State) {
	s.Bodies[0].Pos = Vec3{-2, 0, 0}
	s.Bodies[1].Pos = Vec3{2, 0, 0}
	s.Bodies[2].Pos = Vec3{0, 3, 0}
}

func TestBinaryDeclaredAfterSustainedTicks(t *testing.T) {
	s := closePairState()

	for i := 0; i < BinaryTicks-1; i++ {
		s.updateEvents()
		if s.BinaryPair != -1 {
			t.Fatalf("binary declared early at tick %d", i+1)
		}
	}

	s.updateEvents()
	if s.BinaryPair != 0 {
		t.Fatalf("BinaryPair = %d after %d close ticks, want 0", s.BinaryPair, BinaryTicks)
	}

	a, b := PairBodies(s.BinaryPair)
	if a != 0 || b != 1 {
		t.Errorf("PairBodies = (%d,%d), want (0,1)", a, b)
	}
}

// Однокадровый провал стоит два тика счетчика, но память пары сохраняется:
// повторное подтверждение приходит за пару тиков, а не за полное окно
func TestBinaryHysteresisDip(t *testing.T) {
	s := closePairState()
	for i := 0; i < BinaryTicks; i++ {
		s.updateEvents()
	}
	if s.BinaryPair != 0 {
		t.Fatal("precondition: binary not established")
	}

	// Провал на один тик
	saved := s.Bodies
	spreadBodies(s)
	s.updateEvents()
	if s.BinaryPair != -1 {
		t.Fatal("binary survived a spread tick, counter logic broken")
	}

	// Возврат: два тика вместо полных BinaryTicks
	s.Bodies = saved
	s.updateEvents()
	s.updateEvents()
	if s.BinaryPair != 0 {
		t.Fatalf("BinaryPair = %d after dip recovery, want 0", s.BinaryPair)
	}
}

func TestBinaryCounterFloorsAtZero(t *testing.T) {
	s := closePairState()
	spreadBodies(s)

	for i := 0; i < 10; i++ {
		s.updateEvents()
	}
	for p := 0; p < 3; p++ {
		if s.pairTicks[p] != 0 {
			t.Errorf("pair %d counter = %d, want 0", p, s.pairTicks[p])
		}
	}
	if s.BinaryPair != -1 {
		t.Errorf("BinaryPair = %d with spread bodies", s.BinaryPair)
	}
}

func TestEjectionDetection(t *testing.T) {
	s := &State{BinaryPair: -1, EjectedBody: -1}
	s.Bodies = [3]Body{
		{Pos: Vec3{-0.5, 0, 0}, Mass: 1},
		{Pos: Vec3{0.5, 0, 0}, Mass: 1},
		{Pos: Vec3{20, 0, 0}, Mass: 1},
	}

	s.updateEvents()
	if !s.Ejected || s.EjectedBody != 2 {
		t.Fatalf("Ejected=%v body=%d, want body 2 ejected", s.Ejected, s.EjectedBody)
	}

	// Компактная тройка: никакого выброса
	s2 := closePairState()
	s2.updateEvents()
	if s2.Ejected {
		t.Errorf("compact triple flagged as ejection (body %d)", s2.EjectedBody)
	}
}

func TestPairBodiesRange(t *testing.T) {
	if a, b := PairBodies(-1); a != -1 || b != -1 {
		t.Errorf("PairBodies(-1) = (%d,%d)", a, b)
	}
	if a, b := PairBodies(3); a != -1 || b != -1 {
		t.Errorf("PairBodies(3) = (%d,%d)", a, b)
	}
	seen := make(map[[2]int]bool)
	for p := 0; p < 3; p++ {
		a, b := PairBodies(p)
		if a < 0 || b < 0 || a == b {
			t.Errorf("PairBodies(%d) = (%d,%d)", p, a, b)
		}
		seen[[2]int{a, b}] = true
	}
	if len(seen) != 3 {
		t.Errorf("pairs not distinct: %v", seen)
	}
}
