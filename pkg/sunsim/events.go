package sunsim

import "math"

// Параметры детекта событий
const (
	// Пара считается "тесной", если ее дистанция меньше binaryRatio
	// от расстояния до ближайшего третьего тела
	binaryRatio = 0.33

	// Сколько тиков подряд пара должна оставаться тесной.
	// Гистерезис: счетчик растет на +1 рядом и падает на -2 врозь,
	// поэтому однокадровый провал не объявляет двойную.
	BinaryTicks = 45

	// Тело считается выброшенным, если оно дальше от центра масс,
	// чем ejectRatio расстояний между двумя оставшимися
	ejectRatio = 3.0
)

// updateSky проецирует тела на небесную сферу
func (s *State) updateSky() {
	for i, b := range s.Bodies {
		r := b.Pos.Len()
		if r < 1e-9 {
			s.Sky[i] = SkyPos{}
			continue
		}
		el := math.Asin(b.Pos.Z / r)
		s.Sky[i] = SkyPos{
			Dir:       b.Pos.Scale(SkyRadius / r),
			Azimuth:   math.Atan2(b.Pos.Y, b.Pos.X),
			Elevation: el,
			Visible:   el > 0,
		}
	}
}

// updateEvents обновляет окно событий: двойные пары и выброс.
// Вызывается ровно один раз на Advance (один раз за тик).
func (s *State) updateEvents() {
	d := [3]float64{
		s.Bodies[0].Pos.Sub(s.Bodies[1].Pos).Len(),
		s.Bodies[0].Pos.Sub(s.Bodies[2].Pos).Len(),
		s.Bodies[1].Pos.Sub(s.Bodies[2].Pos).Len(),
	}

	// Расстояние от пары до третьего тела: минимум двух остальных дистанций
	third := [3]float64{
		math.Min(d[1], d[2]),
		math.Min(d[0], d[2]),
		math.Min(d[0], d[1]),
	}

	for p := 0; p < 3; p++ {
		if d[p] < binaryRatio*third[p] {
			s.pairTicks[p]++
		} else {
			s.pairTicks[p] -= 2
			if s.pairTicks[p] < 0 {
				s.pairTicks[p] = 0
			}
		}
	}

	s.BinaryPair = -1
	for p := 0; p < 3; p++ {
		if s.pairTicks[p] >= BinaryTicks {
			s.BinaryPair = p
			break
		}
	}

	// Выброс: одно тело далеко от центра масс относительно оставшейся пары
	com := s.centerOfMass()
	s.Ejected = false
	s.EjectedBody = -1
	rest := [3]int{2, 1, 0} // Индекс пары из двух других тел
	for i := 0; i < 3; i++ {
		dist := s.Bodies[i].Pos.Sub(com).Len()
		if dist > ejectRatio*d[rest[i]] && dist > boundaryRadius*0.8 {
			s.Ejected = true
			s.EjectedBody = i
			break
		}
	}
}

// PairBodies возвращает индексы тел пары (для снапшота)
func PairBodies(pair int) (int, int) {
	if pair < 0 || pair > 2 {
		return -1, -1
	}
	return pairBodies[pair][0], pairBodies[pair][1]
}
