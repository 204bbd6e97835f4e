package sunsim

import "math"

// Константы интегратора. Единицы безразмерные: G=1, массы ~1, расстояния ~1.
const (
	gravConst = 1.0

	// Мягкое сглаживание сингулярности при тесных сближениях
	softening = 0.05

	// Фиксированный подшаг. Стабильность не зависит от дрожания dt вызова:
	// dt нарезается на подшаги, число которых ограничено сверху.
	stepSize    = 1.0 / 240.0
	maxSubSteps = 64

	// Мягкая квадратичная возвращающая сила за пределами радиуса
	boundaryRadius = 6.0
	boundaryK      = 0.5

	// Демпфирование скорости в единицу времени против накопления дрейфа энергии
	dampingRate = 5e-4

	// SkyRadius - радиус небесной сферы для проекций
	SkyRadius = 100.0
)

// Advance продвигает симуляцию на dt секунд. Детерминированно мутирует state:
// интегрирование, проекция на небо, детект событий, пересчет энергии.
func (s *State) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	steps := int(math.Ceil(dt / stepSize))
	if steps < 1 {
		steps = 1
	}
	if steps > maxSubSteps {
		steps = maxSubSteps
	}

	for i := 0; i < steps; i++ {
		s.rk4Step(stepSize)

		damp := 1.0 - dampingRate*stepSize
		for b := range s.Bodies {
			s.Bodies[b].Vel = s.Bodies[b].Vel.Scale(damp)
		}
	}

	s.updateSky()
	s.updateEvents()
	s.Energy = s.totalEnergy()
}

// accelerations считает ускорения для заданных позиций:
// попарная гравитация со сглаживанием + возвращающая сила границы.
func (s *State) accelerations(pos [3]Vec3) [3]Vec3 {
	var acc [3]Vec3

	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			dr := pos[j].Sub(pos[i])
			r2 := dr.X*dr.X + dr.Y*dr.Y + dr.Z*dr.Z + softening*softening
			inv := 1.0 / (r2 * math.Sqrt(r2))
			acc[i] = acc[i].Add(dr.Scale(gravConst * s.Bodies[j].Mass * inv))
			acc[j] = acc[j].Sub(dr.Scale(gravConst * s.Bodies[i].Mass * inv))
		}
	}

	for i := 0; i < 3; i++ {
		r := pos[i].Len()
		if r > boundaryRadius {
			over := r - boundaryRadius
			acc[i] = acc[i].Sub(pos[i].Scale(boundaryK * over * over / r))
		}
	}

	return acc
}

// rk4Step - один шаг Рунге-Кутты 4-го порядка по всем 18 координатам
func (s *State) rk4Step(h float64) {
	var p0, v0 [3]Vec3
	for i := range s.Bodies {
		p0[i] = s.Bodies[i].Pos
		v0[i] = s.Bodies[i].Vel
	}

	// k1
	a1 := s.accelerations(p0)

	// k2
	var p2, v2 [3]Vec3
	for i := 0; i < 3; i++ {
		p2[i] = p0[i].Add(v0[i].Scale(h / 2))
		v2[i] = v0[i].Add(a1[i].Scale(h / 2))
	}
	a2 := s.accelerations(p2)

	// k3
	var p3, v3 [3]Vec3
	for i := 0; i < 3; i++ {
		p3[i] = p0[i].Add(v2[i].Scale(h / 2))
		v3[i] = v0[i].Add(a2[i].Scale(h / 2))
	}
	a3 := s.accelerations(p3)

	// k4
	var p4, v4 [3]Vec3
	for i := 0; i < 3; i++ {
		p4[i] = p0[i].Add(v3[i].Scale(h))
		v4[i] = v0[i].Add(a3[i].Scale(h))
	}
	a4 := s.accelerations(p4)

	for i := 0; i < 3; i++ {
		dv := a1[i].Add(a2[i].Scale(2)).Add(a3[i].Scale(2)).Add(a4[i]).Scale(h / 6)
		dp := v0[i].Add(v2[i].Scale(2)).Add(v3[i].Scale(2)).Add(v4[i]).Scale(h / 6)
		s.Bodies[i].Pos = p0[i].Add(dp)
		s.Bodies[i].Vel = v0[i].Add(dv)
	}
}

// totalEnergy - кинетическая плюс потенциальная (со сглаживанием).
// Чистая диагностика: геймплей на нее не завязан.
func (s *State) totalEnergy() float64 {
	e := 0.0
	for _, b := range s.Bodies {
		v := b.Vel.Len()
		e += 0.5 * b.Mass * v * v
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			r := s.Bodies[j].Pos.Sub(s.Bodies[i].Pos).Len()
			e -= gravConst * s.Bodies[i].Mass * s.Bodies[j].Mass /
				math.Sqrt(r*r+softening*softening)
		}
	}
	return e
}
