package systems

import (
	"math"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// SegmentsIntersect - параметрическое пересечение отрезков p1p2 и q1q2.
// Быстрый выход по ограничивающим прямоугольникам до деления.
func SegmentsIntersect(p1, p2, q1, q2 maze.Vec2) bool {
	// Bounding box reject
	if math.Max(p1.X, p2.X) < math.Min(q1.X, q2.X) ||
		math.Max(q1.X, q2.X) < math.Min(p1.X, p2.X) ||
		math.Max(p1.Y, p2.Y) < math.Min(q1.Y, q2.Y) ||
		math.Max(q1.Y, q2.Y) < math.Min(p1.Y, p2.Y) {
		return false
	}

	d := p2.Sub(p1)
	e := q2.Sub(q1)
	denom := d.X*e.Y - d.Y*e.X
	if math.Abs(denom) < 1e-12 {
		return false // Параллельные - для лучей видимости считаем промахом
	}

	w := q1.Sub(p1)
	t := (w.X*e.Y - w.Y*e.X) / denom
	u := (w.X*d.Y - w.Y*d.X) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// RayBlocked: есть ли стена между двумя точками
func RayBlocked(from, to maze.Vec2, solids []maze.Segment) bool {
	for _, s := range solids {
		if SegmentsIntersect(from, to, s.A, s.B) {
			return true
		}
	}
	return false
}

// DistancePointSegment - расстояние от точки до отрезка
func DistancePointSegment(p, a, b maze.Vec2) float64 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	len2 := ab.X*ab.X + ab.Y*ab.Y
	if len2 < 1e-12 {
		return ap.Len()
	}
	t := (ap.X*ab.X + ap.Y*ab.Y) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return p.Sub(closest).Len()
}
