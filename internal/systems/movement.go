package systems

import (
	"math"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// Максимальный dt одного ввода. Клиент может заявить что угодно,
// сервер обрезает, иначе один пакет телепортирует игрока.
const maxInputDt = 0.1

// CollisionContext - твердые отрезки текущего тика.
// Собирается заново каждый тик из Layout + снапшота: динамические стены
// и двери фильтруются по состоянию, плюс живые барьеры.
type CollisionContext struct {
	Segments []maze.Segment
}

// BuildCollisionContext собирает контекст для надземного или подземного слоя
func BuildCollisionContext(l *maze.Layout, snap *domain.MazeSnapshot, underground bool) *CollisionContext {
	ctx := &CollisionContext{}

	if underground {
		ctx.Segments = append(ctx.Segments, l.Pipes.Walls...)
		return ctx
	}

	for _, ws := range l.Segments {
		switch ws.Kind {
		case maze.SegmentStatic, maze.SegmentPillar:
			ctx.Segments = append(ctx.Segments, ws.Seg)
		case maze.SegmentDynamic:
			if !snap.DynamicOpen[ws.ID] {
				ctx.Segments = append(ctx.Segments, ws.Seg)
			}
		case maze.SegmentDoor:
			if !snap.DoorPassable(ws.DoorID) {
				ctx.Segments = append(ctx.Segments, ws.Seg)
			}
		}
	}

	for _, b := range snap.Barriers {
		ctx.Segments = append(ctx.Segments, b.Seg)
	}

	return ctx
}

// ResolveMove применяет одно намерение движения и возвращает
// непроникающую позицию. ctx == nil - игрок освобожден от коллизий
// (призрак или активная бестелесность).
func ResolveMove(pos maze.Vec2, in domain.MoveInput, dt, speed float64, ctx *CollisionContext) maze.Vec2 {
	if in.Dt > 0 && in.Dt < dt {
		dt = in.Dt
	}
	if dt > maxInputDt {
		dt = maxInputDt
	}

	// Намерение в локальных осях взгляда
	forward := 0.0
	strafe := 0.0
	if in.Up {
		forward++
	}
	if in.Down {
		forward--
	}
	if in.Right {
		strafe++
	}
	if in.Left {
		strafe--
	}
	if forward == 0 && strafe == 0 {
		return pos
	}

	sin, cos := math.Sincos(in.Yaw)
	dir := maze.Vec2{
		X: forward*cos - strafe*sin,
		Y: forward*sin + strafe*cos,
	}
	norm := dir.Len()
	dir = dir.Scale(1 / norm)

	delta := dir.Scale(speed * dt)

	if ctx == nil {
		return pos.Add(delta)
	}

	// Скольжение по осям: X и Y пробуются независимо,
	// упор в стену по одной оси не гасит движение по другой
	next := pos
	tryX := maze.Vec2{X: next.X + delta.X, Y: next.Y}
	if !circleHitsAny(tryX, domain.PlayerRadius, ctx.Segments) {
		next = tryX
	}
	tryY := maze.Vec2{X: next.X, Y: next.Y + delta.Y}
	if !circleHitsAny(tryY, domain.PlayerRadius, ctx.Segments) {
		next = tryY
	}
	return next
}

// circleHitsAny: окружность игрока против набора отрезков
func circleHitsAny(p maze.Vec2, r float64, segs []maze.Segment) bool {
	for _, s := range segs {
		if DistancePointSegment(p, s.A, s.B) < r {
			return true
		}
	}
	return false
}
