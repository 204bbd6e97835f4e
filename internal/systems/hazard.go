package systems

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/sunsim"
)

// Длина 2D-луча к солнцу для латеральной проверки.
// Больше диагонали карты - этого достаточно.
const sunRayLength = 150.0

// HazardContext - все, что нужно движку опасностей на один тик
type HazardContext struct {
	Layout *maze.Layout
	Snap   *domain.MazeSnapshot
	Sun    *sunsim.State
	Phase  Phase
	Now    float64
	Dt     float64

	// Твердые отрезки тика: статика + закрытые динамические/двери + барьеры.
	// Тот же набор, что у резолвера движения.
	Solids []maze.Segment
}

// ApplyHazards прогоняет урон окружения по всем живым игрокам.
// onDeath вызывается ровно один раз на погибшего.
func ApplyHazards(ctx *HazardContext, players map[domain.PlayerToken]*domain.GamePlayerState, onDeath func(*domain.GamePlayerState)) {
	for _, p := range players {
		if !p.Alive || p.Ghost {
			continue
		}

		sheltered, doorProtected := ComputeShelter(ctx.Layout, ctx.Snap, p)
		p.Sheltered = sheltered
		p.DoorProtected = doorProtected

		damage := 0.0

		// Щит блокирует весь урон, включая удушье
		if !p.Shielded {
			// Под землей нет ни солнц, ни огня
			if !sheltered && !p.Underground {
				switch ctx.Phase.Era {
				case EraHot:
					damage += domain.HeatAmbientRate * ctx.Dt
					if exp := exposureFraction(ctx, p.Pos); exp > 0 {
						damage += domain.HeatDirectRate * exp * ctx.Dt
					}
					p.TagDamage(domain.DamageHeat)
				case EraFrozen:
					damage += domain.ColdRate * ctx.Dt
					p.TagDamage(domain.DamageCold)
				case EraGravity:
					damage += domain.TidalRate * ctx.Dt
					p.TagDamage(domain.DamageTidal)
				}

				if fireNearby(ctx.Layout, p.Pos) {
					damage += domain.FireRate * ctx.Dt
					p.TagDamage(domain.DamageFire)
				}
			}

			// Удушье пробивает укрытие: воздух кончается везде
			if suffocating(ctx, p) {
				damage += domain.SuffocateRate * ctx.Dt
				p.TagDamage(domain.DamageSuffocate)
			}
		}

		if damage > 0 {
			p.HP -= damage
		}

		// Лечение: только в спокойную эру и только без урона в этом тике
		if ctx.Phase.Era == EraCalm && !p.DamagedThisTick && p.HP < domain.MaxHP {
			p.HP += domain.HealRate * ctx.Dt
			if p.HP > domain.MaxHP {
				p.HP = domain.MaxHP
			}
		}

		if p.HP <= 0 {
			p.HP = 0
			p.Alive = false
			p.Ghost = true
			p.NoClip = true
			onDeath(p)
		}
	}
}

// ComputeShelter: полностью закрытая дверью комната или всегда-безопасная зона
func ComputeShelter(l *maze.Layout, snap *domain.MazeSnapshot, p *domain.GamePlayerState) (sheltered, doorProtected bool) {
	for _, z := range l.Shelters {
		if p.Pos.DistanceTo(z.Center) <= z.Radius {
			return true, false
		}
	}

	room := l.RoomAt(p.Pos)
	if room == nil || room.DoorID == "" {
		return false, false
	}
	if !snap.DoorPassable(room.DoorID) {
		return true, true
	}
	return false, false
}

// exposureFraction - доля солнц, которые реально жгут игрока.
// Над головой блокирует только укрытие (а укрытых сюда не пускают),
// сбоку - любой твердый отрезок на 2D-луче к солнцу.
func exposureFraction(ctx *HazardContext, pos maze.Vec2) float64 {
	visible := 0
	for _, sky := range ctx.Sun.Sky {
		if !sky.Visible {
			continue
		}
		if sky.Elevation > domain.OverheadElevation {
			visible++
			continue
		}
		// Латеральный луч: горизонтальная проекция направления на солнце
		dir := maze.Vec2{X: sky.Dir.X, Y: sky.Dir.Y}
		n := dir.Len()
		if n < 1e-9 {
			continue
		}
		to := pos.Add(dir.Scale(sunRayLength / n))
		if !RayBlocked(pos, to, ctx.Solids) {
			visible++
		}
	}
	return float64(visible) / 3.0
}

// fireNearby: горящий реквизит в радиусе поражения
func fireNearby(l *maze.Layout, pos maze.Vec2) bool {
	for _, d := range l.Decorations {
		if d.Kind == "fire" && pos.DistanceTo(d.Pos) < domain.FireRadius {
			return true
		}
	}
	return false
}

// suffocating: корабельный кислород на нуле или выдохлась своя комната
func suffocating(ctx *HazardContext, p *domain.GamePlayerState) bool {
	if ctx.Snap.ShipOxygen <= 0 {
		return true
	}
	if room := ctx.Layout.RoomAt(p.Pos); room != nil {
		if o2, ok := ctx.Snap.RoomOxygen[room.ID]; ok && o2 <= 0 {
			return true
		}
	}
	return false
}
