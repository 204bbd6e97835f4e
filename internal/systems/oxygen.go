package systems

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// Скорость восстановления комнатного кислорода при открытой двери
const roomOxygenRecover = 8.0

// OxygenContext - вход кислородной подсистемы на один тик
type OxygenContext struct {
	Layout  *maze.Layout
	Snap    *domain.MazeSnapshot
	Players map[domain.PlayerToken]*domain.GamePlayerState
	Now     float64
	Dt      float64
}

// TickOxygen продвигает корабельный и покомнатный кислород.
// Порядок фиксирован: дренаж саботажа, затем заправки, затем комнаты.
func TickOxygen(ctx *OxygenContext) {
	snap := ctx.Snap

	if snap.OxygenSabotaged {
		snap.ShipOxygen -= domain.OxygenDepleteRate * ctx.Dt
		if snap.ShipOxygen < 0 {
			snap.ShipOxygen = 0
		}
	}

	for _, p := range ctx.Players {
		if p.RefillingGen == "" {
			continue
		}
		gen := generatorByID(ctx.Layout, p.RefillingGen)
		// Заправка рвется: смертью, уходом из зоны, отключением генератора
		if gen == nil || !p.Alive || p.Ghost ||
			p.Pos.DistanceTo(gen.Pos) > domain.InteractRange ||
			snap.GeneratorDisabledUntil[gen.ID] > ctx.Now {
			p.RefillingGen = ""
			p.RefillDoneAt = 0
			continue
		}
		if ctx.Now >= p.RefillDoneAt {
			snap.ShipOxygen += domain.OxygenRefillGain
			if snap.ShipOxygen > domain.ShipOxygenMax {
				snap.ShipOxygen = domain.ShipOxygenMax
			}
			snap.OxygenSabotaged = false
			p.RefillingGen = ""
			p.RefillDoneAt = 0
		}
	}

	// Герметичная комната выдыхается, открытая - проветривается
	for _, r := range ctx.Layout.Rooms {
		o2, ok := snap.RoomOxygen[r.ID]
		if !ok {
			continue
		}
		sealed := r.DoorID != "" && !snap.DoorPassable(r.DoorID)
		if sealed {
			o2 -= domain.OxygenDepleteRate * ctx.Dt
			if o2 < 0 {
				o2 = 0
			}
		} else if o2 < domain.ShipOxygenMax {
			o2 += roomOxygenRecover * ctx.Dt
			if o2 > domain.ShipOxygenMax {
				o2 = domain.ShipOxygenMax
			}
		}
		snap.RoomOxygen[r.ID] = o2
	}
}

// StartOxygenRefill запускает заправку у генератора genID; пустой genID
// означает ближайший доступный. false - генератор недосягаем, отключен
// или игрок уже занят.
func StartOxygenRefill(ctx *OxygenContext, p *domain.GamePlayerState, genID string) bool {
	if !p.Alive || p.Ghost || p.RefillingGen != "" {
		return false
	}
	for i := range ctx.Layout.Generators {
		g := &ctx.Layout.Generators[i]
		if genID != "" && g.ID != genID {
			continue
		}
		if p.Pos.DistanceTo(g.Pos) > domain.InteractRange {
			continue
		}
		if ctx.Snap.GeneratorDisabledUntil[g.ID] > ctx.Now {
			continue
		}
		p.RefillingGen = g.ID
		p.RefillDoneAt = ctx.Now + domain.OxygenRefillTime
		return true
	}
	return false
}

func generatorByID(l *maze.Layout, id string) *maze.OxygenGenerator {
	for i := range l.Generators {
		if l.Generators[i].ID == id {
			return &l.Generators[i]
		}
	}
	return nil
}
