package systems

import (
	"math"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// Длительности и кулдауны сил (секунды)
const (
	invisDuration = 10.0
	invisCooldown = 20.0

	sprintDuration = 5.0
	sprintCooldown = 15.0

	phaseDuration = 4.0
	phaseCooldown = 18.0

	possessDuration = 6.0
	possessCooldown = 30.0

	oracleDuration = 8.0
	oracleCooldown = 20.0

	morphDuration = 15.0
	morphCooldown = 30.0

	shieldDuration = 6.0
	shieldCooldown = 25.0

	barrierCooldown = 10.0
	barrierCharges  = 2

	blinkCooldown = 12.0
	blinkCharges  = 2
	blinkRange    = 12.0

	sabotageCooldown = 30.0
	sabotageCharges  = 1
)

// PowerContext - состояние комнаты, доступное силам на время вызова
type PowerContext struct {
	Layout  *maze.Layout
	Snap    *domain.MazeSnapshot
	Players map[domain.PlayerToken]*domain.GamePlayerState
	Now     float64

	// Твердые отрезки тика - для валидации телепорта
	Solids []maze.Segment
}

// PowerRequest - параметры активации от клиента
type PowerRequest struct {
	Target domain.PlayerToken
	Aim    *maze.Vec2
	Mode   string // Вариант саботажа: "doors" | "lights" | "oxygen"
}

// PowerDefinition - вариант закрытого перечня сил.
// apply и revert обязаны быть симметричными по мутируемым полям;
// исключения (авто-истекающие эффекты) задокументированы на месте.
type PowerDefinition struct {
	Type       domain.PowerType
	Duration   float64 // 0 - мгновенная сила
	Cooldown   float64
	MaxCharges int // 0 - без зарядов

	apply  func(ctx *PowerContext, p *domain.GamePlayerState, req PowerRequest) bool
	revert func(ctx *PowerContext, p *domain.GamePlayerState)
}

// Реестр заполняется в init: applyMorph сам читает powerDefs при
// копировании чужой силы, и пакетный инициализатор этот цикл не развязал бы.
var powerDefs map[domain.PowerType]PowerDefinition

func init() {
	powerDefs = map[domain.PowerType]PowerDefinition{
		domain.PowerInvisibility: {
			Type: domain.PowerInvisibility, Duration: invisDuration, Cooldown: invisCooldown,
			apply: func(_ *PowerContext, p *domain.GamePlayerState, _ PowerRequest) bool {
				p.Power.PrevVisible = p.Visible
				p.Visible = false
				return true
			},
			revert: func(_ *PowerContext, p *domain.GamePlayerState) {
				p.Visible = p.Power.PrevVisible
			},
		},

		domain.PowerSprint: {
			Type: domain.PowerSprint, Duration: sprintDuration, Cooldown: sprintCooldown,
			apply: func(_ *PowerContext, p *domain.GamePlayerState, _ PowerRequest) bool {
				p.Power.PrevSpeedMult = p.SpeedMult
				p.SpeedMult *= domain.SprintMult
				return true
			},
			revert: func(_ *PowerContext, p *domain.GamePlayerState) {
				p.SpeedMult = p.Power.PrevSpeedMult
			},
		},

		domain.PowerPhase: {
			Type: domain.PowerPhase, Duration: phaseDuration, Cooldown: phaseCooldown,
			apply: func(_ *PowerContext, p *domain.GamePlayerState, _ PowerRequest) bool {
				p.Power.PrevNoClip = p.NoClip
				p.NoClip = true
				return true
			},
			revert: func(_ *PowerContext, p *domain.GamePlayerState) {
				p.NoClip = p.Power.PrevNoClip
			},
		},

		domain.PowerShield: {
			Type: domain.PowerShield, Duration: shieldDuration, Cooldown: shieldCooldown,
			apply: func(_ *PowerContext, p *domain.GamePlayerState, _ PowerRequest) bool {
				p.Power.PrevShielded = p.Shielded
				p.Shielded = true
				return true
			},
			revert: func(_ *PowerContext, p *domain.GamePlayerState) {
				p.Shielded = p.Power.PrevShielded
			},
		},

		domain.PowerBarrier: {
			Type: domain.PowerBarrier, Cooldown: barrierCooldown, MaxCharges: barrierCharges,
			// Барьер не откатывается деактивацией: стена живет до своего
			// ExpiresAt и снимается оркестратором
			apply: applyBarrier,
		},

		domain.PowerBlink: {
			Type: domain.PowerBlink, Cooldown: blinkCooldown, MaxCharges: blinkCharges,
			apply: applyBlink,
		},

		domain.PowerPossession: {
			Type: domain.PowerPossession, Duration: possessDuration, Cooldown: possessCooldown,
			apply: func(ctx *PowerContext, p *domain.GamePlayerState, req PowerRequest) bool {
				tgt, ok := ctx.Players[req.Target]
				if !ok || tgt.Token == p.Token || !tgt.Alive || tgt.Ghost {
					return false
				}
				p.Power.Target = tgt.Token
				return true
			},
			revert: func(_ *PowerContext, p *domain.GamePlayerState) {
				p.Power.Target = ""
			},
		},

		domain.PowerOracle: {
			Type: domain.PowerOracle, Duration: oracleDuration, Cooldown: oracleCooldown,
			apply: func(ctx *PowerContext, p *domain.GamePlayerState, req PowerRequest) bool {
				tgt, ok := ctx.Players[req.Target]
				if !ok || tgt.Token == p.Token {
					return false
				}
				p.Power.Target = tgt.Token
				return true
			},
			revert: func(_ *PowerContext, p *domain.GamePlayerState) {
				p.Power.Target = ""
			},
		},

		domain.PowerMorph: {
			Type: domain.PowerMorph, Cooldown: morphCooldown,
			apply: applyMorph,
		},

		domain.PowerSabotage: {
			Type: domain.PowerSabotage, Cooldown: sabotageCooldown, MaxCharges: sabotageCharges,
			// Замки дверей и отключенные генераторы намеренно НЕ откатываются:
			// они истекают по собственным таймерам
			apply: applySabotage,
		},
	}
}

// Def возвращает определение силы
func Def(t domain.PowerType) (PowerDefinition, bool) {
	d, ok := powerDefs[t]
	return d, ok
}

// InitPower выдает игроку силу с полным боезапасом
func InitPower(p *domain.GamePlayerState, t domain.PowerType) {
	def, ok := powerDefs[t]
	if !ok {
		p.Power = domain.PowerState{Type: domain.PowerNone}
		return
	}
	p.Power = domain.PowerState{
		Type:       t,
		Charges:    def.MaxCharges,
		MaxCharges: def.MaxCharges,
	}
}

// ActivatePower - вход конечного автомата: Idle -> Active или Idle -> эффект.
// Любой отказ молчалив: следующий снапшот покажет неизменное состояние.
func ActivatePower(ctx *PowerContext, p *domain.GamePlayerState, req PowerRequest) bool {
	def, ok := powerDefs[p.Power.Type]
	if !ok || !p.Alive || p.Ghost {
		return false
	}
	if p.Power.Active {
		return false
	}
	if ctx.Now < p.Power.CooldownUntil {
		return false
	}
	if def.MaxCharges > 0 && p.Power.Charges <= 0 {
		return false
	}

	if !def.apply(ctx, p, req) {
		return false
	}

	if p.Power.Type != def.Type {
		// Сила подменила сама себя (трансформация) - бухгалтерия уже внутри apply
		return true
	}

	if def.MaxCharges > 0 {
		p.Power.Charges--
	}
	if def.Duration > 0 {
		p.Power.Active = true
		p.Power.ActivatedAt = ctx.Now
		p.Power.ExpiresAt = ctx.Now + def.Duration
	} else {
		p.Power.CooldownUntil = ctx.Now + def.Cooldown
	}
	return true
}

// DeactivatePower откатывает активную силу и ставит кулдаун
func DeactivatePower(ctx *PowerContext, p *domain.GamePlayerState) {
	if !p.Power.Active {
		return
	}
	def, ok := powerDefs[p.Power.Type]
	if ok && def.revert != nil {
		def.revert(ctx, p)
	}
	p.Power.Active = false
	p.Power.ExpiresAt = 0
	p.Power.CooldownUntil = ctx.Now + def.Cooldown
}

// TickPowers - пер-тиковое обслуживание: истечения, часы трансформации,
// перезарядка по одному заряду за кулдаун
func TickPowers(ctx *PowerContext, players map[domain.PlayerToken]*domain.GamePlayerState) {
	for _, p := range players {
		if p.Power.Active && ctx.Now >= p.Power.ExpiresAt {
			DeactivatePower(ctx, p)
		}

		// Часы трансформации независимы от скопированной силы
		if p.Power.Morph != nil && ctx.Now >= p.Power.Morph.OwnExpiresAt {
			revertMorph(ctx, p)
		}

		def, ok := powerDefs[p.Power.Type]
		if ok && !p.Power.Active && def.MaxCharges > 0 &&
			p.Power.Charges < p.Power.MaxCharges && ctx.Now >= p.Power.CooldownUntil {
			p.Power.Charges++
			p.Power.CooldownUntil = ctx.Now + def.Cooldown
		}
	}
}

// applyBarrier ставит временную стену перпендикулярно взгляду владельца
func applyBarrier(ctx *PowerContext, p *domain.GamePlayerState, _ PowerRequest) bool {
	sin, cos := math.Sincos(p.Yaw)
	forward := maze.Vec2{X: cos, Y: sin}
	perp := maze.Vec2{X: -sin, Y: cos}

	center := p.Pos.Add(forward.Scale(domain.BarrierOffset + domain.PlayerRadius))
	half := perp.Scale(domain.BarrierLength / 2)

	ctx.Snap.Barriers[p.Token] = &domain.BarrierWall{
		ID:        "barrier_" + p.Token.String(),
		Owner:     p.Token,
		Seg:       maze.Segment{A: center.Sub(half), B: center.Add(half)},
		ExpiresAt: ctx.Now + domain.BarrierDuration,
	}
	return true
}

// applyBlink - мгновенный перенос в точку прицеливания
func applyBlink(ctx *PowerContext, p *domain.GamePlayerState, req PowerRequest) bool {
	if req.Aim == nil {
		return false
	}
	aim := *req.Aim
	if p.Pos.DistanceTo(aim) > blinkRange {
		return false
	}
	world := float64(maze.GridSize) * maze.CellSize
	if aim.X < domain.PlayerRadius || aim.Y < domain.PlayerRadius ||
		aim.X > world-domain.PlayerRadius || aim.Y > world-domain.PlayerRadius {
		return false
	}
	for _, s := range ctx.Solids {
		if DistancePointSegment(aim, s.A, s.B) < domain.PlayerRadius {
			return false
		}
	}
	p.Pos = aim
	return true
}

// applyMorph подменяет личность и силу на чужие.
// Собственные часы трансформации тикают независимо от скопированной силы.
func applyMorph(ctx *PowerContext, p *domain.GamePlayerState, req PowerRequest) bool {
	tgt, ok := ctx.Players[req.Target]
	if !ok || tgt.Token == p.Token || !tgt.Alive || tgt.Ghost {
		return false
	}
	if tgt.Power.Type == domain.PowerMorph {
		return false // Трансформация в трансформатора запрещена
	}

	copied, ok := powerDefs[tgt.Power.Type]
	if !ok {
		return false
	}

	p.Power.Morph = &domain.MorphBackup{
		Name:          p.Name,
		Power:         domain.PowerMorph,
		Charges:       p.Power.Charges,
		MaxCharges:    p.Power.MaxCharges,
		CooldownUntil: ctx.Now + morphCooldown,
		OwnExpiresAt:  ctx.Now + morphDuration,
	}

	p.Name = tgt.Name
	p.Power.Type = copied.Type
	p.Power.CopiedType = copied.Type
	p.Power.Charges = copied.MaxCharges
	p.Power.MaxCharges = copied.MaxCharges
	p.Power.CooldownUntil = 0
	return true
}

// revertMorph возвращает исходную личность.
// Активная скопированная сила сперва честно откатывается.
func revertMorph(ctx *PowerContext, p *domain.GamePlayerState) {
	m := p.Power.Morph
	if m == nil {
		return
	}
	if p.Power.Active {
		DeactivatePower(ctx, p)
	}

	p.Name = m.Name
	p.Power.Type = m.Power
	p.Power.Charges = m.Charges
	p.Power.MaxCharges = m.MaxCharges
	p.Power.CooldownUntil = m.CooldownUntil
	p.Power.CopiedType = domain.PowerNone
	p.Power.Target = ""
	p.Power.Morph = nil
}

// applySabotage - пучок мутаций мира по выбранному режиму.
// Эффекты не обратимы через revert: каждый истекает сам.
func applySabotage(ctx *PowerContext, p *domain.GamePlayerState, req PowerRequest) bool {
	switch req.Mode {
	case "lights":
		for id := range ctx.Snap.Lights {
			ctx.Snap.Lights[id] = false
		}
		ctx.Snap.LightsRestoreAt = ctx.Now + domain.SabotageLockDuration

	case "oxygen":
		ctx.Snap.OxygenSabotaged = true
		for _, g := range ctx.Layout.Generators {
			ctx.Snap.GeneratorDisabledUntil[g.ID] = ctx.Now + domain.GeneratorDisableTime
		}

	default: // "doors"
		for _, d := range ctx.Layout.Doors {
			ctx.Snap.DoorOpen[d.ID] = false
			ctx.Snap.DoorLocked[d.ID] = true
			ctx.Snap.DoorLockedAt[d.ID] = ctx.Now
			ctx.Snap.DoorLockExpiry[d.ID] = ctx.Now + domain.SabotageLockDuration
		}
		// Герметизация запирает и люки труб: под землей не отсидеться
		for _, n := range ctx.Layout.Pipes.Nodes {
			ctx.Snap.PipeLocked[n.ID] = true
		}
		ctx.Snap.PipesRestoreAt = ctx.Now + domain.SabotageLockDuration
	}
	return true
}
