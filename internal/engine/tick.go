package engine

import (
	"math"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/systems"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// Цикл динамических стен: фаза каждой стены задается ее PhaseSeed,
// поэтому рисунок открытий детерминирован сидом уровня
const (
	dynPeriod  = 12.0
	dynOpenFor = 5.0
)

// Сколько секунд после победы комната еще рассылает финальный снапшот
const winLinger = 5.0

// step - один тик конвейера матча. Порядок стадий фиксирован:
// сброс флагов, эра, небо, стены, истечения, силы, ввод,
// опасности, кислород, победа, рассылка.
func (r *Room) step(dt float64) {
	r.Tick++
	r.Elapsed += dt
	now := r.Elapsed

	for _, p := range r.Players {
		p.ResetTickFlags()
	}

	phase := systems.CurrentPhase(now)
	if phase.Era != r.prevEra {
		r.prevEra = phase.Era
		r.addEvent("ERA", phase.Description)
	}

	r.Sun.Advance(dt)

	r.refreshDynamicWalls(now)
	r.expireEffects(now)

	surface := systems.BuildCollisionContext(r.Layout, r.Snap, false)
	tunnels := systems.BuildCollisionContext(r.Layout, r.Snap, true)

	pctx := &systems.PowerContext{
		Layout:  r.Layout,
		Snap:    r.Snap,
		Players: r.Players,
		Now:     now,
		Solids:  surface.Segments,
	}
	systems.TickPowers(pctx, r.Players)

	r.applyInputs(phase, surface, tunnels, dt)

	for _, p := range r.Players {
		p.SamplePosition(now)
	}

	hctx := &systems.HazardContext{
		Layout: r.Layout,
		Snap:   r.Snap,
		Sun:    r.Sun,
		Phase:  phase,
		Now:    now,
		Dt:     dt,
		Solids: surface.Segments,
	}
	systems.ApplyHazards(hctx, r.Players, r.onDeath)

	r.reportCorpses()

	systems.TickOxygen(&systems.OxygenContext{
		Layout:  r.Layout,
		Snap:    r.Snap,
		Players: r.Players,
		Now:     now,
		Dt:      dt,
	})

	r.checkWin()

	r.publishUpdate(phase)

	// Оконченный матч еще winLinger секунд рассылает финальное состояние,
	// затем комната гасится и выписывается из реестра сервиса
	if r.Winner != "" {
		if r.endedAt == 0 {
			r.endedAt = now
		}
		if now-r.endedAt >= winLinger {
			r.Service.dropRoom(r)
			r.Stop()
		}
	}
}

// refreshDynamicWalls пересчитывает открытость дышащих стен.
// Чистая функция времени: состояние не накапливается.
func (r *Room) refreshDynamicWalls(now float64) {
	for _, ws := range r.Layout.Segments {
		if ws.Kind != maze.SegmentDynamic {
			continue
		}
		offset := float64(((ws.PhaseSeed%1000)+1000)%1000) / 1000.0 * dynPeriod
		r.Snap.DynamicOpen[ws.ID] = math.Mod(now+offset, dynPeriod) < dynOpenFor
	}
}

// expireEffects снимает отжившие таймеры: барьеры, замки, люки, свет.
// Ручные замки дверей живут без срока и сюда не попадают.
func (r *Room) expireEffects(now float64) {
	for token, b := range r.Snap.Barriers {
		if now >= b.ExpiresAt {
			delete(r.Snap.Barriers, token)
		}
	}

	for id, locked := range r.Snap.DoorLocked {
		exp, timed := r.Snap.DoorLockExpiry[id]
		if locked && timed && now >= exp {
			r.Snap.DoorLocked[id] = false
			r.Snap.DoorOpen[id] = true
			delete(r.Snap.DoorLockExpiry, id)
			delete(r.Snap.DoorLockedAt, id)
		}
	}

	if r.Snap.PipesRestoreAt > 0 && now >= r.Snap.PipesRestoreAt {
		for id := range r.Snap.PipeLocked {
			r.Snap.PipeLocked[id] = false
		}
		r.Snap.PipesRestoreAt = 0
	}

	if r.Snap.LightsRestoreAt > 0 && now >= r.Snap.LightsRestoreAt {
		for id := range r.Snap.Lights {
			r.Snap.Lights[id] = true
		}
		r.Snap.LightsRestoreAt = 0
	}
}

// applyInputs сливает очереди ввода в геометрию.
// Одержимость перенаправляет ввод владельца в тело цели,
// собственный ввод одержимого при этом отбрасывается.
func (r *Room) applyInputs(phase systems.Phase, surface, tunnels *systems.CollisionContext, dt float64) {
	bodyFor := make(map[domain.PlayerToken]*domain.GamePlayerState)
	possessed := make(map[domain.PlayerToken]bool)

	for _, p := range r.Players {
		if p.Power.Active && p.Power.Type == domain.PowerPossession && p.Power.Target != "" {
			if t, ok := r.Players[p.Power.Target]; ok && t.Alive && !t.Ghost {
				bodyFor[p.Token] = t
				possessed[t.Token] = true
			}
		}
	}

	eraFactor := systems.EraSpeedFactor(phase)

	for _, p := range r.Players {
		inputs := p.DrainInputs()
		if possessed[p.Token] {
			continue
		}

		body := p
		if b, ok := bodyFor[p.Token]; ok {
			body = b
		}

		var ctx *systems.CollisionContext
		switch {
		case body.NoClip:
			ctx = nil
		case body.Underground:
			ctx = tunnels
		default:
			ctx = surface
		}

		speed := domain.BaseSpeed * body.SpeedMult * eraFactor

		for _, in := range inputs {
			body.Pos = systems.ResolveMove(body.Pos, in, dt, speed, ctx)
			body.Yaw = in.Yaw
			if in.Seq > p.LastSeq {
				p.LastSeq = in.Seq
			}
		}
	}
}

// checkWin фиксирует исход матча. Первый сработавший критерий финален.
func (r *Room) checkWin() {
	if r.Winner != "" || len(r.Players) == 0 {
		return
	}

	crewAlive, shadowAlive, shadowsEver := 0, 0, 0
	for _, p := range r.Players {
		if p.Role == domain.RoleShadow {
			shadowsEver++
			if p.Alive {
				shadowAlive++
			}
		} else if p.Alive {
			crewAlive++
		}
	}

	allDone := len(r.Snap.Tasks) > 0
	for _, prog := range r.Snap.Tasks {
		if prog.Status != domain.TaskCompleted {
			allDone = false
			break
		}
	}

	switch {
	case allDone:
		r.Winner = "CREW"
		r.addEvent("WIN", "All tasks complete: the crew prevails")
	case shadowsEver > 0 && shadowAlive == 0:
		r.Winner = "CREW"
		r.addEvent("WIN", "The shadows are gone: the crew prevails")
	case shadowsEver > 0 && shadowAlive >= crewAlive:
		r.Winner = "SHADOW"
		r.addEvent("WIN", "The shadows outnumber the living")
	}
}
