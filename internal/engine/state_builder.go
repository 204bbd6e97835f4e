package engine

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/systems"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/sunsim"
)

// publishUpdate рассылает персональные снапшоты всем подключенным.
// Лента событий чистится ПОСЛЕ рассылки: каждый тик уносит свои события.
func (r *Room) publishUpdate(phase systems.Phase) {
	for token, p := range r.Players {
		if !r.Service.Hub.HasSubscriber(token) {
			continue
		}
		resp := r.buildStateFor(p, phase)
		if r.pendingInit[token] {
			resp.Type = "INIT"
			resp.Layout = r.layoutJSON
			delete(r.pendingInit, token)
		}
		r.Service.Hub.SendTo(token, *resp)
	}
	r.events = nil
}

// buildStateFor создает персональный слепок мира для наблюдателя.
// DTO не делит память с живым состоянием: маршалинг идет в горутине
// соединения, любая общая мапа была бы гонкой.
func (r *Room) buildStateFor(observer *domain.GamePlayerState, phase systems.Phase) *api.ServerResponse {
	resp := &api.ServerResponse{
		Type:    "UPDATE",
		Tick:    r.Tick,
		Elapsed: r.Elapsed,
		MyToken: observer.Token.String(),
		Winner:  r.Winner,
		Era: &api.EraView{
			Name:        phase.Era.String(),
			Description: phase.Description,
			Gravity:     phase.Gravity,
			TimeLeft:    systems.PhaseRemaining(r.Elapsed),
		},
		Sky:  r.buildSky(),
		Maze: r.buildMazeView(),
	}

	// Призраки видят всех; живые - только свой слой и только видимых
	for _, p := range r.Players {
		isMe := p.Token == observer.Token
		if !isMe && !observer.Ghost {
			if !p.Visible {
				continue
			}
			if p.Underground != observer.Underground {
				continue
			}
		}
		resp.Players = append(resp.Players, r.toPlayerView(p, observer))
	}

	// Найденные трупы из рассылки уходят
	for _, c := range r.corpses {
		if c.Reported {
			continue
		}
		resp.Corpses = append(resp.Corpses, api.CorpseView{
			Token: c.Token.String(),
			Name:  c.Name,
			Pos:   api.Vec2View{X: c.Pos.X, Y: c.Pos.Y},
		})
	}

	resp.Events = append(resp.Events, r.events...)

	return resp
}

func (r *Room) buildSky() []api.SunView {
	a, b := -1, -1
	if r.Sun.BinaryPair >= 0 {
		a, b = sunsim.PairBodies(r.Sun.BinaryPair)
	}

	sky := make([]api.SunView, 0, len(r.Sun.Sky))
	for i, s := range r.Sun.Sky {
		sky = append(sky, api.SunView{
			Azimuth:   s.Azimuth,
			Elevation: s.Elevation,
			Visible:   s.Visible,
			Binary:    i == a || i == b,
			Ejected:   r.Sun.Ejected && i == r.Sun.EjectedBody,
		})
	}
	return sky
}

func (r *Room) buildMazeView() *api.MazeView {
	mv := &api.MazeView{
		DoorOpen:        make(map[string]bool, len(r.Snap.DoorOpen)),
		DoorLocked:      make(map[string]bool, len(r.Snap.DoorLocked)),
		Lights:          make(map[string]bool, len(r.Snap.Lights)),
		DynamicOpen:     make(map[string]bool, len(r.Snap.DynamicOpen)),
		Tasks:           make(map[string]api.TaskView, len(r.Snap.Tasks)),
		ShipOxygen:      r.Snap.ShipOxygen,
		OxygenSabotaged: r.Snap.OxygenSabotaged,
	}

	for id, v := range r.Snap.DoorOpen {
		mv.DoorOpen[id] = v
	}
	for id, v := range r.Snap.DoorLocked {
		if v {
			mv.DoorLocked[id] = true
		}
	}
	for id, v := range r.Snap.Lights {
		mv.Lights[id] = v
	}
	for id, v := range r.Snap.DynamicOpen {
		mv.DynamicOpen[id] = v
	}
	for id, prog := range r.Snap.Tasks {
		mv.Tasks[id] = api.TaskView{
			Status: string(prog.Status),
			Holder: prog.Holder.String(),
		}
	}
	for _, b := range r.Snap.Barriers {
		mv.Barriers = append(mv.Barriers, api.BarrierView{
			ID:        b.ID,
			A:         api.Vec2View{X: b.Seg.A.X, Y: b.Seg.A.Y},
			B:         api.Vec2View{X: b.Seg.B.X, Y: b.Seg.B.Y},
			ExpiresIn: b.ExpiresAt - r.Elapsed,
		})
	}

	return mv
}

// toPlayerView конвертирует игрока в DTO с учетом прав наблюдателя
func (r *Room) toPlayerView(p, observer *domain.GamePlayerState) api.PlayerView {
	isMe := p.Token == observer.Token

	view := api.PlayerView{
		Token:       p.Token.String(),
		Name:        p.Name,
		Pos:         api.Vec2View{X: p.Pos.X, Y: p.Pos.Y},
		Yaw:         p.Yaw,
		HP:          p.HP,
		Alive:       p.Alive,
		Ghost:       p.Ghost,
		Underground: p.Underground,
		Sheltered:   p.Sheltered,
		Refilling:   p.RefillingGen != "",
	}

	// Роль видят: сам игрок, сородичи-тени, призраки
	sameSide := observer.Role == domain.RoleShadow && p.Role == domain.RoleShadow
	if isMe || sameSide || observer.Ghost {
		view.Role = p.Role.String()
	}

	if isMe {
		view.LastSeq = p.LastSeq
		view.Power = r.toPowerView(p)
	}

	// След позиций цели - только владельцу активного предвидения
	if observer.Power.Active && observer.Power.Type == domain.PowerOracle &&
		observer.Power.Target == p.Token {
		for _, h := range p.History {
			view.History = append(view.History, api.HistoryView{
				At:  h.At,
				Pos: api.Vec2View{X: h.Pos.X, Y: h.Pos.Y},
			})
		}
	}

	return view
}

func (r *Room) toPowerView(p *domain.GamePlayerState) *api.PowerView {
	pv := &api.PowerView{
		Type:       p.Power.Type.String(),
		Active:     p.Power.Active,
		Charges:    p.Power.Charges,
		MaxCharges: p.Power.MaxCharges,
	}
	if p.Power.CooldownUntil > r.Elapsed {
		pv.CooldownLeft = p.Power.CooldownUntil - r.Elapsed
	}
	if p.Power.Active && p.Power.ExpiresAt > r.Elapsed {
		pv.ActiveLeft = p.Power.ExpiresAt - r.Elapsed
	}
	if p.Power.Morph != nil {
		pv.CopiedType = p.Power.CopiedType.String()
	}
	return pv
}
