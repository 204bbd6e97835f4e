package actions

import (
	"fmt"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/systems"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// HandlePowerOn активирует силу актора.
// Вся машинерия (кулдауны, заряды, apply) внутри systems.ActivatePower.
func HandlePowerOn(ctx handlers.Context, p api.PowerPayload) (handlers.Result, error) {
	pctx := &systems.PowerContext{
		Layout:  ctx.Layout,
		Snap:    ctx.Snap,
		Players: ctx.Players,
		Now:     ctx.Now,
		Solids:  ctx.Solids,
	}
	req := systems.PowerRequest{
		Target: domain.PlayerToken(p.TargetID),
		Mode:   p.Mode,
	}
	if p.Aim != nil {
		req.Aim = &maze.Vec2{X: p.Aim.X, Y: p.Aim.Y}
	}

	if !systems.ActivatePower(pctx, ctx.Actor, req) {
		return handlers.Rejected("power_rejected"), nil
	}

	if ctx.Actor.Power.Type == domain.PowerSabotage ||
		ctx.Actor.Power.CopiedType == domain.PowerSabotage {
		return handlers.Result{
			Msg:     fmt.Sprintf("Sabotage: %s", sabotageLabel(p.Mode)),
			MsgType: "SABOTAGE",
		}, nil
	}
	return handlers.EmptyResult(), nil
}

// HandlePowerOff досрочно снимает длящуюся силу
func HandlePowerOff(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Actor.Power.Active {
		return handlers.Rejected("not_active"), nil
	}
	pctx := &systems.PowerContext{
		Layout:  ctx.Layout,
		Snap:    ctx.Snap,
		Players: ctx.Players,
		Now:     ctx.Now,
	}
	systems.DeactivatePower(pctx, ctx.Actor)
	return handlers.EmptyResult(), nil
}

func sabotageLabel(mode string) string {
	switch mode {
	case "lights":
		return "lights are out"
	case "oxygen":
		return "oxygen is draining"
	default:
		return "doors are sealed"
	}
}
