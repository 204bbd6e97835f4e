package actions

import (
	"fmt"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
)

// HandleKill - атака теневой роли. Мгновенно смертельна,
// если цель в радиусе и ничем не защищена.
func HandleKill(ctx handlers.Context, p api.KillPayload) (handlers.Result, error) {
	actor := ctx.Actor
	if actor.Role != domain.RoleShadow {
		return handlers.Rejected("wrong_role"), nil
	}
	if !actor.Alive || actor.Ghost {
		return handlers.Rejected("dead"), nil
	}
	if ctx.Now < actor.KillReadyAt {
		return handlers.Rejected("cooldown"), nil
	}

	target, ok := ctx.Players[domain.PlayerToken(p.TargetID)]
	if !ok || target.Token == actor.Token {
		return handlers.Rejected("unknown_target"), nil
	}
	if !target.Alive || target.Ghost || target.Role == domain.RoleShadow {
		return handlers.Rejected("invalid_target"), nil
	}
	if target.Underground != actor.Underground {
		return handlers.Rejected("out_of_range"), nil
	}
	if actor.Pos.DistanceTo(target.Pos) > domain.KillRange {
		return handlers.Rejected("out_of_range"), nil
	}
	if target.Shielded {
		return handlers.Rejected("shielded"), nil
	}

	target.HP = 0
	target.Alive = false
	target.Ghost = true
	target.NoClip = true
	target.TagDamage(domain.DamageKill)
	actor.KillReadyAt = ctx.Now + domain.KillCooldown

	ctx.OnDeath(target)

	return handlers.Result{
		Msg:     fmt.Sprintf("%s was struck down", target.Name),
		MsgType: "KILL",
	}, nil
}
