package actions

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/systems"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
)

// HandleOxygen запускает заправку кислорода: у названного генератора,
// либо у ближайшего, если клиент его не указал.
// Завершение и срыв заправки отслеживает кислородная подсистема.
func HandleOxygen(ctx handlers.Context, p api.OxygenPayload) (handlers.Result, error) {
	octx := &systems.OxygenContext{
		Layout:  ctx.Layout,
		Snap:    ctx.Snap,
		Players: ctx.Players,
		Now:     ctx.Now,
	}
	if !systems.StartOxygenRefill(octx, ctx.Actor, p.GeneratorID) {
		return handlers.Rejected("no_generator"), nil
	}
	return handlers.EmptyResult(), nil
}
