package actions

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
)

// HandleInit просит приложить неизменяемый уровень к следующему
// персональному снапшоту. Сам уровень уходит в ленте тиков.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	ctx.MarkInit(ctx.Actor.Token)
	return handlers.EmptyResult(), nil
}
