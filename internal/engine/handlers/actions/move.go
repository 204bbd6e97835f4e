package actions

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
)

// HandleMove кладет намерение движения в очередь актора.
// Сама геометрия применяется конвейером тика: хендлер только принимает ввод.
func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	// Устаревший ввод: клиент переслал старый пакет после реконнекта
	if p.Seq != 0 && p.Seq <= ctx.Actor.LastSeq {
		return handlers.Rejected("stale_seq"), nil
	}

	ctx.Actor.PushInput(domain.MoveInput{
		Seq:   p.Seq,
		Up:    p.Up,
		Down:  p.Down,
		Left:  p.Left,
		Right: p.Right,
		Yaw:   p.Yaw,
		Dt:    p.Dt,
	})
	return handlers.EmptyResult(), nil
}
