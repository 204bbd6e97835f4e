package handlers

import (
	"encoding/json"
	"math/rand"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// Context передает хендлеру состояние комнаты на текущий тик.
// Хендлеры вызываются только из цикла тиков - мутации безопасны без блокировок.
type Context struct {
	Layout  *maze.Layout
	Snap    *domain.MazeSnapshot
	Players map[domain.PlayerToken]*domain.GamePlayerState

	// Actor - тот, кто выполняет команду
	Actor *domain.GamePlayerState

	// Now - матчевое время в секундах
	Now float64

	Rng *rand.Rand

	// Solids - твердые отрезки текущего тика (для валидации телепорта)
	Solids []maze.Segment

	// AddEvent пишет в ленту событий комнаты
	AddEvent func(kind, text string)

	// OnDeath регистрирует гибель: труп, событие, проверка победы
	OnDeath func(victim *domain.GamePlayerState)

	// MarkInit просит приложить Layout к следующему снапшоту игрока
	MarkInit func(token domain.PlayerToken)
}

// Result - результат выполнения команды.
// Хендлер НЕ пишет в ленту напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст события
	MsgType string // Тип события (INFO, KILL, SABOTAGE, TASK)

	// Reject - код молчаливого отказа. Клиенту НЕ отправляется:
	// следующий снапшот сам покажет неизменное состояние.
	// Код попадает только в debug-лог сервера.
	Reject string
}

// HandlerFunc - это контракт для любой команды (MOVE, KILL, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Rejected - отказ с кодом причины
func Rejected(code string) Result {
	return Result{Reject: code}
}
