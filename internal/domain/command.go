package domain

import "encoding/json"

// InternalCommand - команда для движка матча.
// Сетевые обработчики только кладут такие команды в канал комнаты,
// мутирует состояние исключительно цикл тиков.
type InternalCommand struct {
	Action  ActionType
	Token   PlayerToken     // Токен сессии игрока (Actor)
	Payload json.RawMessage // Сырые данные, парсятся хендлером
}
