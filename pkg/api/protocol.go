package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Он представляет собой полный "снимок" мира на текущий тик.
// Отправляется каждому подключенному клиенту после обработки тика.
type ServerResponse struct {
	// Type тип сообщения: "UPDATE" для регулярных снапшотов,
	// "INIT" для первого сообщения после входа (содержит Layout).
	Type string `json:"type"`

	// Tick номер тика с начала матча.
	Tick int64 `json:"tick"`

	// Elapsed секунды матчевого времени.
	Elapsed float64 `json:"elapsed"`

	// MyToken токен сущности, которой управляет данный клиент.
	MyToken string `json:"myToken,omitempty"`

	// Layout неизменяемый уровень единым блобом. Только в сообщении INIT:
	// лабиринт не меняется за матч, клиенту незачем получать его повторно.
	Layout json.RawMessage `json:"layout,omitempty"`

	// Era текущая фаза окружения.
	Era *EraView `json:"era,omitempty"`

	// Sky проекции трех солнц на небесную сферу.
	Sky []SunView `json:"sky,omitempty"`

	// Players все видимые данному клиенту игроки.
	Players []PlayerView `json:"players,omitempty"`

	// Maze мутируемый оверлей уровня: двери, свет, барьеры, задания.
	Maze *MazeView `json:"maze,omitempty"`

	// Corpses тела погибших, еще лежащие на карте.
	Corpses []CorpseView `json:"corpses,omitempty"`

	// Events новые игровые события с прошлого снапшота.
	Events []EventView `json:"events,omitempty"`

	// Winner "" пока матч идет, иначе "CREW" или "SHADOW".
	Winner string `json:"winner,omitempty"`
}

// EraView описывает текущую фазу окружения для клиента.
type EraView struct {
	Name        string  `json:"name"` // CALM, HOT, FROZEN, GRAVITY
	Description string  `json:"description"`
	Gravity     float64 `json:"gravity"`

	// TimeLeft секунд до конца фазы.
	TimeLeft float64 `json:"timeLeft"`
}

// SunView это DTO одного солнца на небе.
type SunView struct {
	// Azimuth и Elevation в радианах. Elevation < 0 - солнце за горизонтом.
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	Visible   bool    `json:"visible"`

	// Binary true, если солнце состоит в подтвержденной двойной паре.
	Binary bool `json:"binary,omitempty"`

	// Ejected true, если солнце покинуло систему.
	Ejected bool `json:"ejected,omitempty"`
}

// Vec2View - точка на плоскости уровня.
type Vec2View struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerView это DTO игрока. Невидимые и подземные игроки в снапшот
// чужих клиентов не попадают вовсе - фильтрация на сервере.
type PlayerView struct {
	Token string `json:"token"`
	Name  string `json:"name"`

	Pos Vec2View `json:"pos"`
	Yaw float64  `json:"yaw"`

	HP    float64 `json:"hp"`
	Alive bool    `json:"alive"`
	Ghost bool    `json:"ghost,omitempty"`

	Underground bool `json:"underground,omitempty"`
	Sheltered   bool `json:"sheltered,omitempty"`

	// Role отправляется только самому игроку и его сородичам.
	Role string `json:"role,omitempty"`

	// LastSeq номер последнего учтенного ввода - для согласования
	// клиентского предсказания.
	LastSeq int `json:"lastSeq,omitempty"`

	Power *PowerView `json:"power,omitempty"`

	// Refilling true, пока игрок заправляет кислородный генератор.
	Refilling bool `json:"refilling,omitempty"`

	// History низкочастотный след позиций. Заполняется только для цели
	// активной силы ORACLE и только ее владельцу.
	History []HistoryView `json:"history,omitempty"`
}

// PowerView это DTO состояния силы. Отправляется только владельцу.
type PowerView struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`

	Charges    int `json:"charges"`
	MaxCharges int `json:"maxCharges"`

	// CooldownLeft и ActiveLeft в секундах, 0 - не применимо.
	CooldownLeft float64 `json:"cooldownLeft,omitempty"`
	ActiveLeft   float64 `json:"activeLeft,omitempty"`

	// CopiedType показывается во время трансформации.
	CopiedType string `json:"copiedType,omitempty"`
}

// HistoryView - один сэмпл следа позиций.
type HistoryView struct {
	At  float64  `json:"at"`
	Pos Vec2View `json:"pos"`
}

// MazeView - мутируемый оверлей уровня.
type MazeView struct {
	DoorOpen   map[string]bool `json:"doorOpen"`
	DoorLocked map[string]bool `json:"doorLocked,omitempty"`

	Lights      map[string]bool `json:"lights"`
	DynamicOpen map[string]bool `json:"dynamicOpen"`

	Barriers []BarrierView `json:"barriers,omitempty"`

	Tasks map[string]TaskView `json:"tasks"`

	ShipOxygen      float64 `json:"shipOxygen"`
	OxygenSabotaged bool    `json:"oxygenSabotaged,omitempty"`
}

// BarrierView - временная стена на карте.
type BarrierView struct {
	ID        string   `json:"id"`
	A         Vec2View `json:"a"`
	B         Vec2View `json:"b"`
	ExpiresIn float64  `json:"expiresIn"`
}

// TaskView - состояние одного задания.
type TaskView struct {
	Status string `json:"status"` // available, in_progress, completed
	Holder string `json:"holder,omitempty"`
}

// CorpseView - тело погибшего игрока.
type CorpseView struct {
	Token string   `json:"token"`
	Name  string   `json:"name"`
	Pos   Vec2View `json:"pos"`
}

// EventView представляет одну запись в ленте игровых событий.
type EventView struct {
	Type string  `json:"type"` // INFO, KILL, SABOTAGE, TASK, ERA, WIN
	Text string  `json:"text"`
	At   float64 `json:"at"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token идентификатор сессии. Обязателен в первом сообщении "INIT",
	// дальше сервер помнит его по соединению.
	Token string `json:"token,omitempty"`

	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// InitPayload используется при входе в матч.
type InitPayload struct {
	Name string `json:"name"`
}

// MovePayload - одно намерение движения. Dt обрезается сервером сверху.
type MovePayload struct {
	Seq   int     `json:"seq"`
	Up    bool    `json:"up"`
	Down  bool    `json:"down"`
	Left  bool    `json:"left"`
	Right bool    `json:"right"`
	Yaw   float64 `json:"yaw"`
	Dt    float64 `json:"dt"`
}

// DoorPayload используется для открытия/закрытия и запирания дверей.
type DoorPayload struct {
	DoorID string `json:"doorId"`
	Open   bool   `json:"open"`

	// Lock запирает (true) или отпирает (false) дверь. nil - замок не трогать.
	// Запирание доступно только изнутри комнаты, которой дверь принадлежит.
	Lock *bool `json:"lock,omitempty"`
}

// TaskPayload используется для действий с заданиями (START, COMPLETE, CANCEL).
type TaskPayload struct {
	TaskID string `json:"taskId"`
}

// PowerPayload используется для активации силы. Поля опциональны:
// каждая сила читает только то, что ей нужно.
type PowerPayload struct {
	// TargetID цель для Possession, Oracle, Morph.
	TargetID string `json:"targetId,omitempty"`

	// Aim точка прицеливания для Blink.
	Aim *Vec2View `json:"aim,omitempty"`

	// Mode вариант саботажа: doors, lights, oxygen.
	Mode string `json:"mode,omitempty"`
}

// KillPayload используется для атаки теневой ролью.
type KillPayload struct {
	TargetID string `json:"targetId"`
}

// OxygenPayload используется для запуска заправки генератора.
// Пустой GeneratorID означает ближайший доступный генератор.
type OxygenPayload struct {
	GeneratorID string `json:"generatorId,omitempty"`
}
