package domain

import "time"

// Частота тиков. Один тик - одна полная итерация конвейера матча.
const (
	TickRate     = 15
	TickInterval = time.Second / TickRate
)

// Движение
const (
	BaseSpeed    = 3.0  // Единиц в секунду
	PlayerRadius = 0.45 // Радиус коллизии игрока
	SprintMult   = 3.0  // Множитель скорости спринта
)

// Дистанции взаимодействий
const (
	KillRange     = 1.6
	InteractRange = 2.2 // Двери, генераторы
	TaskRange     = 2.0
)

// Здоровье и урон (единиц в секунду)
const (
	MaxHP    = 100.0
	HealRate = 2.0 // Только в спокойную эру и только без урона в этом тике

	HeatAmbientRate = 1.5
	HeatDirectRate  = 6.0 // Умножается на долю видимых солнц
	ColdRate        = 3.0
	TidalRate       = 4.0
	FireRate        = 8.0
	FireRadius      = 1.2
	SuffocateRate   = 5.0 // Игнорирует укрытие

	// Выше этой высоты солнце "над головой": стены не спасают, только укрытие
	OverheadElevation = 1.0 // Радианы, ~57 градусов
)

// Кислород
const (
	ShipOxygenMax     = 100.0
	OxygenDepleteRate = 2.0 // При саботаже, в секунду
	OxygenRefillTime  = 5.0 // Секунд у генератора
	OxygenRefillGain  = 50.0
)

// Силы
const (
	KillCooldown         = 20.0
	BarrierDuration      = 8.0
	BarrierLength        = 3.0
	BarrierOffset        = 1.0 // Перпендикулярный вынос от владельца
	SabotageLockDuration = 10.0
	GeneratorDisableTime = 15.0
)

// История позиций для силы предсказания
const (
	HistoryInterval = 1.0 // Секунд между сэмплами
	HistoryMax      = 30  // Хранимых сэмплов на игрока
)

// Лимит очереди ввода на игрока. Лишнее отбрасывается - клиент
// все равно будет согласован следующим снапшотом.
const InputQueueCap = 32
