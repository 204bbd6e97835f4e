package domain

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// PlayerToken - стабильный идентификатор сессии.
// Отвязан от ID соединения: клиент может переподключиться с тем же
// токеном и продолжить управлять тем же телом.
type PlayerToken string

func (t PlayerToken) String() string { return string(t) }

// Role определяет сторону игрока
type Role uint8

const (
	RoleCrew Role = iota
	RoleShadow
)

func (r Role) String() string {
	if r == RoleShadow {
		return "SHADOW"
	}
	return "CREW"
}

// PowerType - закрытый набор сил
type PowerType uint8

const (
	PowerNone PowerType = iota
	PowerInvisibility
	PowerSprint
	PowerPhase // Бестелесность: игнор коллизий
	PowerBarrier
	PowerPossession // Перехват ввода цели
	PowerMorph      // Временный обмен личностью/силой
	PowerBlink      // Мгновенный перенос
	PowerShield
	PowerSabotage
	PowerOracle // Читает историю позиций
)

var powerNames = map[PowerType]string{
	PowerNone:         "NONE",
	PowerInvisibility: "INVISIBILITY",
	PowerSprint:       "SPRINT",
	PowerPhase:        "PHASE",
	PowerBarrier:      "BARRIER",
	PowerPossession:   "POSSESSION",
	PowerMorph:        "MORPH",
	PowerBlink:        "BLINK",
	PowerShield:       "SHIELD",
	PowerSabotage:     "SABOTAGE",
	PowerOracle:       "ORACLE",
}

func (p PowerType) String() string {
	if s, ok := powerNames[p]; ok {
		return s
	}
	return "NONE"
}

// DamageSource помечает, от чего игрок пострадал в этом тике
type DamageSource string

const (
	DamageHeat      DamageSource = "heat"
	DamageCold      DamageSource = "cold"
	DamageTidal     DamageSource = "tidal"
	DamageFire      DamageSource = "fire"
	DamageSuffocate DamageSource = "suffocate"
	DamageKill      DamageSource = "kill"
)

// MoveInput - одно намерение движения от клиента.
// Seq нужен клиенту для согласования предсказания.
type MoveInput struct {
	Seq   int     `json:"seq"`
	Up    bool    `json:"up"`
	Down  bool    `json:"down"`
	Left  bool    `json:"left"`
	Right bool    `json:"right"`
	Yaw   float64 `json:"yaw"`
	// Dt - заявленное клиентом время кадра; обрезается сверху в резолвере
	Dt float64 `json:"dt"`
}

// HistorySample - низкочастотный сэмпл позиции (сила Oracle)
type HistorySample struct {
	At  float64   `json:"at"`
	Pos maze.Vec2 `json:"pos"`
}

// MorphBackup хранит подменяемую личность при трансформации.
// У трансформации собственные часы истечения, не зависящие от
// длительности/кулдауна скопированной силы.
type MorphBackup struct {
	Name          string
	Power         PowerType
	Charges       int
	MaxCharges    int
	CooldownUntil float64
	OwnExpiresAt  float64
}

// PowerState - бухгалтерия силы игрока.
// Prev*-поля - записанные до активации значения для симметричного отката.
type PowerState struct {
	Type          PowerType
	Active        bool
	ActivatedAt   float64
	ExpiresAt     float64
	CooldownUntil float64
	Charges       int
	MaxCharges    int

	// Обратимые побочные эффекты
	PrevSpeedMult float64
	PrevVisible   bool
	PrevNoClip    bool
	PrevShielded  bool
	BarrierID     string
	// Target - цель длящейся силы (Possession, Oracle)
	Target PlayerToken
	// CopiedType - отображаемая сила во время трансформации
	CopiedType PowerType
	Morph      *MorphBackup
}

// GamePlayerState - все серверное состояние одного игрока.
// Создается на старте матча, мутируется только циклом тиков,
// уничтожается вместе с комнатой.
type GamePlayerState struct {
	Token PlayerToken
	Name  string
	Role  Role

	Pos maze.Vec2
	Yaw float64

	HP      float64
	Alive   bool
	Ghost   bool
	Visible bool

	NoClip    bool // Исключение из коллизий (Phase, призраки)
	Shielded  bool
	SpeedMult float64

	Underground   bool // В трубах
	Sheltered     bool // Пересчитывается каждый тик
	DoorProtected bool // Укрытие именно за дверями (не зона площади)

	DamageTags      map[DamageSource]bool
	DamagedThisTick bool

	Inputs  []MoveInput
	LastSeq int

	Power       PowerState
	KillReadyAt float64

	ActiveTaskID string
	RefillingGen string
	RefillDoneAt float64

	History       []HistorySample
	LastHistoryAt float64
}

// NewPlayer создает игрока в стартовом состоянии
func NewPlayer(token PlayerToken, name string) *GamePlayerState {
	return &GamePlayerState{
		Token:      token,
		Name:       name,
		HP:         MaxHP,
		Alive:      true,
		Visible:    true,
		SpeedMult:  1.0,
		DamageTags: make(map[DamageSource]bool),
	}
}

// PushInput кладет ввод в FIFO. Переполнение молча отбрасывает команду:
// клиент будет согласован следующим снапшотом.
func (p *GamePlayerState) PushInput(in MoveInput) {
	if len(p.Inputs) >= InputQueueCap {
		return
	}
	p.Inputs = append(p.Inputs, in)
}

// DrainInputs забирает всю очередь, сохраняя внутритиковый порядок
func (p *GamePlayerState) DrainInputs() []MoveInput {
	out := p.Inputs
	p.Inputs = nil
	return out
}

// SamplePosition пишет низкочастотную историю позиций
func (p *GamePlayerState) SamplePosition(now float64) {
	if now-p.LastHistoryAt < HistoryInterval {
		return
	}
	p.LastHistoryAt = now
	p.History = append(p.History, HistorySample{At: now, Pos: p.Pos})
	if len(p.History) > HistoryMax {
		p.History = p.History[len(p.History)-HistoryMax:]
	}
}

// TagDamage отмечает источник урона текущего тика
func (p *GamePlayerState) TagDamage(src DamageSource) {
	p.DamageTags[src] = true
	p.DamagedThisTick = true
}

// ResetTickFlags чистит пер-тиковые отметки перед конвейером
func (p *GamePlayerState) ResetTickFlags() {
	p.DamagedThisTick = false
	for k := range p.DamageTags {
		delete(p.DamageTags, k)
	}
	p.Sheltered = false
	p.DoorProtected = false
}
