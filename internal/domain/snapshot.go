package domain

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// TaskStatus - жизненный цикл задания
type TaskStatus string

const (
	TaskAvailable  TaskStatus = "available"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// TaskProgress - мутируемое состояние одного задания
type TaskProgress struct {
	Status      TaskStatus  `json:"status"`
	Holder      PlayerToken `json:"holder,omitempty"`
	CompletedBy PlayerToken `json:"completedBy,omitempty"`
}

// BarrierWall - временная стена, поставленная игроком
type BarrierWall struct {
	ID        string       `json:"id"`
	Owner     PlayerToken  `json:"owner"`
	Seg       maze.Segment `json:"seg"`
	ExpiresAt float64      `json:"expiresAt"`
}

// DeadBody - снимок жертвы в момент смерти. Репортится не более одного раза.
type DeadBody struct {
	Token    PlayerToken `json:"token"`
	Name     string      `json:"name"`
	Pos      maze.Vec2   `json:"pos"`
	DiedAt   float64     `json:"diedAt"`
	Reported bool        `json:"-"`
}

// MazeSnapshot - мутируемый серверный оверлей поверх неизменяемого Layout.
// Мутируется каждый тик, но никогда не заменяет сам Layout.
type MazeSnapshot struct {
	DoorOpen       map[string]bool    `json:"doorOpen"`
	DoorLocked     map[string]bool    `json:"doorLocked"`
	DoorLockedAt   map[string]float64 `json:"-"`
	DoorLockExpiry map[string]float64 `json:"doorLockExpiry,omitempty"`

	Lights      map[string]bool `json:"lights"`
	DynamicOpen map[string]bool `json:"dynamicOpen"`

	// Временные стены, по одной на владельца
	Barriers map[PlayerToken]*BarrierWall `json:"barriers"`

	Tasks map[string]*TaskProgress `json:"tasks"`

	PipeLocked map[string]bool `json:"pipeLocked"`

	GeneratorDisabledUntil map[string]float64 `json:"generatorDisabledUntil,omitempty"`

	ShipOxygen float64 `json:"shipOxygen"`

	// Покомнатный кислород: герметичная комната с закрытой дверью
	// постепенно выдыхается
	RoomOxygen map[string]float64 `json:"roomOxygen"`

	// Активный дренаж кислорода (саботаж)
	OxygenSabotaged bool `json:"oxygenSabotaged"`

	// Когда восстановить свет после саботажа (0 - нечего восстанавливать)
	LightsRestoreAt float64 `json:"-"`

	// Когда отпереть люки труб после саботажа дверей (0 - нечего отпирать)
	PipesRestoreAt float64 `json:"-"`
}

// NewMazeSnapshot строит стартовый оверлей для сгенерированного уровня
func NewMazeSnapshot(l *maze.Layout) *MazeSnapshot {
	s := &MazeSnapshot{
		DoorOpen:               make(map[string]bool, len(l.Doors)),
		DoorLocked:             make(map[string]bool, len(l.Doors)),
		DoorLockedAt:           make(map[string]float64),
		DoorLockExpiry:         make(map[string]float64),
		Lights:                 make(map[string]bool, len(l.Rooms)),
		DynamicOpen:            make(map[string]bool),
		Barriers:               make(map[PlayerToken]*BarrierWall),
		Tasks:                  make(map[string]*TaskProgress, len(l.Tasks)),
		PipeLocked:             make(map[string]bool, len(l.Pipes.Nodes)),
		GeneratorDisabledUntil: make(map[string]float64),
		ShipOxygen:             ShipOxygenMax,
		RoomOxygen:             make(map[string]float64, len(l.Rooms)),
	}

	for _, d := range l.Doors {
		s.DoorOpen[d.ID] = true
	}
	for _, r := range l.Rooms {
		s.Lights[r.LightID] = true
		s.RoomOxygen[r.ID] = ShipOxygenMax
	}
	for _, seg := range l.Segments {
		if seg.Kind == maze.SegmentDynamic {
			s.DynamicOpen[seg.ID] = false
		}
	}
	for _, t := range l.Tasks {
		s.Tasks[t.ID] = &TaskProgress{Status: TaskAvailable}
	}
	for _, n := range l.Pipes.Nodes {
		s.PipeLocked[n.ID] = false
	}

	return s
}

// DoorPassable: дверь проходима, если открыта и не заперта
func (s *MazeSnapshot) DoorPassable(id string) bool {
	return s.DoorOpen[id] && !s.DoorLocked[id]
}
