package maze

import (
	"fmt"
	"math"
)

// Геометрические константы лабиринта
const (
	GridSize  = 20  // Клеток по стороне
	CellSize  = 4.0 // Мировых единиц на клетку
	DoorWidth = 1.8 // Ширина дверного проема
	WallThin  = 0.0 // Стены - отрезки нулевой толщины

	PlazaSize = 4 // Сторона центральной площади (в клетках)

	PipeHalfWidth = 0.6 // Полуширина подземного туннеля
	MinTunnelLen  = 1.5 // Туннели короче - вырожденные, пропускаем
)

// Направления стен клетки. Y растет на юг.
const (
	North = iota
	East
	South
	West
)

// Vec2 - точка/вектор на плоскости уровня
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) DistanceTo(o Vec2) float64 { return o.Sub(v).Len() }

// Segment - отрезок стены в мировых координатах
type Segment struct {
	A Vec2 `json:"a"`
	B Vec2 `json:"b"`
}

// SegmentKind различает происхождение отрезка коллизии
type SegmentKind uint8

const (
	SegmentStatic SegmentKind = iota
	SegmentDynamic
	SegmentDoor
	SegmentPillar // Простенки по бокам дверного проема
)

// WallSegment - отрезок стены с идентичностью.
// Static и Pillar всегда твердые; Dynamic и Door фильтруются по состоянию.
type WallSegment struct {
	ID   string      `json:"id"`
	Kind SegmentKind `json:"kind"`
	Seg  Segment     `json:"seg"`
	// DoorID заполнен для Kind==SegmentDoor (сам проем)
	DoorID string `json:"doorId,omitempty"`
	// PhaseSeed заполнен для Kind==SegmentDynamic (фаза циклов открытия)
	PhaseSeed int64 `json:"-"`
}

// Door соединяет ровно две клетки. Axis - ориентация стены, в которой проем.
type Door struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId,omitempty"`
	CellA  [2]int `json:"cellA"`
	CellB  [2]int `json:"cellB"`
	Center Vec2   `json:"center"`
	// Horizontal=true, если стена лежит вдоль оси X (дверь между клетками по Y)
	Horizontal bool    `json:"horizontal"`
	Opening    Segment `json:"opening"`
}

// Room - клетка с >=3 стенами. Isolated - все 4 стены, без двери.
type Room struct {
	ID       string `json:"id"`
	Cell     [2]int `json:"cell"`
	Name     string `json:"name"`
	Center   Vec2   `json:"center"`
	DoorID   string `json:"doorId,omitempty"`
	Isolated bool   `json:"isolated"`
	LightID  string `json:"lightId"`
}

// Task - точка задания внутри комнаты
type Task struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Type   string `json:"type"`
	Tier   int    `json:"tier"` // 1..3, сложность
	Pos    Vec2   `json:"pos"`
}

// Decoration - статический реквизит. Kind=="fire" участвует в уроне близости.
type Decoration struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Pos  Vec2   `json:"pos"`
}

// ShelterZone - всегда-безопасная зона (центральная площадь)
type ShelterZone struct {
	ID     string  `json:"id"`
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// OxygenGenerator - точка пополнения кислорода корабля
type OxygenGenerator struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Pos    Vec2   `json:"pos"`
}

// PipeNode - узел подземной сети, по одному на комнату с дверью
type PipeNode struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Pos    Vec2   `json:"pos"`
}

// PipeConnection - туннель между двумя узлами
type PipeConnection struct {
	ID     string  `json:"id"`
	NodeA  string  `json:"nodeA"`
	NodeB  string  `json:"nodeB"`
	Length float64 `json:"length"`
}

// PipeNetwork - вся подземная геометрия
type PipeNetwork struct {
	Nodes       []PipeNode       `json:"nodes"`
	Connections []PipeConnection `json:"connections"`
	Walls       []Segment        `json:"walls"`
}

// Cell - клетка сетки с 4 флагами стен
type Cell struct {
	X, Y  int
	Walls [4]bool
	Plaza bool // Клетка центральной площади (не считается комнатой)
}

// Layout - неизменяемый результат генерации.
// Все мутируемое состояние (двери, свет, задания) живет в снапшоте матча.
type Layout struct {
	Seed        int64
	PlayerCount int

	Cells    [][]Cell // [y][x]
	Segments []WallSegment

	Doors       []Door
	Rooms       []Room
	Tasks       []Task
	Decorations []Decoration
	Shelters    []ShelterZone
	Generators  []OxygenGenerator
	Pipes       PipeNetwork

	// Ключи стен, выбранных динамическими (порядок генерации)
	dynamicKeys []string

	// Таблицы поиска по стабильным строковым ID.
	// Храним индексы, а не указатели: Layout должен оставаться значением.
	doorIdx map[string]int
	roomIdx map[string]int
	taskIdx map[string]int
	nodeIdx map[string]int
}

// DoorByID возвращает дверь по ID или nil
func (l *Layout) DoorByID(id string) *Door {
	if i, ok := l.doorIdx[id]; ok {
		return &l.Doors[i]
	}
	return nil
}

// RoomByID возвращает комнату по ID или nil
func (l *Layout) RoomByID(id string) *Room {
	if i, ok := l.roomIdx[id]; ok {
		return &l.Rooms[i]
	}
	return nil
}

// TaskByID возвращает задание по ID или nil
func (l *Layout) TaskByID(id string) *Task {
	if i, ok := l.taskIdx[id]; ok {
		return &l.Tasks[i]
	}
	return nil
}

// NodeByID возвращает узел труб по ID или nil
func (l *Layout) NodeByID(id string) *PipeNode {
	if i, ok := l.nodeIdx[id]; ok {
		return &l.Pipes.Nodes[i]
	}
	return nil
}

// RoomAt возвращает комнату, которой принадлежит мировая точка, или nil
func (l *Layout) RoomAt(p Vec2) *Room {
	cx, cy := CellOf(p)
	for i := range l.Rooms {
		if l.Rooms[i].Cell[0] == cx && l.Rooms[i].Cell[1] == cy {
			return &l.Rooms[i]
		}
	}
	return nil
}

// CellOf переводит мировую точку в координаты клетки
func CellOf(p Vec2) (int, int) {
	cx := int(p.X / CellSize)
	cy := int(p.Y / CellSize)
	if cx < 0 {
		cx = 0
	}
	if cx >= GridSize {
		cx = GridSize - 1
	}
	if cy < 0 {
		cy = 0
	}
	if cy >= GridSize {
		cy = GridSize - 1
	}
	return cx, cy
}

// CellCenter возвращает мировой центр клетки
func CellCenter(cx, cy int) Vec2 {
	return Vec2{(float64(cx) + 0.5) * CellSize, (float64(cy) + 0.5) * CellSize}
}

func (l *Layout) rebuildIndexes() {
	l.doorIdx = make(map[string]int, len(l.Doors))
	for i := range l.Doors {
		l.doorIdx[l.Doors[i].ID] = i
	}
	l.roomIdx = make(map[string]int, len(l.Rooms))
	for i := range l.Rooms {
		l.roomIdx[l.Rooms[i].ID] = i
	}
	l.taskIdx = make(map[string]int, len(l.Tasks))
	for i := range l.Tasks {
		l.taskIdx[l.Tasks[i].ID] = i
	}
	l.nodeIdx = make(map[string]int, len(l.Pipes.Nodes))
	for i := range l.Pipes.Nodes {
		l.nodeIdx[l.Pipes.Nodes[i].ID] = i
	}
}

// wallKey строит канонический ключ ребра между двумя клетками.
// Сортировка пары гарантирует, что общая стена имеет один ключ с обеих сторон.
func wallKey(x1, y1, x2, y2 int) string {
	if x2 < x1 || (x2 == x1 && y2 < y1) {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	return fmt.Sprintf("w_%d_%d_%d_%d", x1, y1, x2, y2)
}
