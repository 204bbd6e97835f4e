package sunsim

import "math"

// Vec3 - вектор в системе координат симуляции (планета в начале координат)
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Body - точечная масса
type Body struct {
	Pos  Vec3    `json:"pos"`
	Vel  Vec3    `json:"vel"`
	Mass float64 `json:"mass"`
}

// SkyPos - проекция тела на небесную сферу фиксированного радиуса.
// Направление и высота сохраняются, расстояние - нет.
type SkyPos struct {
	Dir       Vec3    `json:"dir"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	Visible   bool    `json:"visible"` // Над горизонтом
}

// Индексация пар тел: 0=(0,1), 1=(0,2), 2=(1,2)
var pairBodies = [3][2]int{{0, 1}, {0, 2}, {1, 2}}

// State - полное состояние симуляции трех тел.
// Мутируется только через Advance.
type State struct {
	Bodies [3]Body
	Sky    [3]SkyPos

	// Окно событий
	pairTicks   [3]int // Счетчики гистерезиса по парам
	BinaryPair  int    // Индекс устойчивой пары или -1
	Ejected     bool
	EjectedBody int
	Energy      float64 // Полная механическая энергия (диагностика)
}

// Preset - именованный набор начальных условий
type Preset int

const (
	PresetTiltedTriangle Preset = iota
	PresetHierarchical
	PresetFigureEight
)

// New создает симуляцию из пресета.
// Все пресеты сдвигаются в систему центра масс, иначе вся тройка
// медленно уплывает и проекции на небо деградируют.
func New(p Preset) *State {
	s := &State{BinaryPair: -1, EjectedBody: -1}

	switch p {
	case PresetFigureEight:
		// Классическая хореографическая орбита (Chenciner-Montgomery)
		s.Bodies = [3]Body{
			{Pos: Vec3{0.97000436, -0.24308753, 0}, Vel: Vec3{0.466203685, 0.43236573, 0}, Mass: 1},
			{Pos: Vec3{-0.97000436, 0.24308753, 0}, Vel: Vec3{0.466203685, 0.43236573, 0}, Mass: 1},
			{Pos: Vec3{0, 0, 0}, Vel: Vec3{-0.93240737, -0.86473146, 0}, Mass: 1},
		}

	case PresetHierarchical:
		// Тесная двойная + далекий легкий спутник
		s.Bodies = [3]Body{
			{Pos: Vec3{-0.25, 0, 0}, Vel: Vec3{0, -1.0, 0}, Mass: 1},
			{Pos: Vec3{0.25, 0, 0}, Vel: Vec3{0, 1.0, 0}, Mass: 1},
			{Pos: Vec3{4.0, 0, 0.4}, Vel: Vec3{0, 0.72, 0}, Mass: 0.2},
		}

	default: // PresetTiltedTriangle
		// Равносторонний треугольник с наклоном по Z.
		// Скорости примерно круговые, но возмущенные - хаос начинается быстро.
		r := 2.0
		v := 0.55 * math.Sqrt(gravConst*3.0/r)
		s.Bodies = [3]Body{
			{Pos: Vec3{r, 0, 0.3}, Vel: Vec3{0, v, 0}, Mass: 1},
			{Pos: Vec3{-r / 2, r * 0.866, -0.2}, Vel: Vec3{-v * 0.866, -v / 2, 0}, Mass: 1},
			{Pos: Vec3{-r / 2, -r * 0.866, 0.1}, Vel: Vec3{v * 0.866, -v / 2, 0}, Mass: 1},
		}
	}

	s.shiftToCOM()
	s.updateSky()
	s.Energy = s.totalEnergy()
	return s
}

// shiftToCOM переводит систему в систему центра масс
func (s *State) shiftToCOM() {
	var com, comVel Vec3
	total := 0.0
	for _, b := range s.Bodies {
		com = com.Add(b.Pos.Scale(b.Mass))
		comVel = comVel.Add(b.Vel.Scale(b.Mass))
		total += b.Mass
	}
	com = com.Scale(1 / total)
	comVel = comVel.Scale(1 / total)

	for i := range s.Bodies {
		s.Bodies[i].Pos = s.Bodies[i].Pos.Sub(com)
		s.Bodies[i].Vel = s.Bodies[i].Vel.Sub(comVel)
	}
}

// centerOfMass возвращает текущий центр масс
func (s *State) centerOfMass() Vec3 {
	var com Vec3
	total := 0.0
	for _, b := range s.Bodies {
		com = com.Add(b.Pos.Scale(b.Mass))
		total += b.Mass
	}
	return com.Scale(1 / total)
}
