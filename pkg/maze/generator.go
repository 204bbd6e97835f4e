package maze

import (
	"fmt"
	"math/rand"
)

// Параметры резки лабиринта
const (
	openRatio   = 0.60 // Доля открытых внутренних ребер после расширения коридоров
	dynamicProb = 0.12 // Вероятность пометить коридорную стену как динамическую
)

// edge - каноническое внутреннее ребро сетки: стена между (X,Y) и соседом.
// Dir только East или South, чтобы каждое ребро встречалось один раз.
type edge struct {
	X, Y, Dir int
}

// Generate создает полный уровень из сида. Чистая функция:
// два вызова с одинаковыми аргументами дают побайтово одинаковый Layout.
func Generate(seed int64, playerCount int) *Layout {
	rng := rand.New(rand.NewSource(seed))

	l := &Layout{
		Seed:        seed,
		PlayerCount: playerCount,
	}

	l.initCells()

	// 1. Остов через Краскала - гарантия связности
	edges := interiorEdges()
	rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
	l.carveSpanningTree(edges)

	// 2. Расширение коридоров до целевой доли открытых ребер
	l.widenCorridors(edges)

	// 3. Центральная площадь с четырьмя входами
	l.carvePlaza()
	l.rescueDisconnected()

	// 4. Комнаты и двери
	l.detectRooms()
	l.placeDoors()

	// 5. Динамические стены (только коридорные, не дверные)
	l.markDynamicWalls(rng)

	// 6. Отрезки коллизии
	l.buildSegments()

	// 7. Тематика: имена, задания, декор, укрытия, генераторы
	l.nameRooms(rng)
	l.placeTasks(rng, playerCount)
	l.placeDecorations(rng)
	l.placeShelters()
	l.placeGenerators(rng)

	// 8. Подземная сеть труб
	l.buildPipes()

	l.rebuildIndexes()
	return l
}

func (l *Layout) initCells() {
	l.Cells = make([][]Cell, GridSize)
	for y := 0; y < GridSize; y++ {
		row := make([]Cell, GridSize)
		for x := 0; x < GridSize; x++ {
			row[x] = Cell{X: x, Y: y, Walls: [4]bool{true, true, true, true}}
		}
		l.Cells[y] = row
	}
}

func interiorEdges() []edge {
	edges := make([]edge, 0, 2*GridSize*(GridSize-1))
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if x < GridSize-1 {
				edges = append(edges, edge{x, y, East})
			}
			if y < GridSize-1 {
				edges = append(edges, edge{x, y, South})
			}
		}
	}
	return edges
}

// unionFind - классический DSU со сжатием путей
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	uf.parent[ra] = rb
	return true
}

func cellIndex(x, y int) int { return y*GridSize + x }

func neighbor(e edge) (int, int) {
	switch e.Dir {
	case East:
		return e.X + 1, e.Y
	default: // South
		return e.X, e.Y + 1
	}
}

// openWall убирает стену с обеих сторон ребра
func (l *Layout) openWall(e edge) {
	nx, ny := neighbor(e)
	l.Cells[e.Y][e.X].Walls[e.Dir] = false
	l.Cells[ny][nx].Walls[opposite(e.Dir)] = false
}

func (l *Layout) closeWall(e edge) {
	nx, ny := neighbor(e)
	l.Cells[e.Y][e.X].Walls[e.Dir] = true
	l.Cells[ny][nx].Walls[opposite(e.Dir)] = true
}

func (l *Layout) isOpen(e edge) bool {
	return !l.Cells[e.Y][e.X].Walls[e.Dir]
}

func opposite(dir int) int { return (dir + 2) % 4 }

func (l *Layout) carveSpanningTree(shuffled []edge) {
	uf := newUnionFind(GridSize * GridSize)
	for _, e := range shuffled {
		nx, ny := neighbor(e)
		if uf.union(cellIndex(e.X, e.Y), cellIndex(nx, ny)) {
			l.openWall(e)
		}
	}
}

// widenCorridors открывает дополнительные ребра до целевой доли openRatio.
// Порядок обхода - тот же перетасованный список, поэтому результат детерминирован.
func (l *Layout) widenCorridors(shuffled []edge) {
	total := len(shuffled)
	open := 0
	for _, e := range shuffled {
		if l.isOpen(e) {
			open++
		}
	}

	target := int(openRatio * float64(total))
	for _, e := range shuffled {
		if open >= target {
			break
		}
		if !l.isOpen(e) {
			l.openWall(e)
			open++
		}
	}
}

// plazaOrigin возвращает левый верхний угол центрального блока
func plazaOrigin() int { return GridSize/2 - PlazaSize/2 }

// carvePlaza расчищает центральный блок под общую зону сбора.
// Периметр закрывается, кроме четырех входов по серединам сторон.
func (l *Layout) carvePlaza() {
	p0 := plazaOrigin()
	p1 := p0 + PlazaSize - 1
	mid := p0 + PlazaSize/2

	for y := p0; y <= p1; y++ {
		for x := p0; x <= p1; x++ {
			l.Cells[y][x].Plaza = true
			// Внутренние стены блока долой
			if x < p1 {
				l.openWall(edge{x, y, East})
			}
			if y < p1 {
				l.openWall(edge{x, y, South})
			}
		}
	}

	// Периметр: все закрыто, кроме входа в середине каждой стороны
	for i := p0; i <= p1; i++ {
		if p0 > 0 {
			e := edge{i, p0 - 1, South} // северная сторона
			l.closeWall(e)
			if i == mid {
				l.openWall(e)
			}
		}
		if p1 < GridSize-1 {
			e := edge{i, p1, South} // южная сторона
			l.closeWall(e)
			if i == mid {
				l.openWall(e)
			}
		}
		if p0 > 0 {
			e := edge{p0 - 1, i, East} // западная сторона
			l.closeWall(e)
			if i == mid {
				l.openWall(e)
			}
		}
		if p1 < GridSize-1 {
			e := edge{p1, i, East} // восточная сторона
			l.closeWall(e)
			if i == mid {
				l.openWall(e)
			}
		}
	}
}

// rescueDisconnected возвращает связность после закрытия периметра площади.
// Одиночные отрезанные клетки остаются изолированными комнатами (это фича),
// но компоненты из двух и более клеток пробиваются обратно к основной части.
func (l *Layout) rescueDisconnected() {
	for {
		comp, compSize := l.components()
		mainComp := comp[cellIndex(plazaOrigin(), plazaOrigin())]

		fixed := false
		for y := 0; y < GridSize && !fixed; y++ {
			for x := 0; x < GridSize && !fixed; x++ {
				c := comp[cellIndex(x, y)]
				if c == mainComp || compSize[c] < 2 {
					continue
				}
				// Ищем стену между этой компонентой и основной
				for _, e := range cellEdges(x, y) {
					nx, ny := neighbor(e)
					if comp[cellIndex(nx, ny)] == mainComp || comp[cellIndex(e.X, e.Y)] == mainComp {
						l.openWall(e)
						fixed = true
						break
					}
				}
			}
		}
		if !fixed {
			return
		}
	}
}

// cellEdges возвращает канонические ребра, инцидентные клетке
func cellEdges(x, y int) []edge {
	var out []edge
	if x < GridSize-1 {
		out = append(out, edge{x, y, East})
	}
	if y < GridSize-1 {
		out = append(out, edge{x, y, South})
	}
	if x > 0 {
		out = append(out, edge{x - 1, y, East})
	}
	if y > 0 {
		out = append(out, edge{x, y - 1, South})
	}
	return out
}

// components размечает компоненты связности по открытым ребрам
func (l *Layout) components() (map[int]int, map[int]int) {
	comp := make(map[int]int, GridSize*GridSize)
	size := make(map[int]int)
	next := 0

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			idx := cellIndex(x, y)
			if _, seen := comp[idx]; seen {
				continue
			}
			next++
			queue := []int{idx}
			comp[idx] = next
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				size[next]++
				cx, cy := cur%GridSize, cur/GridSize
				for _, e := range cellEdges(cx, cy) {
					if !l.isOpen(e) {
						continue
					}
					nx, ny := neighbor(e)
					for _, n := range [2]int{cellIndex(e.X, e.Y), cellIndex(nx, ny)} {
						if _, seen := comp[n]; !seen {
							comp[n] = next
							queue = append(queue, n)
						}
					}
				}
			}
		}
	}
	return comp, size
}

// detectRooms помечает комнатами клетки с >=3 стенами (вне площади)
func (l *Layout) detectRooms() {
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			c := &l.Cells[y][x]
			if c.Plaza {
				continue
			}
			walls := 0
			for _, w := range c.Walls {
				if w {
					walls++
				}
			}
			if walls < 3 {
				continue
			}
			id := fmt.Sprintf("room_%d_%d", x, y)
			l.Rooms = append(l.Rooms, Room{
				ID:       id,
				Cell:     [2]int{x, y},
				Center:   CellCenter(x, y),
				Isolated: walls == 4,
				LightID:  "light_" + id,
			})
		}
	}
}

// placeDoors ставит дверь в единственный проем каждой 3-стенной комнаты.
// Канонический ключ ребра исключает двойную дверь на общей стене двух комнат.
func (l *Layout) placeDoors() {
	placed := make(map[string]int) // wallKey -> индекс двери

	for ri := range l.Rooms {
		room := &l.Rooms[ri]
		if room.Isolated {
			continue
		}
		x, y := room.Cell[0], room.Cell[1]

		openDir := -1
		for dir, w := range l.Cells[y][x].Walls {
			if !w {
				openDir = dir
				break
			}
		}
		if openDir == -1 {
			continue
		}

		nx, ny := x, y
		switch openDir {
		case North:
			ny--
		case East:
			nx++
		case South:
			ny++
		case West:
			nx--
		}
		if nx < 0 || ny < 0 || nx >= GridSize || ny >= GridSize {
			// Проем в границу карты невозможен, но на всякий случай
			continue
		}

		key := wallKey(x, y, nx, ny)
		if di, ok := placed[key]; ok {
			// Дверь уже стоит (общий проем двух комнат)
			room.DoorID = l.Doors[di].ID
			continue
		}

		horizontal := openDir == North || openDir == South
		center := doorCenter(x, y, openDir)
		d := Door{
			ID:         "door_" + key,
			RoomID:     room.ID,
			CellA:      [2]int{x, y},
			CellB:      [2]int{nx, ny},
			Center:     center,
			Horizontal: horizontal,
			Opening:    doorOpening(center, horizontal),
		}
		l.Doors = append(l.Doors, d)
		placed[key] = len(l.Doors) - 1
		room.DoorID = d.ID
	}
}

// doorCenter - середина ребра, в котором стоит дверь
func doorCenter(x, y, dir int) Vec2 {
	cx := (float64(x) + 0.5) * CellSize
	cy := (float64(y) + 0.5) * CellSize
	half := CellSize / 2
	switch dir {
	case North:
		return Vec2{cx, cy - half}
	case East:
		return Vec2{cx + half, cy}
	case South:
		return Vec2{cx, cy + half}
	default:
		return Vec2{cx - half, cy}
	}
}

// doorOpening - отрезок самого проема (коллайдер закрытой двери)
func doorOpening(center Vec2, horizontal bool) Segment {
	half := DoorWidth / 2
	if horizontal {
		return Segment{Vec2{center.X - half, center.Y}, Vec2{center.X + half, center.Y}}
	}
	return Segment{Vec2{center.X, center.Y - half}, Vec2{center.X, center.Y + half}}
}

// markDynamicWalls выбирает коридорные стены под периодические циклы.
// Дверные и комнатные стены не трогаем: комната обязана оставаться комнатой.
func (l *Layout) markDynamicWalls(rng *rand.Rand) {
	roomCells := make(map[int]bool, len(l.Rooms))
	for _, r := range l.Rooms {
		roomCells[cellIndex(r.Cell[0], r.Cell[1])] = true
	}

	for _, e := range interiorEdges() {
		if l.isOpen(e) {
			continue
		}
		nx, ny := neighbor(e)
		if roomCells[cellIndex(e.X, e.Y)] || roomCells[cellIndex(nx, ny)] {
			continue
		}
		if l.Cells[e.Y][e.X].Plaza || l.Cells[ny][nx].Plaza {
			continue
		}
		if rng.Float64() < dynamicProb {
			key := wallKey(e.X, e.Y, nx, ny)
			l.Cells[e.Y][e.X].Walls[e.Dir] = true // остается закрытой, но получит сегмент Dynamic
			l.dynamicKeys = append(l.dynamicKeys, key)
		}
	}
}

// buildSegments переводит флаги стен в отрезки коллизии мировых координат
func (l *Layout) buildSegments() {
	dynamic := make(map[string]bool, len(l.dynamicKeys))
	for _, k := range l.dynamicKeys {
		dynamic[k] = true
	}
	doorKeys := make(map[string]string, len(l.Doors))
	for _, d := range l.Doors {
		doorKeys[wallKey(d.CellA[0], d.CellA[1], d.CellB[0], d.CellB[1])] = d.ID
	}

	world := float64(GridSize) * CellSize

	// Внешняя граница - четыре статических отрезка
	border := []Segment{
		{Vec2{0, 0}, Vec2{world, 0}},
		{Vec2{world, 0}, Vec2{world, world}},
		{Vec2{world, world}, Vec2{0, world}},
		{Vec2{0, world}, Vec2{0, 0}},
	}
	for i, s := range border {
		l.Segments = append(l.Segments, WallSegment{
			ID:   fmt.Sprintf("border_%d", i),
			Kind: SegmentStatic,
			Seg:  s,
		})
	}

	for _, e := range interiorEdges() {
		nx, ny := neighbor(e)
		key := wallKey(e.X, e.Y, nx, ny)
		seg := edgeSegment(e)

		if doorID, ok := doorKeys[key]; ok {
			// Дверная стена: простенок / проем / простенок
			l.appendDoorSegments(key, doorID, seg)
			continue
		}
		if !l.isOpen(e) {
			kind := SegmentStatic
			var phase int64
			if dynamic[key] {
				kind = SegmentDynamic
				phase = l.Seed ^ int64(cellIndex(e.X, e.Y)*31+e.Dir)
			}
			l.Segments = append(l.Segments, WallSegment{
				ID:        key,
				Kind:      kind,
				Seg:       seg,
				PhaseSeed: phase,
			})
		}
	}
}

// edgeSegment - мировой отрезок стены ребра
func edgeSegment(e edge) Segment {
	x, y := float64(e.X), float64(e.Y)
	if e.Dir == East {
		// Вертикальная стена справа от клетки
		return Segment{
			Vec2{(x + 1) * CellSize, y * CellSize},
			Vec2{(x + 1) * CellSize, (y + 1) * CellSize},
		}
	}
	// Горизонтальная стена снизу
	return Segment{
		Vec2{x * CellSize, (y + 1) * CellSize},
		Vec2{(x + 1) * CellSize, (y + 1) * CellSize},
	}
}

// appendDoorSegments режет дверную стену на тройку фиксированной ширины
func (l *Layout) appendDoorSegments(key, doorID string, seg Segment) {
	pillar := (CellSize - DoorWidth) / 2

	dir := seg.B.Sub(seg.A)
	unit := dir.Scale(1 / dir.Len())

	p1 := seg.A.Add(unit.Scale(pillar))
	p2 := seg.B.Sub(unit.Scale(pillar))

	l.Segments = append(l.Segments,
		WallSegment{ID: key + "_p1", Kind: SegmentPillar, Seg: Segment{seg.A, p1}},
		WallSegment{ID: key + "_open", Kind: SegmentDoor, Seg: Segment{p1, p2}, DoorID: doorID},
		WallSegment{ID: key + "_p2", Kind: SegmentPillar, Seg: Segment{p2, seg.B}},
	)
}
