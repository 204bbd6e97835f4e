package maze

import (
	"fmt"
	"math"
	"sort"
)

// Параметры подземной сети
const (
	maxPipeEdge    = 6 * CellSize // Лимит длины обычного ребра-кандидата
	junctionRadius = 1.0          // Радиус развязки вокруг узла
	redundantShare = 0.10         // Доля избыточных ребер сверх остова
)

// buildPipes прокладывает подземную сеть: по узлу на комнату с дверью,
// второй остов Краскала по коротким ребрам, немного избыточных связей,
// затем стены туннелей и замыкание развязок.
// Вся случайность уже зашита в позиции узлов, поэтому rng тут не нужен.
func (l *Layout) buildPipes() {
	// 1. Узлы: угол клетки, противоположный двери
	for i := range l.Rooms {
		r := &l.Rooms[i]
		if r.Isolated || r.DoorID == "" {
			continue
		}
		var door *Door
		for di := range l.Doors {
			if l.Doors[di].ID == r.DoorID {
				door = &l.Doors[di]
				break
			}
		}
		if door == nil {
			continue
		}
		l.Pipes.Nodes = append(l.Pipes.Nodes, PipeNode{
			ID:     "pnode_" + r.ID,
			RoomID: r.ID,
			Pos:    oppositeCorner(r, door),
		})
	}
	if len(l.Pipes.Nodes) < 2 {
		return
	}

	// 2. Кандидаты: пары узлов не дальше лимита, отсортированные по длине.
	// Сортировка со стабильным тай-брейком держит генерацию детерминированной.
	type cand struct {
		a, b int
		len  float64
	}
	var cands []cand
	nodes := l.Pipes.Nodes
	for a := 0; a < len(nodes); a++ {
		for b := a + 1; b < len(nodes); b++ {
			d := nodes[a].Pos.DistanceTo(nodes[b].Pos)
			if d <= maxPipeEdge {
				cands = append(cands, cand{a, b, d})
			}
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].len != cands[j].len {
			return cands[i].len < cands[j].len
		}
		if cands[i].a != cands[j].a {
			return cands[i].a < cands[j].a
		}
		return cands[i].b < cands[j].b
	})

	// 3. Остов
	uf := newUnionFind(len(nodes))
	used := make(map[[2]int]bool)
	addConn := func(a, b int) {
		l.Pipes.Connections = append(l.Pipes.Connections, PipeConnection{
			ID:     fmt.Sprintf("pipe_%s_%s", nodes[a].ID, nodes[b].ID),
			NodeA:  nodes[a].ID,
			NodeB:  nodes[b].ID,
			Length: nodes[a].Pos.DistanceTo(nodes[b].Pos),
		})
		used[[2]int{a, b}] = true
	}

	for _, c := range cands {
		if uf.union(c.a, c.b) {
			addConn(c.a, c.b)
		}
	}

	// 4. Спасательный проход: лимит длины мог оставить узлы без связей.
	// Подключаем каждую осиротевшую компоненту к ближайшему чужому узлу,
	// уже без ограничения длины.
	for {
		root0 := uf.find(0)
		joined := true
		for i := 1; i < len(nodes); i++ {
			if uf.find(i) != root0 {
				joined = false
				break
			}
		}
		if joined {
			break
		}

		bestA, bestB, bestD := -1, -1, math.MaxFloat64
		for a := 0; a < len(nodes); a++ {
			for b := a + 1; b < len(nodes); b++ {
				if uf.find(a) == uf.find(b) {
					continue
				}
				if d := nodes[a].Pos.DistanceTo(nodes[b].Pos); d < bestD {
					bestA, bestB, bestD = a, b, d
				}
			}
		}
		uf.union(bestA, bestB)
		addConn(bestA, bestB)
	}

	// 5. ~10% избыточных коротких ребер для альтернативных маршрутов
	extra := int(math.Ceil(float64(len(l.Pipes.Connections)) * redundantShare))
	for _, c := range cands {
		if extra == 0 {
			break
		}
		if used[[2]int{c.a, c.b}] {
			continue
		}
		addConn(c.a, c.b)
		extra--
	}

	// 6. Геометрия туннелей
	l.buildPipeWalls()
}

// oppositeCorner - угол клетки комнаты, диагонально противоположный двери
func oppositeCorner(r *Room, d *Door) Vec2 {
	x0 := float64(r.Cell[0]) * CellSize
	y0 := float64(r.Cell[1]) * CellSize

	corner := Vec2{x0, y0}
	best := -1.0
	for _, c := range [4]Vec2{
		{x0, y0},
		{x0 + CellSize, y0},
		{x0, y0 + CellSize},
		{x0 + CellSize, y0 + CellSize},
	} {
		if dist := c.DistanceTo(d.Center); dist > best {
			best = dist
			corner = c
		}
	}
	// Чуть внутрь клетки, чтобы люк не совпадал со стеной
	return corner.Add(r.Center.Sub(corner).Scale(0.15))
}

// buildPipeWalls строит стены туннелей и замыкания развязок.
// Вырожденно короткие туннели пропускаются целиком.
func (l *Layout) buildPipeWalls() {
	pos := make(map[string]Vec2, len(l.Pipes.Nodes))
	for _, n := range l.Pipes.Nodes {
		pos[n.ID] = n.Pos
	}

	// Инцидентные направления для каждого узла
	incident := make(map[string][]Vec2)

	for _, c := range l.Pipes.Connections {
		a, b := pos[c.NodeA], pos[c.NodeB]
		if c.Length < MinTunnelLen || c.Length < 2*junctionRadius {
			continue
		}
		u := b.Sub(a).Scale(1 / c.Length)
		perp := Vec2{-u.Y, u.X}

		incident[c.NodeA] = append(incident[c.NodeA], u)
		incident[c.NodeB] = append(incident[c.NodeB], u.Scale(-1))

		start := a.Add(u.Scale(junctionRadius))
		end := b.Sub(u.Scale(junctionRadius))
		off := perp.Scale(PipeHalfWidth)

		l.Pipes.Walls = append(l.Pipes.Walls,
			Segment{start.Add(off), end.Add(off)},
			Segment{start.Sub(off), end.Sub(off)},
		)
	}

	// Замыкание развязок: сортируем направления по углу и соединяем
	// устья соседних туннелей хордами.
	ids := make([]string, 0, len(incident))
	for id := range incident {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		dirs := incident[id]
		center := pos[id]
		sort.Slice(dirs, func(i, j int) bool {
			return math.Atan2(dirs[i].Y, dirs[i].X) < math.Atan2(dirs[j].Y, dirs[j].X)
		})

		if len(dirs) == 1 {
			// Тупик: закрываем развязку сзади клином
			u := dirs[0]
			perp := Vec2{-u.Y, u.X}
			left := center.Add(u.Scale(junctionRadius)).Add(perp.Scale(PipeHalfWidth))
			right := center.Add(u.Scale(junctionRadius)).Sub(perp.Scale(PipeHalfWidth))
			back := center.Sub(u.Scale(junctionRadius))
			l.Pipes.Walls = append(l.Pipes.Walls,
				Segment{left, back},
				Segment{back, right},
			)
			continue
		}

		for i := range dirs {
			cur := dirs[i]
			next := dirs[(i+1)%len(dirs)]
			curPerp := Vec2{-cur.Y, cur.X}
			nextPerp := Vec2{-next.Y, next.X}

			// Левое устье текущего туннеля к правому устью следующего
			from := center.Add(cur.Scale(junctionRadius)).Add(curPerp.Scale(PipeHalfWidth))
			to := center.Add(next.Scale(junctionRadius)).Sub(nextPerp.Scale(PipeHalfWidth))
			l.Pipes.Walls = append(l.Pipes.Walls, Segment{from, to})
		}
	}
}
