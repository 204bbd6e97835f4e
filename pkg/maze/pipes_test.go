package maze

import "testing"

// Узел трубы полагается каждой комнате с дверью, и только им
func TestPipeNodesMatchDoorRooms(t *testing.T) {
	l := Generate(1234, 4)

	want := make(map[string]bool)
	for _, r := range l.Rooms {
		if !r.Isolated && r.DoorID != "" {
			want[r.ID] = true
		}
	}

	got := make(map[string]bool)
	for _, n := range l.Pipes.Nodes {
		if got[n.RoomID] {
			t.Errorf("room %s has two pipe nodes", n.RoomID)
		}
		got[n.RoomID] = true
		if !want[n.RoomID] {
			t.Errorf("pipe node %s in room without a door", n.ID)
		}
		if l.NodeByID(n.ID) == nil {
			t.Errorf("node %s not in index", n.ID)
		}
	}
	for roomID := range want {
		if !got[roomID] {
			t.Errorf("door room %s has no pipe node", roomID)
		}
	}
}

// Сеть труб связна: спасательный проход обязан дотянуть всех
func TestPipeNetworkConnected(t *testing.T) {
	for _, seed := range []int64{1, 1234, 424242} {
		l := Generate(seed, 4)
		nodes := l.Pipes.Nodes
		if len(nodes) < 2 {
			continue
		}

		idx := make(map[string]int, len(nodes))
		for i, n := range nodes {
			idx[n.ID] = i
		}

		uf := newUnionFind(len(nodes))
		for _, c := range l.Pipes.Connections {
			a, okA := idx[c.NodeA]
			b, okB := idx[c.NodeB]
			if !okA || !okB {
				t.Fatalf("seed %d: connection %s references unknown node", seed, c.ID)
			}
			if c.Length <= 0 {
				t.Errorf("seed %d: connection %s has length %.3f", seed, c.ID, c.Length)
			}
			uf.union(a, b)
		}

		root := uf.find(0)
		for i := 1; i < len(nodes); i++ {
			if uf.find(i) != root {
				t.Fatalf("seed %d: pipe node %s disconnected", seed, nodes[i].ID)
			}
		}
	}
}

// Стены туннелей существуют и идут парами вдоль каждой длинной трубы
func TestPipeWallsBuilt(t *testing.T) {
	l := Generate(1234, 4)
	if len(l.Pipes.Nodes) < 2 {
		t.Skip("layout has no pipe network")
	}

	long := 0
	for _, c := range l.Pipes.Connections {
		if c.Length >= MinTunnelLen && c.Length >= 2*junctionRadius {
			long++
		}
	}
	if long == 0 {
		t.Fatal("no tunnels above minimum length")
	}
	// Два борта на туннель плюс замыкания развязок
	if len(l.Pipes.Walls) < long*2 {
		t.Errorf("pipe walls = %d, want at least %d", len(l.Pipes.Walls), long*2)
	}
}

func TestPipeDeterminism(t *testing.T) {
	a := Generate(777, 4)
	b := Generate(777, 4)

	if len(a.Pipes.Connections) != len(b.Pipes.Connections) {
		t.Fatal("pipe connection count differs between runs")
	}
	for i := range a.Pipes.Connections {
		if a.Pipes.Connections[i].ID != b.Pipes.Connections[i].ID {
			t.Fatalf("connection %d differs: %s vs %s",
				i, a.Pipes.Connections[i].ID, b.Pipes.Connections[i].ID)
		}
	}
}
