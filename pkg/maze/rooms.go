package maze

import (
	"fmt"
	"math/rand"
	"sort"
)

// Тематический пул имен. Порядок фиксирован, тасуется сидом.
var roomNames = []string{
	"Reactor",
	"Greenhouse",
	"Observatory",
	"Medbay",
	"Armory",
	"Laboratory",
	"Storage",
	"Communications",
	"Navigation",
	"Engine Room",
	"Life Support",
	"Server Vault",
	"Workshop",
	"Hydroponics",
	"Cryo Chamber",
	"Archive",
}

// Фиксированная карта имя -> тип задания.
// Комнаты без записи получают generic-задание.
var roomTaskTypes = map[string]string{
	"Reactor":        "calibrate_core",
	"Greenhouse":     "water_plants",
	"Observatory":    "align_telescope",
	"Medbay":         "run_diagnostics",
	"Armory":         "count_munitions",
	"Laboratory":     "mix_samples",
	"Storage":        "sort_crates",
	"Communications": "route_signal",
	"Navigation":     "plot_course",
	"Engine Room":    "prime_engines",
	"Life Support":   "clean_filters",
	"Server Vault":   "reboot_servers",
	"Workshop":       "repair_tools",
	"Hydroponics":    "adjust_nutrients",
	"Cryo Chamber":   "check_pods",
	"Archive":        "file_records",
}

// Комнаты, в которых предпочтительно ставить генераторы кислорода
var generatorRooms = map[string]bool{
	"Life Support": true,
	"Reactor":      true,
	"Greenhouse":   true,
}

const genericTaskType = "generic_maintenance"

// nameRooms раздает комнатам тематические имена.
// Изолированные комнаты получают служебные имена - туда все равно не войти.
func (l *Layout) nameRooms(rng *rand.Rand) {
	names := make([]string, len(roomNames))
	copy(names, roomNames)
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	ni := 0
	sealed := 0
	for i := range l.Rooms {
		r := &l.Rooms[i]
		if r.Isolated {
			sealed++
			r.Name = fmt.Sprintf("Sealed Vault %d", sealed)
			continue
		}
		if ni < len(names) {
			r.Name = names[ni]
		} else {
			r.Name = fmt.Sprintf("Utility %d", ni-len(names)+1)
		}
		ni++
	}
}

// placeTasks распределяет квоту заданий по комнатам с дверями.
// Квота масштабируется от числа игроков: max(10, playerCount*5).
func (l *Layout) placeTasks(rng *rand.Rand, playerCount int) {
	quota := playerCount * 5
	if quota < 10 {
		quota = 10
	}

	// Комнаты-кандидаты в стабильном порядке, затем сидовая тасовка
	var hosts []int
	for i := range l.Rooms {
		if !l.Rooms[i].Isolated {
			hosts = append(hosts, i)
		}
	}
	if len(hosts) == 0 {
		return
	}
	rng.Shuffle(len(hosts), func(i, j int) { hosts[i], hosts[j] = hosts[j], hosts[i] })

	for t := 0; t < quota; t++ {
		room := &l.Rooms[hosts[t%len(hosts)]]

		taskType, ok := roomTaskTypes[room.Name]
		if !ok {
			taskType = genericTaskType
		}

		// Ярусы сложности: 1 - частый, 3 - редкий
		tier := 1
		switch roll := rng.Float64(); {
		case roll > 0.85:
			tier = 3
		case roll > 0.55:
			tier = 2
		}

		jitter := Vec2{
			X: (rng.Float64() - 0.5) * CellSize * 0.5,
			Y: (rng.Float64() - 0.5) * CellSize * 0.5,
		}

		l.Tasks = append(l.Tasks, Task{
			ID:     fmt.Sprintf("task_%d", t),
			RoomID: room.ID,
			Type:   taskType,
			Tier:   tier,
			Pos:    room.Center.Add(jitter),
		})
	}
}

var decorationKinds = []string{"crate", "console", "plant", "barrel", "fire"}

// placeDecorations раскладывает реквизит по комнатам.
// Kind=="fire" потом дает урон по близости в движке опасностей.
func (l *Layout) placeDecorations(rng *rand.Rand) {
	n := 0
	for i := range l.Rooms {
		r := &l.Rooms[i]
		count := 1 + rng.Intn(2)
		for k := 0; k < count; k++ {
			kind := decorationKinds[rng.Intn(len(decorationKinds))]
			off := Vec2{
				X: (rng.Float64() - 0.5) * CellSize * 0.6,
				Y: (rng.Float64() - 0.5) * CellSize * 0.6,
			}
			l.Decorations = append(l.Decorations, Decoration{
				ID:   fmt.Sprintf("deco_%d", n),
				Kind: kind,
				Pos:  r.Center.Add(off),
			})
			n++
		}
	}
}

// placeShelters регистрирует площадь как всегда-безопасную зону.
// Укрытие в комнатах вычисляется динамически по закрытым дверям.
func (l *Layout) placeShelters() {
	p0 := plazaOrigin()
	center := Vec2{
		X: (float64(p0) + float64(PlazaSize)/2) * CellSize,
		Y: (float64(p0) + float64(PlazaSize)/2) * CellSize,
	}
	l.Shelters = append(l.Shelters, ShelterZone{
		ID:     "shelter_plaza",
		Center: center,
		Radius: float64(PlazaSize) * CellSize / 2,
	})
}

const generatorCount = 2

// placeGenerators ставит генераторы кислорода.
// Сначала тематические комнаты, при нехватке - случайные с дверью.
func (l *Layout) placeGenerators(rng *rand.Rand) {
	var preferred, fallback []int
	for i := range l.Rooms {
		if l.Rooms[i].Isolated {
			continue
		}
		if generatorRooms[l.Rooms[i].Name] {
			preferred = append(preferred, i)
		} else {
			fallback = append(fallback, i)
		}
	}
	sort.Ints(preferred)
	sort.Ints(fallback)
	rng.Shuffle(len(fallback), func(i, j int) { fallback[i], fallback[j] = fallback[j], fallback[i] })

	picked := preferred
	if len(picked) > generatorCount {
		picked = picked[:generatorCount]
	}
	for len(picked) < generatorCount && len(fallback) > 0 {
		picked = append(picked, fallback[0])
		fallback = fallback[1:]
	}

	for gi, ri := range picked {
		r := &l.Rooms[ri]
		l.Generators = append(l.Generators, OxygenGenerator{
			ID:     fmt.Sprintf("o2gen_%d", gi),
			RoomID: r.ID,
			Pos:    r.Center,
		})
	}
}
