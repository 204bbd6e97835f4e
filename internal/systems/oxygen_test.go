package systems

import (
	"math"
	"testing"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

func oxygenCtx(now float64) *OxygenContext {
	l := &maze.Layout{
		Rooms: []maze.Room{{
			ID: "r1", Cell: [2]int{2, 2}, Center: maze.CellCenter(2, 2),
			DoorID: "d1", LightID: "light_r1",
		}},
		Doors:      []maze.Door{{ID: "d1"}},
		Generators: []maze.OxygenGenerator{{ID: "g1", RoomID: "r1", Pos: maze.CellCenter(2, 2)}},
	}
	return &OxygenContext{
		Layout:  l,
		Snap:    domain.NewMazeSnapshot(l),
		Players: make(map[domain.PlayerToken]*domain.GamePlayerState),
		Now:     now,
		Dt:      1.0 / 15,
	}
}

func oxygenPlayer(ctx *OxygenContext, token string, pos maze.Vec2) *domain.GamePlayerState {
	p := domain.NewPlayer(domain.PlayerToken(token), "Crew-"+token)
	p.Pos = pos
	ctx.Players[p.Token] = p
	return p
}

func TestSabotageDrainsShipOxygen(t *testing.T) {
	ctx := oxygenCtx(0)
	ctx.Snap.OxygenSabotaged = true

	TickOxygen(ctx)
	want := domain.ShipOxygenMax - domain.OxygenDepleteRate*ctx.Dt
	if math.Abs(ctx.Snap.ShipOxygen-want) > 1e-9 {
		t.Errorf("ShipOxygen=%.4f, want %.4f", ctx.Snap.ShipOxygen, want)
	}

	// Пол на нуле
	ctx.Snap.ShipOxygen = 0.01
	ctx.Dt = 1
	TickOxygen(ctx)
	if ctx.Snap.ShipOxygen != 0 {
		t.Errorf("ShipOxygen=%.4f, want floor 0", ctx.Snap.ShipOxygen)
	}
}

func TestRefillLifecycle(t *testing.T) {
	ctx := oxygenCtx(0)
	p := oxygenPlayer(ctx, "p1", maze.CellCenter(2, 2))
	ctx.Snap.ShipOxygen = 20
	ctx.Snap.OxygenSabotaged = true

	if !StartOxygenRefill(ctx, p, "") {
		t.Fatal("refill at generator rejected")
	}
	if p.RefillingGen != "g1" || p.RefillDoneAt != domain.OxygenRefillTime {
		t.Fatalf("refill state: gen=%q doneAt=%.1f", p.RefillingGen, p.RefillDoneAt)
	}

	// Повторный запуск во время заправки отвергается
	if StartOxygenRefill(ctx, p, "") {
		t.Error("double refill accepted")
	}

	ctx.Now = domain.OxygenRefillTime - 0.1
	TickOxygen(ctx)
	if p.RefillingGen == "" {
		t.Fatal("refill finished early")
	}

	ctx.Now = domain.OxygenRefillTime
	TickOxygen(ctx)
	if p.RefillingGen != "" {
		t.Error("refill not cleared after completion")
	}
	if ctx.Snap.OxygenSabotaged {
		t.Error("completed refill did not clear sabotage")
	}
	if ctx.Snap.ShipOxygen < 69 {
		t.Errorf("ShipOxygen=%.2f after refill, want ~70", ctx.Snap.ShipOxygen)
	}
}

func TestRefillGainCapped(t *testing.T) {
	ctx := oxygenCtx(0)
	p := oxygenPlayer(ctx, "p1", maze.CellCenter(2, 2))
	ctx.Snap.ShipOxygen = 90

	StartOxygenRefill(ctx, p, "")
	ctx.Now = domain.OxygenRefillTime
	TickOxygen(ctx)
	if ctx.Snap.ShipOxygen != domain.ShipOxygenMax {
		t.Errorf("ShipOxygen=%.2f, want cap %.0f", ctx.Snap.ShipOxygen, domain.ShipOxygenMax)
	}
}

func TestRefillCanceledWhenLeaving(t *testing.T) {
	ctx := oxygenCtx(0)
	p := oxygenPlayer(ctx, "p1", maze.CellCenter(2, 2))
	ctx.Snap.ShipOxygen = 20

	StartOxygenRefill(ctx, p, "")
	p.Pos = maze.CellCenter(9, 9)
	ctx.Now = domain.OxygenRefillTime + 1
	TickOxygen(ctx)

	if p.RefillingGen != "" || p.RefillDoneAt != 0 {
		t.Error("refill survived walking away")
	}
	if ctx.Snap.ShipOxygen > 20 {
		t.Errorf("canceled refill still granted oxygen: %.2f", ctx.Snap.ShipOxygen)
	}
}

func TestRefillCanceledByDeath(t *testing.T) {
	ctx := oxygenCtx(0)
	p := oxygenPlayer(ctx, "p1", maze.CellCenter(2, 2))

	StartOxygenRefill(ctx, p, "")
	p.Alive = false
	p.Ghost = true
	ctx.Now = domain.OxygenRefillTime
	TickOxygen(ctx)

	if p.RefillingGen != "" {
		t.Error("dead player kept refilling")
	}
}

func TestRefillBlockedByDisabledGenerator(t *testing.T) {
	ctx := oxygenCtx(0)
	p := oxygenPlayer(ctx, "p1", maze.CellCenter(2, 2))
	ctx.Snap.GeneratorDisabledUntil["g1"] = 10

	if StartOxygenRefill(ctx, p, "") {
		t.Error("refill at disabled generator accepted")
	}

	// После истечения блокировки генератор снова работает
	ctx.Now = 10
	if !StartOxygenRefill(ctx, p, "") {
		t.Error("refill rejected after generator re-enabled")
	}
}

// Явно указанный генератор обслуживается только он сам:
// чужой или недосягаемый ID не подменяется ближайшим
func TestRefillTargetedGenerator(t *testing.T) {
	l := &maze.Layout{
		Rooms: []maze.Room{
			{ID: "r1", Cell: [2]int{2, 2}, Center: maze.CellCenter(2, 2), DoorID: "d1", LightID: "light_r1"},
			{ID: "r2", Cell: [2]int{8, 8}, Center: maze.CellCenter(8, 8), DoorID: "d2", LightID: "light_r2"},
		},
		Doors: []maze.Door{{ID: "d1"}, {ID: "d2"}},
		Generators: []maze.OxygenGenerator{
			{ID: "g1", RoomID: "r1", Pos: maze.CellCenter(2, 2)},
			{ID: "g2", RoomID: "r2", Pos: maze.CellCenter(8, 8)},
		},
	}
	ctx := &OxygenContext{
		Layout:  l,
		Snap:    domain.NewMazeSnapshot(l),
		Players: make(map[domain.PlayerToken]*domain.GamePlayerState),
		Now:     0,
		Dt:      1.0 / 15,
	}
	p := oxygenPlayer(ctx, "p1", maze.CellCenter(2, 2))

	if StartOxygenRefill(ctx, p, "g2") {
		t.Error("refill started at a generator out of reach")
	}
	if StartOxygenRefill(ctx, p, "g9") {
		t.Error("refill started at an unknown generator")
	}
	if !StartOxygenRefill(ctx, p, "g1") {
		t.Fatal("refill at the named generator rejected")
	}
	if p.RefillingGen != "g1" {
		t.Errorf("RefillingGen=%q, want g1", p.RefillingGen)
	}
}

func TestRefillOutOfRange(t *testing.T) {
	ctx := oxygenCtx(0)
	p := oxygenPlayer(ctx, "p1", maze.CellCenter(9, 9))
	if StartOxygenRefill(ctx, p, "") {
		t.Error("refill far from any generator accepted")
	}
}

// Запертая комната выдыхается, открытая - проветривается до максимума
func TestRoomOxygenSealAndVent(t *testing.T) {
	ctx := oxygenCtx(0)
	ctx.Snap.DoorOpen["d1"] = false

	TickOxygen(ctx)
	want := domain.ShipOxygenMax - domain.OxygenDepleteRate*ctx.Dt
	if got := ctx.Snap.RoomOxygen["r1"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("sealed room oxygen=%.4f, want %.4f", got, want)
	}

	// Пол на нуле
	ctx.Snap.RoomOxygen["r1"] = 0.01
	ctx.Dt = 1
	TickOxygen(ctx)
	if got := ctx.Snap.RoomOxygen["r1"]; got != 0 {
		t.Errorf("sealed room oxygen=%.4f, want floor 0", got)
	}

	// Открытие двери проветривает
	ctx.Snap.DoorOpen["d1"] = true
	ctx.Dt = 1.0 / 15
	TickOxygen(ctx)
	if got := ctx.Snap.RoomOxygen["r1"]; got <= 0 {
		t.Error("open room did not recover oxygen")
	}

	// Проветривание капается на максимуме
	ctx.Snap.RoomOxygen["r1"] = domain.ShipOxygenMax - 1e-6
	TickOxygen(ctx)
	if got := ctx.Snap.RoomOxygen["r1"]; got != domain.ShipOxygenMax {
		t.Errorf("room oxygen overshot: %.6f", got)
	}
}

// Запертая саботажем дверь тоже герметизирует комнату
func TestLockedDoorSealsRoom(t *testing.T) {
	ctx := oxygenCtx(0)
	ctx.Snap.DoorLocked["d1"] = true // Открыта, но заперта

	TickOxygen(ctx)
	if got := ctx.Snap.RoomOxygen["r1"]; got >= domain.ShipOxygenMax {
		t.Error("locked door did not seal the room")
	}
}
