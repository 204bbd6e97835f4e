package systems

import (
	"math"
	"testing"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

func powerLayout() *maze.Layout {
	return &maze.Layout{
		Rooms: []maze.Room{
			{ID: "r1", Cell: [2]int{2, 2}, Center: maze.CellCenter(2, 2), DoorID: "d1", LightID: "light_r1"},
			{ID: "r2", Cell: [2]int{7, 7}, Center: maze.CellCenter(7, 7), DoorID: "d2", LightID: "light_r2"},
		},
		Doors:      []maze.Door{{ID: "d1"}, {ID: "d2"}},
		Generators: []maze.OxygenGenerator{{ID: "g1", RoomID: "r1", Pos: maze.CellCenter(2, 2)}},
		Pipes: maze.PipeNetwork{
			Nodes: []maze.PipeNode{
				{ID: "pipe_r1", RoomID: "r1", Pos: maze.CellCenter(2, 2)},
				{ID: "pipe_r2", RoomID: "r2", Pos: maze.CellCenter(7, 7)},
			},
		},
	}
}

func powerCtx(now float64) *PowerContext {
	l := powerLayout()
	return &PowerContext{
		Layout:  l,
		Snap:    domain.NewMazeSnapshot(l),
		Players: make(map[domain.PlayerToken]*domain.GamePlayerState),
		Now:     now,
	}
}

func poweredPlayer(ctx *PowerContext, token string, t domain.PowerType) *domain.GamePlayerState {
	p := domain.NewPlayer(domain.PlayerToken(token), "Bearer-"+token)
	p.Pos = maze.CellCenter(5, 5)
	InitPower(p, t)
	ctx.Players[p.Token] = p
	return p
}

// Каждая длящаяся сила с побочным эффектом обязана откатываться в точности
// к значениям до активации, даже если базовое значение было нестандартным
func TestRevertSymmetry(t *testing.T) {
	type reader func(p *domain.GamePlayerState) interface{}

	tests := []struct {
		name  string
		power domain.PowerType
		prep  func(p *domain.GamePlayerState)
		read  reader
	}{
		{
			name:  "invisibility",
			power: domain.PowerInvisibility,
			read:  func(p *domain.GamePlayerState) interface{} { return p.Visible },
		},
		{
			name:  "sprint_stacked_base",
			power: domain.PowerSprint,
			prep:  func(p *domain.GamePlayerState) { p.SpeedMult = 0.8 },
			read:  func(p *domain.GamePlayerState) interface{} { return p.SpeedMult },
		},
		{
			name:  "phase",
			power: domain.PowerPhase,
			read:  func(p *domain.GamePlayerState) interface{} { return p.NoClip },
		},
		{
			name:  "shield",
			power: domain.PowerShield,
			read:  func(p *domain.GamePlayerState) interface{} { return p.Shielded },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := powerCtx(0)
			p := poweredPlayer(ctx, "p1", tt.power)
			if tt.prep != nil {
				tt.prep(p)
			}
			before := tt.read(p)

			if !ActivatePower(ctx, p, PowerRequest{}) {
				t.Fatal("activation rejected")
			}
			if !p.Power.Active {
				t.Fatal("power not marked active")
			}
			if tt.read(p) == before {
				t.Fatal("activation had no visible effect")
			}

			ctx.Now = 1
			DeactivatePower(ctx, p)
			if got := tt.read(p); got != before {
				t.Errorf("revert incomplete: %v, want %v", got, before)
			}
			if p.Power.Active {
				t.Error("still active after deactivation")
			}
			def, _ := Def(tt.power)
			if p.Power.CooldownUntil != 1+def.Cooldown {
				t.Errorf("cooldown until %.1f, want %.1f", p.Power.CooldownUntil, 1+def.Cooldown)
			}
		})
	}
}

func TestExpiryRevertsAutomatically(t *testing.T) {
	ctx := powerCtx(0)
	p := poweredPlayer(ctx, "p1", domain.PowerSprint)
	ActivatePower(ctx, p, PowerRequest{})

	ctx.Now = sprintDuration - 0.01
	TickPowers(ctx, ctx.Players)
	if !p.Power.Active {
		t.Fatal("expired early")
	}

	ctx.Now = sprintDuration
	TickPowers(ctx, ctx.Players)
	if p.Power.Active {
		t.Error("did not expire on time")
	}
	if p.SpeedMult != 1.0 {
		t.Errorf("SpeedMult=%.2f after expiry, want 1", p.SpeedMult)
	}
}

func TestActivationGuards(t *testing.T) {
	ctx := powerCtx(0)

	dead := poweredPlayer(ctx, "dead", domain.PowerSprint)
	dead.Alive = false
	if ActivatePower(ctx, dead, PowerRequest{}) {
		t.Error("dead player activated a power")
	}

	busy := poweredPlayer(ctx, "busy", domain.PowerSprint)
	ActivatePower(ctx, busy, PowerRequest{})
	if ActivatePower(ctx, busy, PowerRequest{}) {
		t.Error("double activation allowed")
	}

	cooling := poweredPlayer(ctx, "cool", domain.PowerSprint)
	cooling.Power.CooldownUntil = 100
	if ActivatePower(ctx, cooling, PowerRequest{}) {
		t.Error("activation during cooldown allowed")
	}

	none := poweredPlayer(ctx, "none", domain.PowerNone)
	if ActivatePower(ctx, none, PowerRequest{}) {
		t.Error("powerless player activated something")
	}
}

func TestBarrierPlacement(t *testing.T) {
	ctx := powerCtx(0)
	p := poweredPlayer(ctx, "p1", domain.PowerBarrier)
	p.Yaw = 0.7

	if !ActivatePower(ctx, p, PowerRequest{}) {
		t.Fatal("barrier rejected")
	}
	b := ctx.Snap.Barriers[p.Token]
	if b == nil {
		t.Fatal("no barrier in snapshot")
	}
	if got := b.Seg.A.DistanceTo(b.Seg.B); math.Abs(got-domain.BarrierLength) > 1e-9 {
		t.Errorf("barrier length %.3f, want %.1f", got, domain.BarrierLength)
	}
	if b.ExpiresAt != domain.BarrierDuration {
		t.Errorf("barrier expires at %.1f, want %.1f", b.ExpiresAt, domain.BarrierDuration)
	}
	if p.Power.Charges != barrierCharges-1 {
		t.Errorf("charges=%d after use, want %d", p.Power.Charges, barrierCharges-1)
	}
	if p.Power.Active {
		t.Error("instant power marked active")
	}
	if p.Power.CooldownUntil != barrierCooldown {
		t.Errorf("cooldown until %.1f, want %.1f", p.Power.CooldownUntil, barrierCooldown)
	}
}

// Перезарядка: ровно один заряд на истекший кулдаун, не скопом
func TestRechargeOnePerCooldown(t *testing.T) {
	ctx := powerCtx(0)
	p := poweredPlayer(ctx, "p1", domain.PowerBlink)
	aim := p.Pos.Add(maze.Vec2{X: 1})

	ActivatePower(ctx, p, PowerRequest{Aim: &aim})
	ctx.Now = blinkCooldown
	aim = p.Pos.Add(maze.Vec2{X: 1})
	ActivatePower(ctx, p, PowerRequest{Aim: &aim})
	if p.Power.Charges != 0 {
		t.Fatalf("charges=%d after two uses, want 0", p.Power.Charges)
	}

	ctx.Now = 2 * blinkCooldown
	TickPowers(ctx, ctx.Players)
	if p.Power.Charges != 1 {
		t.Fatalf("charges=%d after one cooldown, want 1", p.Power.Charges)
	}

	// Следующий заряд требует следующего кулдауна
	ctx.Now = 2*blinkCooldown + 1
	TickPowers(ctx, ctx.Players)
	if p.Power.Charges != 1 {
		t.Fatalf("charge granted before cooldown elapsed")
	}
	ctx.Now = 3 * blinkCooldown
	TickPowers(ctx, ctx.Players)
	if p.Power.Charges != 2 {
		t.Fatalf("charges=%d, want full 2", p.Power.Charges)
	}

	// Полный боезапас больше не растет
	ctx.Now = 10 * blinkCooldown
	TickPowers(ctx, ctx.Players)
	if p.Power.Charges != 2 {
		t.Errorf("charges overflowed to %d", p.Power.Charges)
	}
}

func TestBlinkValidation(t *testing.T) {
	ctx := powerCtx(0)
	p := poweredPlayer(ctx, "p1", domain.PowerBlink)
	start := p.Pos

	if ActivatePower(ctx, p, PowerRequest{}) {
		t.Error("blink without aim accepted")
	}

	far := start.Add(maze.Vec2{X: blinkRange + 1})
	if ActivatePower(ctx, p, PowerRequest{Aim: &far}) {
		t.Error("blink beyond range accepted")
	}

	outside := maze.Vec2{X: -1, Y: start.Y}
	if ActivatePower(ctx, p, PowerRequest{Aim: &outside}) {
		t.Error("blink outside world accepted")
	}

	blocked := start.Add(maze.Vec2{X: 2})
	ctx.Solids = []maze.Segment{{A: blocked.Add(maze.Vec2{Y: -1}), B: blocked.Add(maze.Vec2{Y: 1})}}
	if ActivatePower(ctx, p, PowerRequest{Aim: &blocked}) {
		t.Error("blink into a wall accepted")
	}
	if p.Pos != start {
		t.Fatal("rejected blinks moved the player")
	}

	good := start.Add(maze.Vec2{X: 5})
	ctx.Solids = nil
	if !ActivatePower(ctx, p, PowerRequest{Aim: &good}) {
		t.Fatal("valid blink rejected")
	}
	if p.Pos != good {
		t.Errorf("player at %v after blink, want %v", p.Pos, good)
	}
}

func TestMorphLifecycle(t *testing.T) {
	ctx := powerCtx(0)
	morpher := poweredPlayer(ctx, "m", domain.PowerMorph)
	victim := poweredPlayer(ctx, "v", domain.PowerSprint)
	origName := morpher.Name

	if !ActivatePower(ctx, morpher, PowerRequest{Target: victim.Token}) {
		t.Fatal("morph rejected")
	}
	if morpher.Name != victim.Name {
		t.Errorf("name %q after morph, want %q", morpher.Name, victim.Name)
	}
	if morpher.Power.Type != domain.PowerSprint || morpher.Power.CopiedType != domain.PowerSprint {
		t.Errorf("copied power: type=%v copied=%v", morpher.Power.Type, morpher.Power.CopiedType)
	}
	if morpher.Power.Morph == nil {
		t.Fatal("no morph backup")
	}
	if morpher.Power.CooldownUntil != 0 {
		t.Error("copied power starts on cooldown")
	}

	// Скопированная сила работает по-настоящему
	ctx.Now = 1
	if !ActivatePower(ctx, morpher, PowerRequest{}) {
		t.Fatal("copied sprint rejected")
	}
	if morpher.SpeedMult != domain.SprintMult {
		t.Errorf("SpeedMult=%.1f with copied sprint", morpher.SpeedMult)
	}

	// Истечение часов трансформации возвращает все
	ctx.Now = morphDuration
	TickPowers(ctx, ctx.Players)
	if morpher.Name != origName {
		t.Errorf("name %q after revert, want %q", morpher.Name, origName)
	}
	if morpher.Power.Type != domain.PowerMorph {
		t.Errorf("power %v after revert, want MORPH", morpher.Power.Type)
	}
	if morpher.SpeedMult != 1.0 {
		t.Errorf("SpeedMult=%.1f after revert", morpher.SpeedMult)
	}
	if morpher.Power.Morph != nil || morpher.Power.CopiedType != domain.PowerNone {
		t.Error("morph bookkeeping not cleared")
	}
	if morpher.Power.CooldownUntil != morphCooldown {
		t.Errorf("morph cooldown %.1f, want %.1f", morpher.Power.CooldownUntil, morphCooldown)
	}
}

func TestMorphRejectsMorpher(t *testing.T) {
	ctx := powerCtx(0)
	a := poweredPlayer(ctx, "a", domain.PowerMorph)
	b := poweredPlayer(ctx, "b", domain.PowerMorph)

	if ActivatePower(ctx, a, PowerRequest{Target: b.Token}) {
		t.Error("morph into another morpher accepted")
	}
	if ActivatePower(ctx, a, PowerRequest{Target: a.Token}) {
		t.Error("self-morph accepted")
	}
}

func TestPossessionTargeting(t *testing.T) {
	ctx := powerCtx(0)
	shadow := poweredPlayer(ctx, "s", domain.PowerPossession)
	crew := poweredPlayer(ctx, "c", domain.PowerShield)
	corpse := poweredPlayer(ctx, "d", domain.PowerShield)
	corpse.Alive = false
	corpse.Ghost = true

	if ActivatePower(ctx, shadow, PowerRequest{Target: shadow.Token}) {
		t.Error("self-possession accepted")
	}
	if ActivatePower(ctx, shadow, PowerRequest{Target: corpse.Token}) {
		t.Error("possessed a ghost")
	}
	if ActivatePower(ctx, shadow, PowerRequest{Target: "nobody"}) {
		t.Error("possessed a missing player")
	}

	if !ActivatePower(ctx, shadow, PowerRequest{Target: crew.Token}) {
		t.Fatal("valid possession rejected")
	}
	if shadow.Power.Target != crew.Token {
		t.Errorf("target=%q, want %q", shadow.Power.Target, crew.Token)
	}

	ctx.Now = 1
	DeactivatePower(ctx, shadow)
	if shadow.Power.Target != "" {
		t.Error("target survived deactivation")
	}
}

func TestSabotageModes(t *testing.T) {
	t.Run("doors", func(t *testing.T) {
		ctx := powerCtx(5)
		p := poweredPlayer(ctx, "s", domain.PowerSabotage)
		if !ActivatePower(ctx, p, PowerRequest{Mode: "doors"}) {
			t.Fatal("sabotage rejected")
		}
		for _, d := range ctx.Layout.Doors {
			if ctx.Snap.DoorOpen[d.ID] || !ctx.Snap.DoorLocked[d.ID] {
				t.Errorf("door %s: open=%v locked=%v", d.ID, ctx.Snap.DoorOpen[d.ID], ctx.Snap.DoorLocked[d.ID])
			}
			if ctx.Snap.DoorLockExpiry[d.ID] != 5+domain.SabotageLockDuration {
				t.Errorf("door %s lock expiry %.1f", d.ID, ctx.Snap.DoorLockExpiry[d.ID])
			}
		}
		if p.Power.Charges != 0 {
			t.Errorf("charges=%d after sabotage, want 0", p.Power.Charges)
		}
		// Герметизация запирает и люки труб
		for _, n := range ctx.Layout.Pipes.Nodes {
			if !ctx.Snap.PipeLocked[n.ID] {
				t.Errorf("pipe node %s not locked by doors sabotage", n.ID)
			}
		}
		if ctx.Snap.PipesRestoreAt != 5+domain.SabotageLockDuration {
			t.Errorf("pipes restore at %.1f", ctx.Snap.PipesRestoreAt)
		}
	})

	t.Run("lights", func(t *testing.T) {
		ctx := powerCtx(5)
		p := poweredPlayer(ctx, "s", domain.PowerSabotage)
		if !ActivatePower(ctx, p, PowerRequest{Mode: "lights"}) {
			t.Fatal("sabotage rejected")
		}
		for id, on := range ctx.Snap.Lights {
			if on {
				t.Errorf("light %s still on", id)
			}
		}
		if ctx.Snap.LightsRestoreAt != 5+domain.SabotageLockDuration {
			t.Errorf("lights restore at %.1f", ctx.Snap.LightsRestoreAt)
		}
	})

	t.Run("oxygen", func(t *testing.T) {
		ctx := powerCtx(5)
		p := poweredPlayer(ctx, "s", domain.PowerSabotage)
		if !ActivatePower(ctx, p, PowerRequest{Mode: "oxygen"}) {
			t.Fatal("sabotage rejected")
		}
		if !ctx.Snap.OxygenSabotaged {
			t.Error("oxygen drain not armed")
		}
		if ctx.Snap.GeneratorDisabledUntil["g1"] != 5+domain.GeneratorDisableTime {
			t.Errorf("generator disabled until %.1f", ctx.Snap.GeneratorDisabledUntil["g1"])
		}
	})
}

// Реестр обязан покрывать весь закрытый перечень сил, а трансформация -
// уметь скопировать любую из них, кроме себя самой
func TestPowerRegistryComplete(t *testing.T) {
	all := []domain.PowerType{
		domain.PowerInvisibility, domain.PowerSprint, domain.PowerPhase,
		domain.PowerBarrier, domain.PowerShield, domain.PowerOracle,
		domain.PowerSabotage, domain.PowerMorph, domain.PowerPossession,
		domain.PowerBlink,
	}
	for _, pt := range all {
		def, ok := Def(pt)
		if !ok {
			t.Fatalf("power %s missing from registry", pt)
		}
		if def.Type != pt {
			t.Errorf("power %s registered as %s", pt, def.Type)
		}
		if def.apply == nil {
			t.Errorf("power %s has no apply", pt)
		}
	}

	for _, pt := range all {
		if pt == domain.PowerMorph {
			continue
		}
		ctx := powerCtx(0)
		m := poweredPlayer(ctx, "m", domain.PowerMorph)
		tgt := poweredPlayer(ctx, "t", pt)
		if !ActivatePower(ctx, m, PowerRequest{Target: tgt.Token}) {
			t.Errorf("morph could not copy %s", pt)
		}
	}
}
