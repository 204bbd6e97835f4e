package api

import (
	"math"
	"strings"
	"testing"
)

func TestInitPayloadValidate(t *testing.T) {
	if err := (InitPayload{Name: "Crewmate"}).Validate(); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := (InitPayload{}).Validate(); err == nil {
		t.Error("empty name accepted")
	}
	if err := (InitPayload{Name: strings.Repeat("x", 25)}).Validate(); err == nil {
		t.Error("25-char name accepted")
	}
}

func TestMovePayloadValidate(t *testing.T) {
	if err := (MovePayload{Dt: 1.0 / 15, Yaw: 1.2}).Validate(); err != nil {
		t.Errorf("valid move rejected: %v", err)
	}
	if err := (MovePayload{Dt: -0.1}).Validate(); err == nil {
		t.Error("negative dt accepted")
	}
	if err := (MovePayload{Dt: 2}).Validate(); err == nil {
		t.Error("dt above a second accepted")
	}
	if err := (MovePayload{Yaw: math.NaN()}).Validate(); err == nil {
		t.Error("NaN yaw accepted")
	}
	if err := (MovePayload{Yaw: math.Inf(1)}).Validate(); err == nil {
		t.Error("infinite yaw accepted")
	}
}

func TestPowerPayloadValidate(t *testing.T) {
	for _, mode := range []string{"", "doors", "lights", "oxygen"} {
		if err := (PowerPayload{Mode: mode}).Validate(); err != nil {
			t.Errorf("mode %q rejected: %v", mode, err)
		}
	}
	if err := (PowerPayload{Mode: "reactor"}).Validate(); err == nil {
		t.Error("unknown sabotage mode accepted")
	}
	if err := (PowerPayload{Aim: &Vec2View{X: math.NaN()}}).Validate(); err == nil {
		t.Error("NaN aim accepted")
	}
}

func TestIDPayloadsValidate(t *testing.T) {
	if err := (DoorPayload{}).Validate(); err == nil {
		t.Error("door payload without id accepted")
	}
	if err := (TaskPayload{}).Validate(); err == nil {
		t.Error("task payload without id accepted")
	}
	if err := (KillPayload{}).Validate(); err == nil {
		t.Error("kill payload without target accepted")
	}
	if err := (KillPayload{TargetID: "p2"}).Validate(); err != nil {
		t.Errorf("valid kill rejected: %v", err)
	}
}
