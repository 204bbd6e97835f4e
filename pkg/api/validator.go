package api

import (
	"errors"
	"math"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p InitPayload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if len(p.Name) > 24 {
		return errors.New("name too long")
	}
	return nil
}

func (p MovePayload) Validate() error {
	if p.Dt < 0 || p.Dt > 1 {
		return errors.New("dt out of range")
	}
	if math.IsNaN(p.Yaw) || math.IsInf(p.Yaw, 0) {
		return errors.New("yaw must be finite")
	}
	return nil
}

func (p DoorPayload) Validate() error {
	if p.DoorID == "" {
		return errors.New("doorId is required")
	}
	return nil
}

func (p TaskPayload) Validate() error {
	if p.TaskID == "" {
		return errors.New("taskId is required")
	}
	return nil
}

func (p PowerPayload) Validate() error {
	switch p.Mode {
	case "", "doors", "lights", "oxygen":
	default:
		return errors.New("unknown sabotage mode")
	}
	if p.Aim != nil && (math.IsNaN(p.Aim.X) || math.IsNaN(p.Aim.Y)) {
		return errors.New("aim must be finite")
	}
	return nil
}

func (p KillPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}
