package actions

import (
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// HandleDoor переключает дверь или, если ID принадлежит узлу труб,
// спускает/поднимает актора между слоями.
func HandleDoor(ctx handlers.Context, p api.DoorPayload) (handlers.Result, error) {
	if !ctx.Actor.Alive || ctx.Actor.Ghost {
		return handlers.Rejected("dead"), nil
	}

	if node := ctx.Layout.NodeByID(p.DoorID); node != nil {
		return handlePipeNode(ctx, node.ID)
	}

	door := ctx.Layout.DoorByID(p.DoorID)
	if door == nil {
		return handlers.Rejected("unknown_door"), nil
	}
	if ctx.Actor.Pos.DistanceTo(door.Center) > domain.InteractRange {
		return handlers.Rejected("out_of_range"), nil
	}

	if p.Lock != nil {
		return handleDoorLock(ctx, door, *p.Lock)
	}

	if ctx.Snap.DoorLocked[door.ID] {
		return handlers.Rejected("locked"), nil
	}
	if ctx.Snap.DoorOpen[door.ID] == p.Open {
		return handlers.Rejected("no_change"), nil
	}

	ctx.Snap.DoorOpen[door.ID] = p.Open
	return handlers.EmptyResult(), nil
}

// handleDoorLock: замком управляют только изнутри комнаты-владельца.
// Ручной замок без срока - держится, пока его не снимут тем же путем.
func handleDoorLock(ctx handlers.Context, door *maze.Door, lock bool) (handlers.Result, error) {
	room := ctx.Layout.RoomAt(ctx.Actor.Pos)
	if room == nil || room.DoorID != door.ID {
		return handlers.Rejected("wrong_side"), nil
	}
	if ctx.Snap.DoorLocked[door.ID] == lock {
		return handlers.Rejected("no_change"), nil
	}

	if lock {
		ctx.Snap.DoorOpen[door.ID] = false
		ctx.Snap.DoorLocked[door.ID] = true
		ctx.Snap.DoorLockedAt[door.ID] = ctx.Now
		return handlers.EmptyResult(), nil
	}

	ctx.Snap.DoorLocked[door.ID] = false
	delete(ctx.Snap.DoorLockedAt, door.ID)
	delete(ctx.Snap.DoorLockExpiry, door.ID)
	return handlers.EmptyResult(), nil
}

// handlePipeNode: вход в трубы доступен только теневой роли
func handlePipeNode(ctx handlers.Context, nodeID string) (handlers.Result, error) {
	if ctx.Actor.Role != domain.RoleShadow {
		return handlers.Rejected("wrong_role"), nil
	}
	node := ctx.Layout.NodeByID(nodeID)
	if ctx.Actor.Pos.DistanceTo(node.Pos) > domain.InteractRange {
		return handlers.Rejected("out_of_range"), nil
	}
	if ctx.Snap.PipeLocked[node.ID] {
		return handlers.Rejected("locked"), nil
	}

	ctx.Actor.Underground = !ctx.Actor.Underground
	ctx.Actor.Pos = node.Pos
	return handlers.EmptyResult(), nil
}
