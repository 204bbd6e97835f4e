package actions

import (
	"fmt"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
)

// findTask - общие проверки жизненного цикла задания
func findTask(ctx handlers.Context, id string) (*maze.Task, *domain.TaskProgress, handlers.Result) {
	task := ctx.Layout.TaskByID(id)
	if task == nil {
		return nil, nil, handlers.Rejected("unknown_task")
	}
	prog, ok := ctx.Snap.Tasks[id]
	if !ok {
		return nil, nil, handlers.Rejected("unknown_task")
	}
	if !ctx.Actor.Alive || ctx.Actor.Ghost {
		return nil, nil, handlers.Rejected("dead")
	}
	return task, prog, handlers.EmptyResult()
}

// HandleTaskStart переводит задание available -> in_progress
func HandleTaskStart(ctx handlers.Context, p api.TaskPayload) (handlers.Result, error) {
	task, prog, rej := findTask(ctx, p.TaskID)
	if rej.Reject != "" {
		return rej, nil
	}
	if ctx.Actor.Pos.DistanceTo(task.Pos) > domain.TaskRange {
		return handlers.Rejected("out_of_range"), nil
	}
	if ctx.Actor.ActiveTaskID != "" {
		return handlers.Rejected("busy"), nil
	}

	switch prog.Status {
	case domain.TaskCompleted:
		return handlers.Rejected("already_completed"), nil
	case domain.TaskInProgress:
		return handlers.Rejected("task_busy"), nil
	}

	prog.Status = domain.TaskInProgress
	prog.Holder = ctx.Actor.Token
	ctx.Actor.ActiveTaskID = task.ID
	return handlers.EmptyResult(), nil
}

// HandleTaskComplete переводит задание in_progress -> completed.
// Засчитывается только экипажу: тень может лишь изображать работу.
func HandleTaskComplete(ctx handlers.Context, p api.TaskPayload) (handlers.Result, error) {
	task, prog, rej := findTask(ctx, p.TaskID)
	if rej.Reject != "" {
		return rej, nil
	}

	if prog.Status == domain.TaskCompleted {
		return handlers.Rejected("already_completed"), nil
	}
	if prog.Status != domain.TaskInProgress || prog.Holder != ctx.Actor.Token {
		return handlers.Rejected("not_holder"), nil
	}
	if ctx.Actor.Pos.DistanceTo(task.Pos) > domain.TaskRange {
		return handlers.Rejected("out_of_range"), nil
	}
	if ctx.Actor.Role != domain.RoleCrew {
		return handlers.Rejected("wrong_role"), nil
	}

	prog.Status = domain.TaskCompleted
	prog.Holder = ""
	prog.CompletedBy = ctx.Actor.Token
	ctx.Actor.ActiveTaskID = ""

	return handlers.Result{
		Msg:     fmt.Sprintf("%s finished a task in %s", ctx.Actor.Name, roomName(ctx.Layout, task.RoomID)),
		MsgType: "TASK",
	}, nil
}

// HandleTaskCancel возвращает задание held -> available
func HandleTaskCancel(ctx handlers.Context, p api.TaskPayload) (handlers.Result, error) {
	_, prog, rej := findTask(ctx, p.TaskID)
	if rej.Reject != "" {
		return rej, nil
	}
	if prog.Status != domain.TaskInProgress || prog.Holder != ctx.Actor.Token {
		return handlers.Rejected("not_holder"), nil
	}

	prog.Status = domain.TaskAvailable
	prog.Holder = ""
	ctx.Actor.ActiveTaskID = ""
	return handlers.EmptyResult(), nil
}

func roomName(l *maze.Layout, roomID string) string {
	if r := l.RoomByID(roomID); r != nil {
		return r.Name
	}
	return "the ship"
}
