package domain

import "strings"

// ActionType - внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionMove
	ActionDoor
	ActionTaskStart
	ActionTaskComplete
	ActionTaskCancel
	ActionPowerOn
	ActionPowerOff
	ActionKill
	ActionOxygen
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":          ActionInit,
	"MOVE":          ActionMove,
	"DOOR":          ActionDoor,
	"TASK_START":    ActionTaskStart,
	"TASK_COMPLETE": ActionTaskComplete,
	"TASK_CANCEL":   ActionTaskCancel,
	"POWER_ON":      ActionPowerOn,
	"POWER_OFF":     ActionPowerOff,
	"KILL":          ActionKill,
	"OXYGEN":        ActionOxygen,
}

// Маппинг для логов Domain -> String
var actionCmdToString = func() map[ActionType]string {
	m := make(map[ActionType]string, len(actionStringToCmd))
	for s, a := range actionStringToCmd {
		m[a] = s
	}
	return m
}()

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Нечувствительность к регистру для надежности
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf и логов)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
