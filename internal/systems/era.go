package systems

import "math"

// Era - именованная фаза окружения планеты
type Era uint8

const (
	EraCalm Era = iota
	EraHot
	EraFrozen
	EraGravity
)

func (e Era) String() string {
	switch e {
	case EraHot:
		return "HOT"
	case EraFrozen:
		return "FROZEN"
	case EraGravity:
		return "GRAVITY"
	default:
		return "CALM"
	}
}

// Phase - одна запись расписания эр
type Phase struct {
	Era         Era
	Duration    float64 // Секунд
	Gravity     float64 // Множитель тяжести (1.0 - норма)
	Description string
}

// PhaseTable - расписание матча. После исчерпания зацикливается по модулю.
var PhaseTable = []Phase{
	{EraCalm, 40, 1.0, "Stable Era: the suns keep their distance"},
	{EraHot, 30, 1.0, "Scorching Era: triple suns blaze overhead"},
	{EraCalm, 20, 1.0, "Brief respite"},
	{EraGravity, 25, 2.5, "Crushing Era: a sun passes close"},
	{EraFrozen, 30, 1.0, "Frozen Era: the sky is empty"},
	{EraCalm, 25, 1.0, "Thaw"},
	{EraHot, 35, 1.0, "Second scorch"},
}

var phaseTotal = func() float64 {
	t := 0.0
	for _, p := range PhaseTable {
		t += p.Duration
	}
	return t
}()

// CurrentPhase - чистая функция от прошедшего времени матча.
// Пересчитывается каждый тик заново: никакого кэша, никакого дрейфа.
func CurrentPhase(elapsed float64) Phase {
	if elapsed < 0 {
		elapsed = 0
	}
	t := math.Mod(elapsed, phaseTotal)
	for _, p := range PhaseTable {
		if t < p.Duration {
			return p
		}
		t -= p.Duration
	}
	return PhaseTable[len(PhaseTable)-1]
}

// PhaseRemaining - секунд до конца текущей фазы
func PhaseRemaining(elapsed float64) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	t := math.Mod(elapsed, phaseTotal)
	for _, p := range PhaseTable {
		if t < p.Duration {
			return p.Duration - t
		}
		t -= p.Duration
	}
	return 0
}

// EraSpeedFactor - транзиентный модификатор скорости от тяжести.
// Применяется только в тике, никогда не сохраняется в игроке.
func EraSpeedFactor(p Phase) float64 {
	if p.Gravity > 1.0 {
		return 1.0 / math.Sqrt(p.Gravity)
	}
	return 1.0
}
