package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/systems"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/logger"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/maze"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/sunsim"
)

// Каждый четвертый вошедший становится тенью
const shadowEvery = 4

// Room представляет собой один изолированный матч: свой уровень,
// свое небо, свой цикл тиков. Все состояние мутирует только
// горутина Run - сетевые обработчики общаются с ней каналами.
type Room struct {
	ID   string
	Seed int64

	Layout *maze.Layout
	Snap   *domain.MazeSnapshot
	Sun    *sunsim.State

	Players map[domain.PlayerToken]*domain.GamePlayerState

	// Каналы коммуникации
	CommandChan chan domain.InternalCommand
	JoinChan    chan *domain.GamePlayerState
	LeaveChan   chan domain.PlayerToken
	stopChan    chan struct{}

	// Ссылка на Service для доступа к Hub и реестру хендлеров
	Service *GameService

	Tick    int64
	Elapsed float64

	Rng *rand.Rand

	// Лента событий текущего тика. Чистится после рассылки.
	events  []api.EventView
	corpses []domain.DeadBody

	// Токены, ждущие Layout в следующем персональном снапшоте
	pendingInit map[domain.PlayerToken]bool

	// Кэш сериализованного уровня: он неизменяем, маршалим один раз
	layoutJSON json.RawMessage

	Winner string

	// Момент фиксации победителя: от него отсчитывается winLinger
	endedAt  float64
	stopOnce sync.Once

	prevEra    systems.Era
	joinedSeq  int
	powerDecks struct {
		crew   []domain.PowerType
		shadow []domain.PowerType
	}
}

func NewRoom(id string, seed int64, expectedPlayers int, service *GameService) *Room {
	layout := maze.Generate(seed, expectedPlayers)
	rng := rand.New(rand.NewSource(seed))

	r := &Room{
		ID:          id,
		Seed:        seed,
		Layout:      layout,
		Snap:        domain.NewMazeSnapshot(layout),
		Sun:         sunsim.New(sunsim.Preset(seed % 3)),
		Players:     make(map[domain.PlayerToken]*domain.GamePlayerState),
		CommandChan: make(chan domain.InternalCommand, 100),
		JoinChan:    make(chan *domain.GamePlayerState, 10),
		LeaveChan:   make(chan domain.PlayerToken, 10),
		stopChan:    make(chan struct{}),
		Service:     service,
		Rng:         rng,
		pendingInit: make(map[domain.PlayerToken]bool),
	}

	if raw, err := json.Marshal(layout); err == nil {
		r.layoutJSON = raw
	} else {
		logger.Log.WithError(err).Error("failed to marshal layout")
	}

	// Колоды сил: сид комнаты задает порядок раздачи
	r.powerDecks.crew = shuffledPowers(rng, []domain.PowerType{
		domain.PowerInvisibility, domain.PowerSprint, domain.PowerPhase,
		domain.PowerBarrier, domain.PowerShield, domain.PowerOracle,
	})
	r.powerDecks.shadow = shuffledPowers(rng, []domain.PowerType{
		domain.PowerSabotage, domain.PowerMorph,
		domain.PowerPossession, domain.PowerBlink,
	})

	return r
}

func shuffledPowers(rng *rand.Rand, deck []domain.PowerType) []domain.PowerType {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// Run запускает цикл тиков ЭТОЙ комнаты.
func (r *Room) Run() {
	logger.Log.WithFields(logrus.Fields{
		"room": r.ID,
		"seed": r.Seed,
	}).Info("Room loop started")

	ticker := time.NewTicker(domain.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			logger.Log.WithField("room", r.ID).Info("Room loop stopped")
			return

		case p := <-r.JoinChan:
			r.addPlayer(p)

		case token := <-r.LeaveChan:
			r.removePlayer(token)

		case cmd := <-r.CommandChan:
			r.executeCommand(cmd)

		case <-ticker.C:
			r.step(1.0 / domain.TickRate)
		}
	}
}

// Stop останавливает цикл комнаты. Повторные вызовы безвредны:
// комнату глушат и Shutdown сервиса, и ее собственный финал матча.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}

// addPlayer вводит игрока в матч: роль, сила, точка спавна
func (r *Room) addPlayer(p *domain.GamePlayerState) {
	if old, ok := r.Players[p.Token]; ok {
		// Реконнект: тело уже в матче, соединение подхватывает его
		logger.Log.WithField("token", old.Token).Info("Player reconnected")
		r.pendingInit[p.Token] = true
		return
	}

	r.joinedSeq++
	if r.joinedSeq%shadowEvery == 0 {
		p.Role = domain.RoleShadow
		systems.InitPower(p, r.powerDecks.shadow[(r.joinedSeq/shadowEvery-1)%len(r.powerDecks.shadow)])
	} else {
		p.Role = domain.RoleCrew
		systems.InitPower(p, r.powerDecks.crew[(r.joinedSeq-1)%len(r.powerDecks.crew)])
	}

	p.Pos = r.spawnPoint(r.joinedSeq)
	r.Players[p.Token] = p
	r.pendingInit[p.Token] = true

	logger.Log.WithFields(logrus.Fields{
		"room":  r.ID,
		"token": p.Token,
		"name":  p.Name,
		"role":  p.Role.String(),
		"power": p.Power.Type.String(),
	}).Info("Player joined")

	r.addEvent("INFO", fmt.Sprintf("%s boarded the ship", p.Name))
}

// spawnPoint расставляет игроков кольцом по центральной площади
func (r *Room) spawnPoint(seq int) maze.Vec2 {
	center := maze.CellCenter(maze.GridSize/2, maze.GridSize/2)
	angle := float64(seq) * 2.399963 // Золотой угол: без скучивания
	sin, cos := math.Sincos(angle)
	radius := 1.2
	return maze.Vec2{
		X: center.X + radius*cos,
		Y: center.Y + radius*sin,
	}
}

// removePlayer убирает игрока из матча окончательно.
// Дисконнект сюда НЕ ведет: тело остается и ждет реконнекта.
func (r *Room) removePlayer(token domain.PlayerToken) {
	p, ok := r.Players[token]
	if !ok {
		return
	}
	r.releaseHeldTask(p)
	delete(r.Snap.Barriers, token)
	delete(r.Players, token)
	delete(r.pendingInit, token)
	logger.Log.WithFields(logrus.Fields{
		"room":  r.ID,
		"token": token,
	}).Info("Player left")
}

// releaseHeldTask возвращает удерживаемое задание в пул
func (r *Room) releaseHeldTask(p *domain.GamePlayerState) {
	if p.ActiveTaskID == "" {
		return
	}
	if prog, ok := r.Snap.Tasks[p.ActiveTaskID]; ok && prog.Holder == p.Token {
		prog.Status = domain.TaskAvailable
		prog.Holder = ""
	}
	p.ActiveTaskID = ""
}

// executeCommand выполняет команду в контексте комнаты
func (r *Room) executeCommand(cmd domain.InternalCommand) {
	if r.Winner != "" {
		return // Матч окончен, команды мертвы
	}

	actor, ok := r.Players[cmd.Token]
	if !ok {
		return
	}

	handler, ok := r.Service.actionHandlers[cmd.Action]
	if !ok {
		return
	}

	ctx := handlers.Context{
		Layout:   r.Layout,
		Snap:     r.Snap,
		Players:  r.Players,
		Actor:    actor,
		Now:      r.Elapsed,
		Rng:      r.Rng,
		Solids:   systems.BuildCollisionContext(r.Layout, r.Snap, actor.Underground).Segments,
		AddEvent: r.addEvent,
		OnDeath:  r.onDeath,
		MarkInit: func(t domain.PlayerToken) { r.pendingInit[t] = true },
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"room":   r.ID,
			"token":  cmd.Token,
			"action": cmd.Action.String(),
		}).WithError(err).Warn("Command failed")
		return
	}

	if result.Reject != "" {
		logger.Log.WithFields(logrus.Fields{
			"room":   r.ID,
			"token":  cmd.Token,
			"action": cmd.Action.String(),
			"reason": result.Reject,
		}).Debug("Command rejected")
		return
	}

	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = "INFO"
		}
		r.addEvent(msgType, result.Msg)
	}
}

// onDeath регистрирует гибель: труп появляется ровно один раз
func (r *Room) onDeath(victim *domain.GamePlayerState) {
	for _, c := range r.corpses {
		if c.Token == victim.Token {
			return
		}
	}
	r.corpses = append(r.corpses, domain.DeadBody{
		Token:  victim.Token,
		Name:   victim.Name,
		Pos:    victim.Pos,
		DiedAt: r.Elapsed,
	})
	r.releaseHeldTask(victim)
	victim.RefillingGen = ""

	logger.Log.WithFields(logrus.Fields{
		"room":  r.ID,
		"token": victim.Token,
		"name":  victim.Name,
	}).Info("Player died")

	r.checkWin()
}

// reportCorpses: труп найден, когда живой член экипажа подходит вплотную
// на том же слое. Каждый труп репортится один раз и уходит из рассылки.
func (r *Room) reportCorpses() {
	for i := range r.corpses {
		c := &r.corpses[i]
		if c.Reported {
			continue
		}
		for _, p := range r.Players {
			if !p.Alive || p.Ghost || p.Underground || p.Role != domain.RoleCrew {
				continue
			}
			if p.Pos.DistanceTo(c.Pos) > domain.InteractRange {
				continue
			}
			c.Reported = true
			r.addEvent("BODY", fmt.Sprintf("%s found the body of %s", p.Name, c.Name))
			break
		}
	}
}

func (r *Room) addEvent(kind, text string) {
	r.events = append(r.events, api.EventView{
		Type: kind,
		Text: text,
		At:   r.Elapsed,
	})
}
