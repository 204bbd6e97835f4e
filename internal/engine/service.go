package engine

import (
	"sync"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine/handlers/actions"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/network"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/logger"
)

// GameService владеет комнатами и маршрутизирует команды.
// Сам он состояние матчей не трогает: вся мутация в циклах комнат.
type GameService struct {
	cfg Config
	Hub *network.Broadcaster

	mu         sync.RWMutex
	rooms      map[string]*Room
	playerRoom map[domain.PlayerToken]*Room

	actionHandlers map[domain.ActionType]handlers.HandlerFunc
}

func NewService(cfg Config) *GameService {
	s := &GameService{
		cfg:            cfg,
		Hub:            network.NewBroadcaster(),
		rooms:          make(map[string]*Room),
		playerRoom:     make(map[domain.PlayerToken]*Room),
		actionHandlers: make(map[domain.ActionType]handlers.HandlerFunc),
	}
	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.actionHandlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.actionHandlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.actionHandlers[domain.ActionDoor] = handlers.WithPayload(actions.HandleDoor)
	s.actionHandlers[domain.ActionTaskStart] = handlers.WithPayload(actions.HandleTaskStart)
	s.actionHandlers[domain.ActionTaskComplete] = handlers.WithPayload(actions.HandleTaskComplete)
	s.actionHandlers[domain.ActionTaskCancel] = handlers.WithPayload(actions.HandleTaskCancel)
	s.actionHandlers[domain.ActionPowerOn] = handlers.WithPayload(actions.HandlePowerOn)
	s.actionHandlers[domain.ActionPowerOff] = handlers.WithEmptyPayload(actions.HandlePowerOff)
	s.actionHandlers[domain.ActionKill] = handlers.WithPayload(actions.HandleKill)
	s.actionHandlers[domain.ActionOxygen] = handlers.WithPayload(actions.HandleOxygen)
}

// EnsureRoom возвращает комнату по ID, создавая и запуская при отсутствии.
// Сид комнаты - мастер-сид плюс порядковый номер создания.
func (s *GameService) EnsureRoom(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.rooms[id]; ok {
		return r
	}
	seed := s.cfg.Seed + int64(len(s.rooms))
	r := NewRoom(id, seed, s.cfg.ExpectedPlayers, s)
	s.rooms[id] = r
	go r.Run()
	return r
}

// JoinRoom вводит игрока в комнату и запоминает маршрут его токена
func (s *GameService) JoinRoom(roomID string, token domain.PlayerToken, name string) *Room {
	r := s.EnsureRoom(roomID)

	s.mu.Lock()
	s.playerRoom[token] = r
	s.mu.Unlock()

	r.JoinChan <- domain.NewPlayer(token, name)
	return r
}

// RoomOf возвращает комнату, в которой играет токен
func (s *GameService) RoomOf(token domain.PlayerToken) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerRoom[token]
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Токен уже аутентифицирован соединением - хендлеры ему доверяют.
func (s *GameService) ProcessCommand(externalCmd api.ClientCommand) {
	actionType := domain.ParseAction(externalCmd.Action)
	if actionType == domain.ActionUnknown {
		logger.Log.WithField("action", externalCmd.Action).Debug("Unknown action")
		return
	}

	token := domain.PlayerToken(externalCmd.Token)
	room := s.RoomOf(token)
	if room == nil {
		return
	}

	cmd := domain.InternalCommand{
		Action:  actionType,
		Token:   token,
		Payload: externalCmd.Payload,
	}

	// Полный канал роняет команду: комната задыхается, а не копит долг
	select {
	case room.CommandChan <- cmd:
	default:
		logger.Log.WithField("room", room.ID).Warn("Command channel full, dropping")
	}
}

// dropRoom выписывает оконченный матч из реестра вместе с маршрутами
// его игроков. Поздние команды мертвой комнаты молча теряются в RoomOf.
func (s *GameService) dropRoom(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rooms[r.ID] == r {
		delete(s.rooms, r.ID)
	}
	for token, room := range s.playerRoom {
		if room == r {
			delete(s.playerRoom, token)
		}
	}
	logger.Log.WithField("room", r.ID).Info("Room dropped from registry")
}

// Shutdown останавливает все комнаты
func (s *GameService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		r.Stop()
	}
}
