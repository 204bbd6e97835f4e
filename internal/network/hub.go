package network

import (
	"sync"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/domain"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/api"
)

// Broadcaster занимается только рассылкой снапшотов подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: PlayerToken -> Личный канал
	subscribers map[string]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал для игрока.
// Повторная регистрация того же токена (реконнект) закрывает старый канал.
func (b *Broadcaster) Register(token domain.PlayerToken) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[token.String()]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[token.String()] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(token domain.PlayerToken) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[token.String()]; ok {
		close(ch)
		delete(b.subscribers, token.String())
	}
}

// SendTo отправляет персональный снапшот конкретному токену (Unicast).
// Полный канал молча роняет сообщение: снапшоты самодостаточны,
// следующий тик все равно принесет свежий.
func (b *Broadcaster) SendTo(token domain.PlayerToken, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[token.String()]; ok {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Broadcast отправляет всем подписчикам
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, подключен ли игрок прямо сейчас
func (b *Broadcaster) HasSubscriber(token domain.PlayerToken) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[token.String()]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
