package engine

import "time"

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. Комната N получает Seed + N:
	// один и тот же мастер-сид воспроизводит все уровни матча.
	Seed int64

	// ExpectedPlayers задает квоту заданий на уровне
	ExpectedPlayers int
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:            time.Now().UnixNano(),
		ExpectedPlayers: 4,
	}
}
