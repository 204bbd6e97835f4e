package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/engine"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/server"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/internal/version"
	"github.com/lucaslgu/Shadow-Among-Us-3D-sub000/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var players int
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Master world seed (0 for random)")
	flag.IntVar(&players, "players", 4, "Expected players per match (sets task quota)")
	flag.Parse()

	logger.Log.Info("Starting Shadow Among Us server...")
	logger.Log.Info(version.String())

	// Формируем конфиг
	cfg := engine.NewConfig()
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random Master Seed: %d", cfg.Seed)
	}
	if players > 0 {
		cfg.ExpectedPlayers = players
	}

	port := os.Getenv("SAU_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	gameService := engine.NewService(cfg)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(gameService, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	gameService.Shutdown()

	logger.Log.Info("Done.")
}
