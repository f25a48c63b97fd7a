package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/ButyrinIA/innerpeace/internal/config"
	"github.com/ButyrinIA/innerpeace/internal/server"
	"github.com/ButyrinIA/innerpeace/internal/storage"
	"github.com/ButyrinIA/innerpeace/internal/storage/memory"
	"github.com/ButyrinIA/innerpeace/internal/storage/postgres"
	"github.com/ButyrinIA/innerpeace/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	storageType := flag.String("storage", "", "тип хранилища: memory, postgres или sqlite (по умолчанию из конфигурации)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию: %v", err)
	}
	if *storageType != "" {
		cfg.Storage.Type = *storageType
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Некорректная конфигурация: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	switch cfg.Storage.Type {
	case "postgres":
		log.Println("Инициализация хранилища PostgreSQL")
		store, err = postgres.New(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			log.Fatalf("Не удалось инициализировать PostgreSQL: %v", err)
		}
	case "sqlite":
		log.Println("Инициализация хранилища SQLite")
		store, err = sqlite.New(cfg.SQLite.Path)
		if err != nil {
			log.Fatalf("Не удалось инициализировать SQLite: %v", err)
		}
	case "memory":
		log.Println("Инициализация хранилища Memory")
		store = memory.New()
	}
	defer store.Close()

	if cfg.Storage.InitOnStart {
		if err := store.Init(ctx); err != nil {
			log.Fatalf("Не удалось создать таблицы: %v", err)
		}
	}

	srv := server.New(cfg, store)
	log.Println("Запуск сервера")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Ошибка сервера: %v", err)
	}
	log.Println("Сервер остановлен")
}
