// taskhive/main.go
package main

import (
	"log/slog"
	"os"

	"taskhive/config"
	"taskhive/internal/handlers"
	"taskhive/internal/jobs"
	"taskhive/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Структурированный логгер для всего приложения
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config.InitJWT()
	config.ConnectDB()
	config.MigrateDB()
	config.ConnectRedis()
	config.InitMailer()

	if err := config.InitGoogleServices(); err != nil {
		slog.Warn("Google-сервисы недоступны, sentiment-анализ и синхронизация календаря отключены", "error", err)
	}

	// Хаб push-уведомлений живет все время работы приложения
	go handlers.GlobalHub.Run()

	scheduler := jobs.StartScheduler()
	defer scheduler.Stop()

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Запуск HTTP-сервера", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Сервер остановлен с ошибкой", "error", err)
		os.Exit(1)
	}
}
