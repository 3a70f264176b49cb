// taskhive/config/database.go

package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskhive/models"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		slog.Error("Критическая ошибка: переменная окружения DB_URL не установлена.")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("Ошибка подключения к БД", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("Успешное подключение к базе данных!")
}

// MigrateDB выполняет автоматическую миграцию всех моделей приложения.
// Вызывается один раз при старте, сразу после ConnectDB.
func MigrateDB() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Backlog{},
		&models.Sprint{},
		&models.Event{},
		&models.UserStory{},
		&models.Task{},
		&models.TaskHistory{},
		&models.ForumThread{},
		&models.ForumPost{},
		&models.Question{},
		&models.Answer{},
		&models.AnswerVote{},
		&models.Notification{},
	)
	if err != nil {
		slog.Error("Ошибка миграции схемы БД", "error", err)
		os.Exit(1)
	}
	slog.Info("Миграция схемы БД выполнена успешно.")
}
