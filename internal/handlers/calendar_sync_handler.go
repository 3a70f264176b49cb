// taskhive/internal/handlers/calendar_sync_handler.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleAuthURLHandler возвращает ссылку для подключения Google-аккаунта.
func GoogleAuthURLHandler(c *gin.Context) {
	if config.GoogleOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Синхронизация календаря не настроена"})
		return
	}

	url := config.GoogleOAuthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GoogleCallbackHandler обменивает код авторизации на токен
// и сохраняет его у текущего пользователя.
func GoogleCallbackHandler(c *gin.Context) {
	if config.GoogleOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Синхронизация календаря не настроена"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code not provided"})
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange authorization code: " + err.Error()})
		return
	}

	serialized, err := json.Marshal(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serialize token"})
		return
	}

	userID := c.GetUint("user_id")
	err = config.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("google_token", string(serialized)).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Google-аккаунт подключен"})
}

// SyncCalendarHandler выполняет одностороннюю выгрузку локальных событий
// в Google Calendar пользователя. Ошибка по отдельному событию логируется
// и не прерывает синхронизацию остальных.
func SyncCalendarHandler(c *gin.Context) {
	if config.GoogleOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Синхронизация календаря не настроена"})
		return
	}

	userID := c.GetUint("user_id")
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user.GoogleToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google-аккаунт не подключен"})
		return
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(user.GoogleToken), &token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored token is corrupted"})
		return
	}

	ctx := c.Request.Context()
	service, err := calendar.NewService(ctx, option.WithTokenSource(
		config.GoogleOAuthConfig.TokenSource(ctx, &token)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create calendar client: " + err.Error()})
		return
	}

	// Выгружаем события проектов пользователя, еще не попавшие во внешний календарь.
	var events []models.Event
	err = config.DB.
		Joins("JOIN project_members ON project_members.project_id = events.project_id").
		Where("project_members.user_id = ? AND project_members.deleted_at IS NULL", userID).
		Where("events.google_event_id = '' OR events.google_event_id IS NULL").
		Find(&events).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить события для синхронизации"})
		return
	}

	pushed, failed := 0, 0
	for i := range events {
		event := &events[i]
		googleEvent := &calendar.Event{
			Summary: event.Title,
			Start: &calendar.EventDateTime{
				DateTime: event.StartTime.Format(time.RFC3339),
			},
			End: &calendar.EventDateTime{
				DateTime: event.EndTime.Format(time.RFC3339),
			},
		}

		created, err := service.Events.Insert("primary", googleEvent).Do()
		if err != nil {
			slog.Error("Не удалось выгрузить событие в Google Calendar",
				"error", err, "event_id", event.ID, "user_id", userID)
			failed++
			continue
		}

		if err := config.DB.Model(event).Update("google_event_id", created.Id).Error; err != nil {
			slog.Error("Событие выгружено, но маркер синхронизации не сохранен",
				"error", err, "event_id", event.ID)
			failed++
			continue
		}
		pushed++
	}

	c.JSON(http.StatusOK, gin.H{"pushed": pushed, "failed": failed})
}
