// taskhive/internal/handlers/notification_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
)

// NotifyUser сохраняет уведомление и доставляет его по websocket и email.
// Сбой доставки логируется и никогда не пробрасывается вызывающему:
// уведомления не должны ломать основной запрос.
func NotifyUser(userID uint, message string) {
	notification := models.Notification{UserID: userID, Message: message}
	if err := config.DB.Create(&notification).Error; err != nil {
		slog.Error("Не удалось сохранить уведомление", "error", err, "user_id", userID)
		return
	}

	GlobalHub.Push(userID, notification)

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		slog.Warn("Получатель уведомления не найден, письмо не отправлено", "user_id", userID)
		return
	}
	if err := config.SendMail(user.Email, "TaskHive: новое уведомление", message); err != nil {
		slog.Error("Не удалось отправить письмо с уведомлением", "error", err, "user_id", userID)
	}
}

// ListNotificationsHandler возвращает уведомления текущего пользователя.
func ListNotificationsHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var notifications []models.Notification
	query := config.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}
	if err := query.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить уведомления"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// MarkNotificationReadHandler помечает уведомление прочитанным.
func MarkNotificationReadHandler(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	result := config.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Уведомление не найдено"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
