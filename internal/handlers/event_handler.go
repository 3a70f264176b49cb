// taskhive/internal/handlers/event_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EventRequest - структура для получения данных при создании/обновлении события.
type EventRequest struct {
	Title     string    `json:"title" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Type      string    `json:"type"`
	Repeat    string    `json:"repeat"`
}

// ListProjectEventsHandler возвращает события проекта, включая церемонии
// спринтов, опционально ограниченные диапазоном дат.
func ListProjectEventsHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	query := config.DB.Where("project_id = ?", projectID)
	if from := c.Query("from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты from. Ожидается YYYY-MM-DD"})
			return
		}
		query = query.Where("date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты to. Ожидается YYYY-MM-DD"})
			return
		}
		query = query.Where("date <= ?", toDate)
	}

	var events []models.Event
	if err := query.Order("date, start_time").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить события"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

// CreateEventHandler создает обычное (не церемониальное) событие календаря.
func CreateEventHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !req.EndTime.After(req.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Время окончания события должно быть позже времени начала"})
		return
	}

	event := models.Event{
		Title:     req.Title,
		Type:      models.EventTypeMeeting,
		Kind:      models.EventKindNone,
		Date:      truncateToDay(req.StartTime),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Repeat:    models.EventRepeatNone,
		ProjectID: uint(projectID),
		OwnerID:   c.GetUint("user_id"),
	}
	if req.Type != "" {
		event.Type = req.Type
	}
	if req.Repeat != "" {
		event.Repeat = req.Repeat
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEventHandler обновляет событие. Церемонии спринтов пересоздаются
// через обновление спринта и напрямую не редактируются.
func UpdateEventHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := config.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Событие не найдено"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if event.Kind != models.EventKindNone {
		c.JSON(http.StatusConflict, gin.H{"error": "Церемонии спринта редактируются через обновление спринта"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !req.EndTime.After(req.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Время окончания события должно быть позже времени начала"})
		return
	}

	event.Title = req.Title
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Date = truncateToDay(req.StartTime)
	if req.Type != "" {
		event.Type = req.Type
	}
	if req.Repeat != "" {
		event.Repeat = req.Repeat
	}

	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEventHandler удаляет событие. Удалять можно только обычные события:
// календарь церемоний принадлежит спринту.
func DeleteEventHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := config.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Событие не найдено"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if event.Kind != models.EventKindNone {
		c.JSON(http.StatusConflict, gin.H{"error": "Церемонии спринта удаляются вместе со спринтом"})
		return
	}

	if err := config.DB.Delete(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
