// taskhive/internal/handlers/userstory_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserStoryRequest - данные для создания/обновления пользовательской истории.
type UserStoryRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	StoryPoints  float64 `json:"story_points"`
	BacklogID    *uint   `json:"backlog_id"`
	AssignedToID *uint   `json:"assigned_to_id"`
}

// CreateUserStoryHandler создает историю. Оценка проверяется по допустимому ряду.
func CreateUserStoryHandler(c *gin.Context) {
	var req UserStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.StoryPoints != 0 && !models.IsValidStoryPoints(req.StoryPoints) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Недопустимая оценка истории: допускаются 0.5, 1, 2, 3, 5, 8, 13, 20, 40, 100"})
		return
	}

	story := models.UserStory{
		Title:        req.Title,
		Description:  req.Description,
		StoryPoints:  req.StoryPoints,
		BacklogID:    req.BacklogID,
		AssignedToID: req.AssignedToID,
	}
	if req.Status != "" {
		story.Status = req.Status
	}
	if req.Priority != "" {
		story.Priority = req.Priority
	}

	if err := config.DB.Create(&story).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user story: " + err.Error()})
		return
	}

	if story.AssignedToID != nil {
		NotifyUser(*story.AssignedToID, fmt.Sprintf("Вам назначена история «%s»", story.Title))
	}

	c.JSON(http.StatusCreated, story)
}

// GetUserStoryHandler возвращает историю по ID.
func GetUserStoryHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user story ID"})
		return
	}

	var story models.UserStory
	if err := config.DB.First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "История не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, story)
}

// UpdateUserStoryHandler обновляет историю.
func UpdateUserStoryHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user story ID"})
		return
	}

	var req UserStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.StoryPoints != 0 && !models.IsValidStoryPoints(req.StoryPoints) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Недопустимая оценка истории: допускаются 0.5, 1, 2, 3, 5, 8, 13, 20, 40, 100"})
		return
	}

	var story models.UserStory
	if err := config.DB.First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "История не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	previousAssignee := story.AssignedToID

	story.Title = req.Title
	story.Description = req.Description
	story.StoryPoints = req.StoryPoints
	story.BacklogID = req.BacklogID
	story.AssignedToID = req.AssignedToID
	if req.Status != "" {
		story.Status = req.Status
	}
	if req.Priority != "" {
		story.Priority = req.Priority
	}

	if err := config.DB.Save(&story).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user story"})
		return
	}

	if story.AssignedToID != nil && (previousAssignee == nil || *previousAssignee != *story.AssignedToID) {
		NotifyUser(*story.AssignedToID, fmt.Sprintf("Вам назначена история «%s»", story.Title))
	}

	c.JSON(http.StatusOK, story)
}

// DeleteUserStoryHandler удаляет историю.
func DeleteUserStoryHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user story ID"})
		return
	}

	var story models.UserStory
	if err := config.DB.First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "История не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := config.DB.Delete(&story).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user story"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User story deleted successfully"})
}

// AddUserStoryToSprintHandler привязывает историю к спринту.
// Единственный источник истины - поле sprint_id истории, поэтому повторная
// привязка той же пары идемпотентна.
func AddUserStoryToSprintHandler(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return
	}
	storyID, err := strconv.ParseUint(c.Param("userStoryId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user story ID"})
		return
	}

	var sprint models.Sprint
	if err := config.DB.First(&sprint, sprintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Спринт не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var story models.UserStory
	if err := config.DB.First(&story, storyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "История не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if story.SprintID == nil || *story.SprintID != sprint.ID {
		sid := sprint.ID
		story.SprintID = &sid
		if err := config.DB.Save(&story).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link user story to sprint"})
			return
		}
	}

	resp, err := buildSprintResponse(config.DB, sprint.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sprint"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveUserStoryFromSprintHandler отвязывает историю от спринта.
// Поскольку членство выводится по sprint_id, отвязка симметрична привязке.
func RemoveUserStoryFromSprintHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user story ID"})
		return
	}

	var story models.UserStory
	if err := config.DB.First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "История не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if story.SprintID != nil {
		if err := config.DB.Model(&story).Update("sprint_id", nil).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink user story"})
			return
		}
	}
	c.JSON(http.StatusOK, story)
}
