// taskhive/internal/handlers/backlog_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BacklogRequest - данные для создания бэклога.
type BacklogRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateBacklogHandler создает бэклог проекта.
func CreateBacklogHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req BacklogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	backlog := models.Backlog{Name: req.Name, ProjectID: uint(projectID)}
	if err := config.DB.Create(&backlog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create backlog: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, backlog)
}

// GetBacklogHandler возвращает бэклог вместе с его историями.
func GetBacklogHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backlog ID"})
		return
	}

	var backlog models.Backlog
	if err := config.DB.Preload("UserStories").First(&backlog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бэклог не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, backlog)
}

// AddUserStoryToBacklogHandler привязывает историю к бэклогу. Идемпотентно.
func AddUserStoryToBacklogHandler(c *gin.Context) {
	backlogID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backlog ID"})
		return
	}
	storyID, err := strconv.ParseUint(c.Param("userStoryId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user story ID"})
		return
	}

	var backlog models.Backlog
	if err := config.DB.First(&backlog, backlogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бэклог не найден"})
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

	if story.BacklogID == nil || *story.BacklogID != backlog.ID {
		bid := backlog.ID
		story.BacklogID = &bid
		if err := config.DB.Save(&story).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link user story to backlog"})
			return
		}
	}
	c.JSON(http.StatusOK, story)
}

// RemoveUserStoryFromBacklogHandler отвязывает историю от бэклога.
func RemoveUserStoryFromBacklogHandler(c *gin.Context) {
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user story ID"})
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

	if story.BacklogID != nil {
		if err := config.DB.Model(&story).Update("backlog_id", nil).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink user story"})
			return
		}
	}
	c.JSON(http.StatusOK, story)
}
