// taskhive/internal/handlers/forum_handler.go
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

// ThreadRequest - данные для создания темы форума.
type ThreadRequest struct {
	Title string `json:"title" binding:"required"`
}

// PostRequest - данные для создания сообщения.
type PostRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListThreadsHandler возвращает темы форума проекта.
func ListThreadsHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var threads []models.ForumThread
	err = config.DB.Where("project_id = ?", projectID).Order("created_at DESC").Find(&threads).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить темы форума"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": threads})
}

// CreateThreadHandler создает тему форума.
func CreateThreadHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req ThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	thread := models.ForumThread{
		ProjectID: uint(projectID),
		AuthorID:  c.GetUint("user_id"),
		Title:     req.Title,
	}
	if err := config.DB.Create(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create thread: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, thread)
}

// GetThreadHandler возвращает тему вместе с сообщениями.
func GetThreadHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread ID"})
		return
	}

	var thread models.ForumThread
	err = config.DB.Preload("Posts", func(db *gorm.DB) *gorm.DB {
		return db.Order("forum_posts.created_at")
	}).First(&thread, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Тема не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, thread)
}

// CreatePostHandler добавляет сообщение в тему. Тональность сообщения
// определяется автоматически при создании.
func CreatePostHandler(c *gin.Context) {
	threadID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread ID"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var thread models.ForumThread
	if err := config.DB.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Тема не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	post := models.ForumPost{
		ThreadID:  thread.ID,
		AuthorID:  c.GetUint("user_id"),
		Content:   req.Content,
		Sentiment: analyzeSentiment(c.Request.Context(), req.Content),
	}
	if err := config.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// PostSentimentHandler заново прогоняет сообщение через анализ тональности
// и обновляет сохраненную метку.
func PostSentimentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.ForumPost
	if err := config.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сообщение не найдено"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	post.Sentiment = analyzeSentiment(c.Request.Context(), post.Content)
	if err := config.DB.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sentiment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"postId": post.ID, "sentiment": post.Sentiment})
}

// DeleteThreadHandler удаляет тему вместе с сообщениями.
func DeleteThreadHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread ID"})
		return
	}

	var thread models.ForumThread
	if err := config.DB.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Тема не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", thread.ID).Delete(&models.ForumPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&thread).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete thread"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thread deleted successfully"})
}
