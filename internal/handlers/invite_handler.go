// taskhive/internal/handlers/invite_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// ProjectInviteQRHandler возвращает PNG с QR-кодом ссылки-приглашения в проект.
func ProjectInviteQRHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := config.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Проект не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	inviteURL := fmt.Sprintf("%s/join/%s", baseURL, project.InviteCode)

	png, err := qrcode.Encode(inviteURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// JoinByInviteHandler принимает код приглашения и добавляет текущего
// пользователя в проект. Повторный вход по той же ссылке - no-op.
func JoinByInviteHandler(c *gin.Context) {
	code := c.Param("code")

	var project models.Project
	if err := config.DB.Where("invite_code = ?", code).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Приглашение не найдено"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	userID := c.GetUint("user_id")
	var existing models.ProjectMember
	err := config.DB.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Вы уже состоите в проекте", "project_id": project.ID})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	member := models.ProjectMember{ProjectID: project.ID, UserID: userID, Role: "member"}
	if err := config.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join project"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Вы присоединились к проекту", "project_id": project.ID})
}
