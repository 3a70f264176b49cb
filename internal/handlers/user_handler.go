// taskhive/internal/handlers/user_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileUpdateRequest - данные для обновления профиля.
type ProfileUpdateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// GetProfileHandler возвращает профиль текущего пользователя.
func GetProfileHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfileHandler обновляет имя и email текущего пользователя.
// Кэш пользователя в Redis инвалидируется.
func UpdateProfileHandler(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	if config.RDB != nil {
		config.RDB.Del(config.Ctx, fmt.Sprintf("user:%d:data", userID))
	}

	c.JSON(http.StatusOK, user)
}

// ListUsersHandler возвращает пользователей (для выбора исполнителей и участников).
func ListUsersHandler(c *gin.Context) {
	var users []models.User
	query := config.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(login) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern)
	}
	if err := query.Order("full_name").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список пользователей"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}
