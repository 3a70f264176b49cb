// taskhive/internal/handlers/project_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRequest - данные для создания/обновления проекта.
type ProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// MemberRequest - данные для добавления участника в проект.
type MemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// ListProjectsHandler возвращает проекты, в которых состоит текущий пользователь.
// Администратор видит все проекты.
func ListProjectsHandler(c *gin.Context) {
	var projects []models.Project
	var totalRows int64

	baseQuery := config.DB.Model(&models.Project{})
	if !c.GetBool("is_admin") {
		userID := c.GetUint("user_id")
		baseQuery = baseQuery.
			Joins("JOIN project_members ON project_members.project_id = projects.id").
			Where("project_members.user_id = ? AND project_members.deleted_at IS NULL", userID)
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where("LOWER(projects.name) LIKE ? OR LOWER(projects.description) LIKE ?", pattern, pattern)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать проекты"})
		return
	}

	if err := baseQuery.Scopes(Paginate(c)).Order("projects.created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список проектов"})
		return
	}

	if projects == nil {
		projects = make([]models.Project, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, projects, totalRows))
}

// CreateProjectHandler создает проект и сразу добавляет создателя как владельца.
func CreateProjectHandler(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	currentUserID := c.GetUint("user_id")
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     currentUserID,
		InviteCode:  uuid.NewString(),
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    currentUserID,
			Role:      "owner",
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProjectHandler возвращает проект с участниками, спринтами и бэклогами.
func GetProjectHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	err = config.DB.Preload("Members.User").Preload("Sprints").Preload("Backlogs").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Проект не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProjectHandler обновляет название и описание проекта.
func UpdateProjectHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
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

	project.Name = req.Name
	project.Description = req.Description
	if err := config.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProjectHandler удаляет проект. Участники удаляются каскадно,
// спринты и их церемонии чистятся в той же транзакции.
func DeleteProjectHandler(c *gin.Context) {
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

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Sprint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// AddProjectMemberHandler добавляет участника. Повторное добавление - конфликт.
func AddProjectMemberHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	var existing models.ProjectMember
	err = config.DB.Where("project_id = ? AND user_id = ?", projectID, req.UserID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Пользователь уже состоит в проекте"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	member := models.ProjectMember{
		ProjectID: uint(projectID),
		UserID:    req.UserID,
		Role:      "member",
	}
	if req.Role != "" {
		member.Role = req.Role
	}
	if err := config.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	var project models.Project
	if config.DB.First(&project, projectID).Error == nil {
		NotifyUser(req.UserID, fmt.Sprintf("Вас добавили в проект «%s»", project.Name))
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveProjectMemberHandler убирает участника из проекта.
func RemoveProjectMemberHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	result := config.DB.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectMember{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Участник не найден"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
