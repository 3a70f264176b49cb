// taskhive/internal/handlers/task_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TaskRequest - данные для создания/обновления задачи.
type TaskRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *uint      `json:"assigned_to_id"`
}

// ListTasksHandler возвращает задачи проекта с фильтрами и пагинацией.
func ListTasksHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var tasks []models.Task
	var totalRows int64

	baseQuery := config.DB.Model(&models.Task{}).Where("project_id = ?", projectID)
	if status := c.Query("status"); status != "" {
		baseQuery = baseQuery.Where("status = ?", status)
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		baseQuery = baseQuery.Where("assigned_to_id = ?", assignee)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать задачи"})
		return
	}
	if err := baseQuery.Scopes(Paginate(c)).Order("created_at DESC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список задач"})
		return
	}

	if tasks == nil {
		tasks = make([]models.Task, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, tasks, totalRows))
}

// CreateTaskHandler создает задачу и уведомляет исполнителя, если он назначен.
func CreateTaskHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ProjectID:    uint(projectID),
		AssignedToID: req.AssignedToID,
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}

	if err := config.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task: " + err.Error()})
		return
	}

	if task.AssignedToID != nil {
		NotifyUser(*task.AssignedToID, fmt.Sprintf("Вам назначена задача «%s»", task.Title))
	}

	c.JSON(http.StatusCreated, task)
}

// GetTaskHandler возвращает задачу вместе с историей изменений.
func GetTaskHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task models.Task
	err = config.DB.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("task_histories.created_at DESC")
	}).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задача не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// taskFieldDiff возвращает записи истории по каждому измененному полю задачи.
func taskFieldDiff(old models.Task, req TaskRequest, userID uint) []models.TaskHistory {
	var changes []models.TaskHistory
	record := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			changes = append(changes, models.TaskHistory{
				TaskID:   old.ID,
				UserID:   userID,
				Field:    field,
				OldValue: oldVal,
				NewValue: newVal,
			})
		}
	}

	record("title", old.Title, req.Title)
	record("description", old.Description, req.Description)
	if req.Status != "" {
		record("status", old.Status, req.Status)
	}
	if req.Priority != "" {
		record("priority", old.Priority, req.Priority)
	}

	formatDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}
	record("due_date", formatDate(old.DueDate), formatDate(req.DueDate))

	formatRef := func(id *uint) string {
		if id == nil {
			return ""
		}
		return strconv.FormatUint(uint64(*id), 10)
	}
	record("assigned_to", formatRef(old.AssignedToID), formatRef(req.AssignedToID))

	return changes
}

// UpdateTaskHandler обновляет задачу и записывает в историю по одной записи
// на каждое измененное поле. Обновление и история пишутся одной транзакцией.
func UpdateTaskHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var task models.Task
	if err := config.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задача не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	currentUserID := c.GetUint("user_id")
	changes := taskFieldDiff(task, req, currentUserID)
	previousAssignee := task.AssignedToID

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		task.Title = req.Title
		task.Description = req.Description
		task.DueDate = req.DueDate
		task.AssignedToID = req.AssignedToID
		if req.Status != "" {
			task.Status = req.Status
		}
		if req.Priority != "" {
			task.Priority = req.Priority
		}
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		for i := range changes {
			if err := tx.Create(&changes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	if task.AssignedToID != nil && (previousAssignee == nil || *previousAssignee != *task.AssignedToID) {
		NotifyUser(*task.AssignedToID, fmt.Sprintf("Вам назначена задача «%s»", task.Title))
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler удаляет задачу вместе с историей.
func DeleteTaskHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task models.Task
	if err := config.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задача не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
