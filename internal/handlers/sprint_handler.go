// taskhive/internal/handlers/sprint_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"taskhive/config"
	"taskhive/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Названия автоматически создаваемых церемоний.
const (
	dailyMeetingTitle  = "Daily Meeting"
	sprintReviewTitle  = "Sprint Review"
	retrospectiveTitle = "Sprint Retrospective"
)

// SprintRequest - данные для создания спринта вместе с его церемониями.
// Все три пары времени задаются строками "HH:MM".
type SprintRequest struct {
	Title           string    `json:"title" binding:"required"`
	Goal            string    `json:"goal"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	DailyStartTime  string    `json:"dailyStartTime" binding:"required"`
	DailyEndTime    string    `json:"dailyEndTime" binding:"required"`
	ReviewStartTime string    `json:"reviewStartTime" binding:"required"`
	ReviewEndTime   string    `json:"reviewEndTime" binding:"required"`
	RetroStartTime  string    `json:"retroStartTime" binding:"required"`
	RetroEndTime    string    `json:"retroEndTime" binding:"required"`
}

// SprintUpdateRequest - данные для обновления спринта.
// Если меняется диапазон дат, все шесть полей времени обязательны:
// церемонии пересоздаются заново.
type SprintUpdateRequest struct {
	Title           string     `json:"title"`
	Goal            *string    `json:"goal"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	DailyStartTime  string     `json:"dailyStartTime"`
	DailyEndTime    string     `json:"dailyEndTime"`
	ReviewStartTime string     `json:"reviewStartTime"`
	ReviewEndTime   string     `json:"reviewEndTime"`
	RetroStartTime  string     `json:"retroStartTime"`
	RetroEndTime    string     `json:"retroEndTime"`
}

// ceremonyTimes - проверенные пары времени церемоний.
type ceremonyTimes struct {
	dailyStart, dailyEnd   string
	reviewStart, reviewEnd string
	retroStart, retroEnd   string
}

// SprintResponse дополняет спринт сгруппированными списками церемоний,
// чтобы клиенту не приходилось фильтровать события самому.
type SprintResponse struct {
	models.Sprint
	Planning       []models.Event `json:"planning"`
	Reviews        []models.Event `json:"reviews"`
	Retrospectives []models.Event `json:"retrospectives"`
}

// validateCeremonyTimes проверяет формат всех пар и что конец позже начала.
func validateCeremonyTimes(ct ceremonyTimes) error {
	pairs := [][2]string{
		{ct.dailyStart, ct.dailyEnd},
		{ct.reviewStart, ct.reviewEnd},
		{ct.retroStart, ct.retroEnd},
	}
	for _, p := range pairs {
		sh, sm, err := parseTimeOfDay(p[0])
		if err != nil {
			return err
		}
		eh, em, err := parseTimeOfDay(p[1])
		if err != nil {
			return err
		}
		if eh*60+em <= sh*60+sm {
			return errors.New("ceremony end time must be after start time")
		}
	}
	return nil
}

// generateCeremonyEvents создает внутри транзакции полный календарь церемоний
// спринта: по одному Daily Meeting на каждый календарный день диапазона
// включительно, плюс Sprint Review и Sprint Retrospective в последний день.
// Любая ошибка записи откатывает транзакцию целиком - частично созданных
// событий не остается.
func generateCeremonyEvents(tx *gorm.DB, sprint *models.Sprint, ct ceremonyTimes, ownerID uint) error {
	sprintID := sprint.ID
	firstDay := truncateToDay(sprint.StartDate)
	lastDay := truncateToDay(sprint.EndDate)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		startTime, err := combineDateTime(day, ct.dailyStart)
		if err != nil {
			return err
		}
		endTime, err := combineDateTime(day, ct.dailyEnd)
		if err != nil {
			return err
		}

		event := models.Event{
			Title:     dailyMeetingTitle,
			Type:      models.EventTypeMeeting,
			Kind:      models.EventKindDaily,
			Date:      day,
			StartTime: startTime,
			EndTime:   endTime,
			Repeat:    models.EventRepeatNone,
			ProjectID: sprint.ProjectID,
			SprintID:  &sprintID,
			OwnerID:   ownerID,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
	}

	closing := []struct {
		title      string
		kind       string
		start, end string
	}{
		{sprintReviewTitle, models.EventKindReview, ct.reviewStart, ct.reviewEnd},
		{retrospectiveTitle, models.EventKindRetro, ct.retroStart, ct.retroEnd},
	}
	for _, cl := range closing {
		startTime, err := combineDateTime(lastDay, cl.start)
		if err != nil {
			return err
		}
		endTime, err := combineDateTime(lastDay, cl.end)
		if err != nil {
			return err
		}

		event := models.Event{
			Title:     cl.title,
			Type:      models.EventTypeMeeting,
			Kind:      cl.kind,
			Date:      lastDay,
			StartTime: startTime,
			EndTime:   endTime,
			Repeat:    models.EventRepeatNone,
			ProjectID: sprint.ProjectID,
			SprintID:  &sprintID,
			OwnerID:   ownerID,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
	}

	return nil
}

// buildSprintResponse загружает спринт с историями и церемониями
// и группирует события по их роли.
func buildSprintResponse(db *gorm.DB, sprintID uint) (*SprintResponse, error) {
	var sprint models.Sprint
	err := db.Preload("UserStories").Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("events.date, events.start_time")
	}).First(&sprint, sprintID).Error
	if err != nil {
		return nil, err
	}

	resp := SprintResponse{
		Sprint:         sprint,
		Planning:       []models.Event{},
		Reviews:        []models.Event{},
		Retrospectives: []models.Event{},
	}
	for _, event := range sprint.Events {
		switch event.Kind {
		case models.EventKindDaily:
			resp.Planning = append(resp.Planning, event)
		case models.EventKindReview:
			resp.Reviews = append(resp.Reviews, event)
		case models.EventKindRetro:
			resp.Retrospectives = append(resp.Retrospectives, event)
		}
	}
	return &resp, nil
}

// CreateSprintHandler создает спринт и весь календарь его церемоний
// в одной транзакции.
func CreateSprintHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req SprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if truncateToDay(req.EndDate).Before(truncateToDay(req.StartDate)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Дата окончания спринта раньше даты начала"})
		return
	}

	times := ceremonyTimes{
		dailyStart: req.DailyStartTime, dailyEnd: req.DailyEndTime,
		reviewStart: req.ReviewStartTime, reviewEnd: req.ReviewEndTime,
		retroStart: req.RetroStartTime, retroEnd: req.RetroEndTime,
	}
	if err := validateCeremonyTimes(times); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var project models.Project
	if err := config.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Проект не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	currentUserID := c.GetUint("user_id")
	sprint := models.Sprint{
		Title:     req.Title,
		Goal:      req.Goal,
		StartDate: truncateToDay(req.StartDate),
		EndDate:   truncateToDay(req.EndDate),
		Status:    models.SprintStatusPlanned,
		ProjectID: uint(projectID),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sprint).Error; err != nil {
			return err
		}
		return generateCeremonyEvents(tx, &sprint, times, currentUserID)
	})
	if err != nil {
		slog.Error("Не удалось создать спринт с церемониями", "error", err, "project_id", projectID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sprint: " + err.Error()})
		return
	}

	resp, err := buildSprintResponse(config.DB, sprint.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load created sprint"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSprintHandler возвращает спринт со сгруппированными церемониями.
func GetSprintHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return
	}

	resp, err := buildSprintResponse(config.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Спринт не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSprintsHandler возвращает все спринты проекта.
func ListSprintsHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var sprints []models.Sprint
	query := config.DB.Where("project_id = ?", projectID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("start_date").Find(&sprints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список спринтов"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sprints})
}

// ListActiveSprintsHandler возвращает спринты проекта со статусом "In Progress".
func ListActiveSprintsHandler(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var sprints []models.Sprint
	err = config.DB.Where("project_id = ? AND status = ?", projectID, models.SprintStatusInProgress).
		Order("start_date").Find(&sprints).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить активные спринты"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sprints})
}

// UpdateSprintHandler обновляет спринт. При изменении диапазона дат старые
// церемонии удаляются и календарь генерируется заново - в той же транзакции.
func UpdateSprintHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return
	}

	var req SprintUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var sprint models.Sprint
	if err := config.DB.First(&sprint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Спринт не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	datesChanged := req.StartDate != nil || req.EndDate != nil
	newStart := sprint.StartDate
	newEnd := sprint.EndDate
	if req.StartDate != nil {
		newStart = truncateToDay(*req.StartDate)
	}
	if req.EndDate != nil {
		newEnd = truncateToDay(*req.EndDate)
	}
	if newEnd.Before(newStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Дата окончания спринта раньше даты начала"})
		return
	}

	var times ceremonyTimes
	if datesChanged {
		times = ceremonyTimes{
			dailyStart: req.DailyStartTime, dailyEnd: req.DailyEndTime,
			reviewStart: req.ReviewStartTime, reviewEnd: req.ReviewEndTime,
			retroStart: req.RetroStartTime, retroEnd: req.RetroEndTime,
		}
		if err := validateCeremonyTimes(times); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "При изменении дат требуются все поля времени церемоний: " + err.Error()})
			return
		}
	}

	currentUserID := c.GetUint("user_id")
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if req.Title != "" {
			sprint.Title = req.Title
		}
		if req.Goal != nil {
			sprint.Goal = *req.Goal
		}
		sprint.StartDate = newStart
		sprint.EndDate = newEnd
		if err := tx.Save(&sprint).Error; err != nil {
			return err
		}

		if datesChanged {
			if err := tx.Where("sprint_id = ? AND kind <> ?", sprint.ID, models.EventKindNone).
				Delete(&models.Event{}).Error; err != nil {
				return err
			}
			return generateCeremonyEvents(tx, &sprint, times, currentUserID)
		}
		return nil
	})
	if err != nil {
		slog.Error("Не удалось обновить спринт", "error", err, "sprint_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sprint: " + err.Error()})
		return
	}

	resp, err := buildSprintResponse(config.DB, sprint.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updated sprint"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSprintHandler удаляет спринт вместе с его церемониями.
// Ссылки историй на спринт очищаются, сами истории не удаляются.
func DeleteSprintHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return
	}

	var sprint models.Sprint
	if err := config.DB.First(&sprint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Спринт не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sprint_id = ?", sprint.ID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.UserStory{}).Where("sprint_id = ?", sprint.ID).
			Update("sprint_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&sprint).Error
	})
	if err != nil {
		slog.Error("Не удалось удалить спринт", "error", err, "sprint_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sprint"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sprint deleted successfully"})
}

// StartSprintHandler переводит спринт в статус "In Progress".
// Предусловий на текущий статус нет: завершенный спринт можно запустить заново.
func StartSprintHandler(c *gin.Context) {
	updateSprintStatus(c, models.SprintStatusInProgress)
}

// CompleteSprintHandler переводит спринт в статус "Completed".
func CompleteSprintHandler(c *gin.Context) {
	updateSprintStatus(c, models.SprintStatusCompleted)
}

func updateSprintStatus(c *gin.Context, status string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return
	}

	var sprint models.Sprint
	if err := config.DB.First(&sprint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Спринт не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	sprint.Status = status
	now := time.Now()
	switch status {
	case models.SprintStatusInProgress:
		sprint.StartDate = now
	case models.SprintStatusCompleted:
		sprint.EndDate = now
	}

	if err := config.DB.Save(&sprint).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sprint status"})
		return
	}
	c.JSON(http.StatusOK, sprint)
}

// SprintLatenessHandler сообщает, просрочен ли спринт. Чистое чтение.
func SprintLatenessHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID"})
		return
	}

	var sprint models.Sprint
	if err := config.DB.First(&sprint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Спринт не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sprintId": sprint.ID, "isLate": sprint.IsLate(time.Now())})
}
